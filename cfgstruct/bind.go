package cfgstruct

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

const rootKey = "ROOT"

// BindOpt is an option for the Bind method
type BindOpt struct {
	isDev *bool
	vars  map[string]string
}

// ConfDir sets variables for default options called $ROOT.
func ConfDir(path string) BindOpt {
	val := filepath.Clean(os.ExpandEnv(path))
	return BindOpt{vars: map[string]string{rootKey: val}}
}

// UseDevDefaults forces the bind call to use development defaults.
func UseDevDefaults() BindOpt {
	dev := true
	return BindOpt{isDev: &dev}
}

// UseReleaseDefaults forces the bind call to use release defaults.
func UseReleaseDefaults() BindOpt {
	dev := false
	return BindOpt{isDev: &dev}
}

// Bind sets flags on a FlagSet that match the configuration struct
// 'config'. This works by traversing the config struct using the 'reflect'
// package.
func Bind(flags *pflag.FlagSet, config interface{}, opts ...BindOpt) {
	isDev := true
	vars := map[string]string{}
	for _, opt := range opts {
		if opt.isDev != nil {
			isDev = *opt.isDev
		}
		for k, v := range opt.vars {
			vars[k] = v
		}
	}

	ptrtype := reflect.TypeOf(config)
	if ptrtype.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("invalid config type: %#v. Expecting pointer to struct.", config))
	}
	bindConfig(flags, "", reflect.ValueOf(config).Elem(), vars, isDev)
}

func bindConfig(flags *pflag.FlagSet, prefix string, val reflect.Value, vars map[string]string, isDev bool) {
	if val.Kind() != reflect.Struct {
		panic(fmt.Sprintf("invalid config type: %#v. Expecting struct.", val.Interface()))
	}
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		fieldval := val.Field(i)
		flagname := prefix + hyphenate(snakeCase(field.Name))

		if field.Tag.Get("noprefix") != "" {
			flagname = hyphenate(snakeCase(field.Name))
		}
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if field.Anonymous {
				bindConfig(flags, prefix, fieldval, vars, isDev)
			} else {
				bindConfig(flags, flagname+".", fieldval, vars, isDev)
			}
			continue
		}

		def, ok := defaultValue(field, isDev)
		if !ok {
			continue
		}
		def = expand(vars, def)
		help := field.Tag.Get("help")
		ptr := fieldval.Addr().Interface()

		switch p := ptr.(type) {
		case *string:
			flags.StringVar(p, flagname, def, help)
		case *bool:
			flags.BoolVar(p, flagname, cast.ToBool(def), help)
		case *int:
			flags.IntVar(p, flagname, cast.ToInt(def), help)
		case *int64:
			flags.Int64Var(p, flagname, cast.ToInt64(def), help)
		case *uint:
			flags.UintVar(p, flagname, cast.ToUint(def), help)
		case *uint64:
			flags.Uint64Var(p, flagname, cast.ToUint64(def), help)
		case *float64:
			flags.Float64Var(p, flagname, cast.ToFloat64(def), help)
		case *time.Duration:
			flags.DurationVar(p, flagname, cast.ToDuration(def), help)
		case *[]string:
			var items []string
			if def != "" {
				items = cast.ToStringSlice(strings.Split(def, ","))
			}
			flags.StringSliceVar(p, flagname, items, help)
		default:
			panic(fmt.Sprintf("invalid field type: %s", field.Type.String()))
		}
		if field.Tag.Get("internal") == "true" {
			if err := flags.MarkHidden(flagname); err != nil {
				panic(fmt.Sprintf("mark hidden failed %s: %v", flagname, err))
			}
		}
	}
}

// defaultValue 开发环境用 devDefault/default, 生产环境优先 releaseDefault
func defaultValue(field reflect.StructField, isDev bool) (string, bool) {
	if isDev {
		if v, ok := field.Tag.Lookup("devDefault"); ok {
			return v, true
		}
	} else if v, ok := field.Tag.Lookup("releaseDefault"); ok {
		return v, true
	}
	return field.Tag.Lookup("default")
}

func expand(vars map[string]string, val string) string {
	return os.Expand(val, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return "$" + key
	})
}

func hyphenate(val string) string {
	return strings.ReplaceAll(val, "_", "-")
}

// snakeCase FontSize -> font_size, DBName -> db_name
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
