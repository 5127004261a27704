package cfgstruct

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Address string `help:"监听地址" default:"0.0.0.0:8989"`
	Report  struct {
		FontSize    float64       `help:"字号" default:"12"`
		WidthFactor float64       `help:"列宽系数" default:"1.2"`
		MaxRows     int           `help:"最大行数" default:"1000000"`
		Timeout     time.Duration `help:"超时" default:"30s"`
		Dir         string        `help:"目录" default:"$ROOT/reports"`
	}
	Debug   bool     `help:"调试" default:"true" releaseDefault:"false"`
	Drivers []string `help:"驱动" default:"local,s3"`
	Secret  string   `help:"内部" default:"x" internal:"true"`
	skipped string
	NoTag   string
}

func TestBind(t *testing.T) {
	var c testConfig
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Bind(flags, &c, ConfDir("/etc/report"))
	require.NoError(t, flags.Parse(nil))

	assert.Equal(t, "0.0.0.0:8989", c.Address)
	assert.Equal(t, 12.0, c.Report.FontSize)
	assert.Equal(t, 1.2, c.Report.WidthFactor)
	assert.Equal(t, 1000000, c.Report.MaxRows)
	assert.Equal(t, 30*time.Second, c.Report.Timeout)
	assert.Equal(t, "/etc/report/reports", c.Report.Dir)
	assert.True(t, c.Debug)
	assert.Equal(t, []string{"local", "s3"}, c.Drivers)

	assert.NotNil(t, flags.Lookup("report.font-size"))
	assert.Nil(t, flags.Lookup("no-tag"))
	assert.True(t, flags.Lookup("secret").Hidden)
}

func TestBindRelease(t *testing.T) {
	var c testConfig
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Bind(flags, &c, UseReleaseDefaults())
	require.NoError(t, flags.Parse([]string{"--report.max-rows=10", "--address=:80"}))

	assert.False(t, c.Debug)
	assert.Equal(t, 10, c.Report.MaxRows)
	assert.Equal(t, ":80", c.Address)
	assert.Equal(t, "$ROOT/reports", c.Report.Dir)
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"FontSize":   "font_size",
		"DBName":     "db_name",
		"Id":         "id",
		"SampleSize": "sample_size",
		"TTL":        "ttl",
		"UserId":     "user_id",
	} {
		assert.Equal(t, want, snakeCase(in), in)
	}
}
