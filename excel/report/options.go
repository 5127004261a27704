package report

import (
	"go.uber.org/zap"
)

type Option func(opt *options)

// WithMaxRows 最大数据行数，超过会报异常
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 && n < MaxRows {
			opt.maxRows = n
		}
	}
}

// WithFilename 设置导出文件名,不用加后缀，会自动加
func WithFilename(filename string) Option {
	return func(opt *options) {
		opt.filename = filename
	}
}

// WithSheetName 设置工作表名称
func WithSheetName(name string) Option {
	return func(opt *options) {
		if name != "" {
			opt.sheetName = name
		}
	}
}

// WithFontSize 字号，同时作为数据行的行高
func WithFontSize(size float64) Option {
	return func(opt *options) {
		if size > 0 && size <= MaxFontSize {
			opt.fontSize = size
		}
	}
}

// WithWidthFactor 列宽放大系数
func WithWidthFactor(f float64) Option {
	return func(opt *options) {
		if f >= 1 {
			opt.widthFactor = f
		}
	}
}

// WithDateFormat 日期列的数字格式，只影响显示
func WithDateFormat(format string) Option {
	return func(opt *options) {
		if format != "" {
			opt.dateFormat = format
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		if logger != nil {
			opt.logger = logger
		}
	}
}

type options struct {
	maxRows     int     //导出最大数量
	filename    string  //文件名，不要加后缀，会自动加
	sheetName   string  //工作表名称
	fontSize    float64 //字号
	widthFactor float64 //列宽放大系数
	dateFormat  string
	logger      *zap.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		maxRows:     MaxRows,
		filename:    "",
		sheetName:   DefaultSheetName,
		fontSize:    DefaultFontSize,
		widthFactor: DefaultWidthFactor,
		dateFormat:  DateFormat,
		logger:      zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

// cellFormat is the immutable column format applied once all widths are known.
type cellFormat struct {
	FontSize float64
	WrapText bool
	NumFmt   string
}

func (o *options) textFormat() cellFormat {
	return cellFormat{FontSize: o.fontSize, WrapText: true}
}

func (o *options) dateCellFormat() cellFormat {
	f := o.textFormat()
	f.NumFmt = o.dateFormat
	return f
}
