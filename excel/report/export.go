package report

import (
	"context"
	"errors"
	"io"

	"github.com/opdss/report/contracts/excel"
	"github.com/zeebo/errs"
)

var (
	// EncodingError 字段无法写入目标单元格
	EncodingError = errs.Class("encoding")
	// SerializationError 工作簿无法生成
	SerializationError = errs.Class("serialization")
	// IOError 写文件或上传存储失败
	IOError = errs.Class("io")
)

var ErrMaximumLimit = errors.New("export quantity exceeds maximum limit")

const MaxRows = 1000000 //最大导出数据

const (
	DefaultSheetName   = "Sheet1"
	DefaultFontSize    = 12.0
	DefaultWidthFactor = 1.2
	MaxFontSize        = 409.0
	// DateFormat 日期列显示格式
	DateFormat = "dd/mm/yyyy hh:mm:ss AM/PM"
	// CsvDateLayout DateFormat 对应的 go 时间格式
	CsvDateLayout = "02/01/2006 03:04:05 PM"
)

// ExcelSuffix CsvSuffix 导出文件后缀
const ExcelSuffix = "xlsx"
const CsvSuffix = "csv"

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CsvContentType   = "text/csv; charset=utf-8"
)

// ToExcelBytes 导出excel的快捷方法
func ToExcelBytes(records []Record, opt ...Option) ([]byte, error) {
	return NewExcel(opt...).Encode(records)
}

// ToExcelStream 导出excel的快捷方法
func ToExcelStream(ctx context.Context, records []Record, w io.Writer, opt ...Option) (int64, error) {
	return NewExcel(opt...).ExportTo(ctx, records, w)
}

// ToExcelFile 导出excel的快捷方法
func ToExcelFile(ctx context.Context, records []Record, opt ...Option) (string, error) {
	return NewExcel(opt...).Export(ctx, records)
}

// ToExcelStorage 导出excel到文件存储的快捷方法
func ToExcelStorage(ctx context.Context, records []Record, fs excel.FileStorage, opt ...Option) (string, error) {
	return NewExcel(opt...).ExportToStorage(ctx, records, fs)
}

// ToCsvStream 导出csv的快捷方法
func ToCsvStream(ctx context.Context, records []Record, w io.Writer, opt ...Option) (int64, error) {
	return NewCsv(opt...).ExportTo(ctx, records, w)
}

// ToCsvFile 导出csv的快捷方法
func ToCsvFile(ctx context.Context, records []Record, opt ...Option) (string, error) {
	return NewCsv(opt...).Export(ctx, records)
}
