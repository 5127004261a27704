package report

import (
	"context"
	"io"
	"time"

	"github.com/opdss/report/contracts/excel"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var _ excel.Exporter[Record] = (*Excel)(nil)

// Excel 把记录编码为只有一个工作表的 xlsx 文档。
// 每次 Encode 使用独立的工作簿和列宽表, 同一个 Excel 可以并发使用。
type Excel struct {
	options *options
	columns columns
}

func NewExcel(opts ...Option) *Excel {
	return &Excel{
		columns: schema,
		options: newOptions(opts...),
	}
}

func (e *Excel) Suffix() string {
	return ExcelSuffix
}

func (e *Excel) ContentType() string {
	return ExcelContentType
}

// Encode 生成完整的 xlsx 文档
func (e *Excel) Encode(records []Record) ([]byte, error) {
	if len(records) > e.options.maxRows {
		return nil, ErrMaximumLimit
	}
	start := time.Now()
	fp := excelize.NewFile()
	defer func() {
		if err := fp.Close(); err != nil {
			e.options.logger.Warn("excel close", zap.Error(err))
		}
	}()
	sheet := DefaultSheetName
	if e.options.sheetName != DefaultSheetName {
		if err := fp.SetSheetName(DefaultSheetName, e.options.sheetName); err != nil {
			return nil, SerializationError.Wrap(err)
		}
		sheet = e.options.sheetName
	}

	w := newRowWriter(fp, sheet, e.columns, e.options.fontSize)
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	for i := range records {
		if err := w.writeRecord(i, &records[i]); err != nil {
			return nil, err
		}
	}
	if err := e.setColStyle(fp, sheet, w.finish()); err != nil {
		return nil, err
	}

	buf, err := fp.WriteToBuffer()
	if err != nil {
		return nil, SerializationError.Wrap(err)
	}
	e.options.logger.Debug("excel encoded",
		zap.Int("rows", len(records)),
		zap.Int("bytes", buf.Len()),
		zap.Duration("took", time.Since(start)))
	return buf.Bytes(), nil
}

// Export 导出到本地文件，返回本地文件路径
func (e *Excel) Export(ctx context.Context, records []Record) (string, error) {
	return exportFile(ctx, e, records, e.options.filename)
}

// ExportTo 导出到io.Writer
func (e *Excel) ExportTo(ctx context.Context, records []Record, w io.Writer) (int64, error) {
	return exportTo(ctx, e, records, w)
}

// ExportToStorage 导出到文件存储，返回下载地址
func (e *Excel) ExportToStorage(ctx context.Context, records []Record, fs excel.FileStorage) (string, error) {
	return exportToStorage(ctx, e, records, fs, e.options.filename)
}

// setColStyle 设置列宽度和列样式
func (e *Excel) setColStyle(fp *excelize.File, sheet string, widths map[int]int) error {
	textStyle, err := fp.NewStyle(e.options.textFormat().style())
	if err != nil {
		return SerializationError.Wrap(err)
	}
	dateStyle, err := fp.NewStyle(e.options.dateCellFormat().style())
	if err != nil {
		return SerializationError.Wrap(err)
	}
	for _, col := range e.columns {
		colName, err := excelize.ColumnNumberToName(col.Index + 1)
		if err != nil {
			return SerializationError.Wrap(err)
		}
		styleId := textStyle
		if col.Kind == DateTimeCell {
			styleId = dateStyle
		}
		if err = fp.SetColStyle(sheet, colName, styleId); err != nil {
			return SerializationError.Wrap(err)
		}
		width := columnWidth(widths[col.Index], e.options.widthFactor)
		if err = fp.SetColWidth(sheet, colName, colName, width); err != nil {
			return SerializationError.Wrap(err)
		}
	}
	return nil
}

// columnWidth scales a tracked width, capped at the widest column excel accepts.
func columnWidth(tracked int, factor float64) float64 {
	w := float64(tracked) * factor
	if w > excelize.MaxColumnWidth {
		return excelize.MaxColumnWidth
	}
	return w
}

func (f cellFormat) style() *excelize.Style {
	s := &excelize.Style{
		Font:      &excelize.Font{Size: f.FontSize},
		Alignment: &excelize.Alignment{WrapText: f.WrapText},
	}
	if f.NumFmt != "" {
		numFmt := f.NumFmt
		s.CustomNumFmt = &numFmt
	}
	return s
}
