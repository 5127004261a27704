package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/opdss/report/contracts/excel"
	"github.com/spf13/cast"
)

var _ excel.Exporter[Record] = (*Csv)(nil)

// Csv 使用与 Excel 相同的列导出 csv
type Csv struct {
	options *options
	columns columns
}

func NewCsv(opts ...Option) *Csv {
	return &Csv{
		columns: schema,
		options: newOptions(opts...),
	}
}

func (c *Csv) Suffix() string {
	return CsvSuffix
}

func (c *Csv) ContentType() string {
	return CsvContentType
}

func (c *Csv) Encode(records []Record) ([]byte, error) {
	if len(records) > c.options.maxRows {
		return nil, ErrMaximumLimit
	}
	var buf bytes.Buffer
	fw := csv.NewWriter(&buf)
	if err := fw.Write(c.columns.titles()); err != nil {
		return nil, SerializationError.Wrap(err)
	}
	for i := range records {
		values, err := c.processRow(i, &records[i])
		if err != nil {
			return nil, err
		}
		if err = fw.Write(values); err != nil {
			return nil, SerializationError.Wrap(err)
		}
	}
	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, SerializationError.Wrap(err)
	}
	return buf.Bytes(), nil
}

func (c *Csv) Export(ctx context.Context, records []Record) (string, error) {
	return exportFile(ctx, c, records, c.options.filename)
}

func (c *Csv) ExportTo(ctx context.Context, records []Record, w io.Writer) (int64, error) {
	return exportTo(ctx, c, records, w)
}

func (c *Csv) ExportToStorage(ctx context.Context, records []Record, fs excel.FileStorage) (string, error) {
	return exportToStorage(ctx, c, records, fs, c.options.filename)
}

func (c *Csv) processRow(idx int, r *Record) ([]string, error) {
	row := make([]string, len(c.columns))
	for _, col := range c.columns {
		v, err := encodeCell(col.Kind, col.value(r))
		if err != nil {
			return nil, EncodingError.Wrap(fmt.Errorf("record %d, column %s: %w", idx, col.Title, err))
		}
		if d, ok := v.value.(DateTime); ok {
			row[col.Index] = d.Time().Format(CsvDateLayout)
			continue
		}
		row[col.Index] = cast.ToString(v.value)
	}
	return row, nil
}
