package report

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var errWriterState = errors.New("row writer used out of order")

type writerState uint8

const (
	stateHeader writerState = iota
	stateBody
	stateDone
)

// rowWriter writes the header at row 0 and record i at row i+1, feeding every cell width into
// the tracker. Coordinates passed to excelize are 1-based.
type rowWriter struct {
	fp        *excelize.File
	sheet     string
	columns   columns
	widths    *widthTracker
	rowHeight float64
	state     writerState
}

func newRowWriter(fp *excelize.File, sheet string, cols columns, rowHeight float64) *rowWriter {
	return &rowWriter{
		fp:        fp,
		sheet:     sheet,
		columns:   cols,
		widths:    newWidthTracker(),
		rowHeight: rowHeight,
		state:     stateHeader,
	}
}

func (w *rowWriter) writeHeader() error {
	if w.state != stateHeader {
		return SerializationError.Wrap(errWriterState)
	}
	values := make([]any, len(w.columns))
	for _, col := range w.columns {
		values[col.Index] = col.Title
		w.widths.record(col.Index, textWidth(col.Title))
	}
	if err := w.setRow(0, values); err != nil {
		return err
	}
	w.state = stateBody
	return nil
}

func (w *rowWriter) writeRecord(idx int, r *Record) error {
	if w.state != stateBody {
		return SerializationError.Wrap(errWriterState)
	}
	values := make([]any, len(w.columns))
	widths := make([]int, len(w.columns))
	for _, col := range w.columns {
		c, err := encodeCell(col.Kind, col.value(r))
		if err != nil {
			return EncodingError.Wrap(fmt.Errorf("record %d, column %s: %w", idx, col.Title, err))
		}
		if d, ok := c.value.(DateTime); ok {
			values[col.Index] = d.Time()
		} else {
			values[col.Index] = c.value
		}
		widths[col.Index] = c.width
	}
	//整行写入成功后再记录宽度
	if err := w.setRow(idx+1, values); err != nil {
		return err
	}
	if err := w.fp.SetRowHeight(w.sheet, idx+2, w.rowHeight); err != nil {
		return SerializationError.Wrap(err)
	}
	for col, width := range widths {
		w.widths.record(col, width)
	}
	return nil
}

// finish closes the body and returns the final width map.
func (w *rowWriter) finish() map[int]int {
	w.state = stateDone
	return w.widths.finalize()
}

func (w *rowWriter) setRow(row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return SerializationError.Wrap(err)
	}
	if err = w.fp.SetSheetRow(w.sheet, cell, &values); err != nil {
		return SerializationError.Wrap(err)
	}
	return nil
}
