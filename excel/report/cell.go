package report

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// DateTimeWidth 日期单元格固定宽度, 对应 dd/mm/yyyy hh:mm:ss AM/PM
const DateTimeWidth = 26

// 1900 date system bounds
const (
	MinYear = 1900
	MaxYear = 9999
)

var (
	ErrDateOutOfRange = errors.New("date-time outside representable range")
	ErrTextTooLong    = errors.New("text exceeds cell character limit")
	ErrUnknownCell    = errors.New("unsupported cell value")
)

var displayWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// DateTime is a calendar date-time in the layout the workbook stores it.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// NewDateTime decomposes t (converted to UTC) into a DateTime.
func NewDateTime(t time.Time) (DateTime, error) {
	t = t.UTC()
	if t.Year() < MinYear || t.Year() > MaxYear {
		return DateTime{}, fmt.Errorf("%w: %s", ErrDateOutOfRange, t.Format(time.RFC3339))
	}
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}, nil
}

func (d DateTime) Time() time.Time {
	sec := int(d.Second)
	nsec := int((d.Second - float64(sec)) * 1e9)
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, sec, nsec, time.UTC)
}

type cell struct {
	value any
	width int
}

func encodeCell(kind CellKind, v any) (cell, error) {
	switch kind {
	case TextCell:
		s, ok := v.(string)
		if !ok {
			return cell{}, fmt.Errorf("%w: %T as %s", ErrUnknownCell, v, kind)
		}
		return encodeText(s)
	case DateTimeCell:
		t, ok := v.(time.Time)
		if !ok {
			return cell{}, fmt.Errorf("%w: %T as %s", ErrUnknownCell, v, kind)
		}
		return encodeDateTime(t)
	default:
		return cell{}, fmt.Errorf("%w: kind %d", ErrUnknownCell, kind)
	}
}

func encodeText(s string) (cell, error) {
	if utf8.RuneCountInString(s) > excelize.TotalCellChars {
		return cell{}, fmt.Errorf("%w: %d characters", ErrTextTooLong, utf8.RuneCountInString(s))
	}
	return cell{value: s, width: textWidth(s)}, nil
}

func encodeDateTime(t time.Time) (cell, error) {
	d, err := NewDateTime(t)
	if err != nil {
		return cell{}, err
	}
	return cell{value: d, width: DateTimeWidth}, nil
}

func textWidth(s string) int {
	return displayWidth.StringWidth(s)
}
