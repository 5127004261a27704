package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exampleRecord() Record {
	return Record{
		Id:        "a1",
		StartDate: time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC),
		Project:   "P",
		Name:      "Alice",
		Text:      "hello",
	}
}

func makeRecords(n int) []Record {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	res := make([]Record, n)
	for i := range res {
		res[i] = Record{
			Id:        fmt.Sprintf("id-%d", i),
			StartDate: start.Add(time.Duration(i) * time.Hour),
			EndDate:   start.Add(time.Duration(i+1) * time.Hour),
			Project:   fmt.Sprintf("project %d", i%3),
			Name:      strings.Repeat("n", i%20+1),
			Text:      strings.Repeat("t", i),
		}
	}
	return res
}

func openReport(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	fp, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fp.Close() })
	return fp
}

func rawRows(t *testing.T, fp *excelize.File) [][]string {
	t.Helper()
	rows, err := fp.GetRows(DefaultSheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func colWidths(t *testing.T, fp *excelize.File, sheet string) []float64 {
	t.Helper()
	res := make([]float64, len(schema))
	for i := range schema {
		name, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)
		res[i], err = fp.GetColWidth(sheet, name)
		require.NoError(t, err)
	}
	return res
}

func cellTime(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	tm, err := excelize.ExcelDateToTime(v, false)
	require.NoError(t, err)
	return tm
}

func TestExcelEncodeExample(t *testing.T) {
	rec := exampleRecord()
	b, err := NewExcel().Encode([]Record{rec})
	require.NoError(t, err)
	fp := openReport(t, b)

	rows := rawRows(t, fp)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Id", "StartDate", "EndDate", "Project", "Name", "Text"}, rows[0])

	row := rows[1]
	require.Len(t, row, 6)
	assert.Equal(t, "a1", row[0])
	assert.WithinDuration(t, rec.StartDate, cellTime(t, row[1]), time.Second)
	assert.WithinDuration(t, rec.EndDate, cellTime(t, row[2]), time.Second)
	assert.Equal(t, []string{"P", "Alice", "hello"}, row[3:])

	widths := colWidths(t, fp, DefaultSheetName)
	expected := []float64{2.4, 31.2, 31.2, 8.4, 6, 6}
	for i := range expected {
		assert.InDelta(t, expected[i], widths[i], 1e-9, "column %d", i)
	}
}

func TestExcelEncodeEmpty(t *testing.T) {
	b, err := NewExcel().Encode(nil)
	require.NoError(t, err)
	fp := openReport(t, b)

	rows := rawRows(t, fp)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.titles(), rows[0])

	widths := colWidths(t, fp, DefaultSheetName)
	for i, col := range schema {
		assert.InDelta(t, float64(len(col.Title))*DefaultWidthFactor, widths[i], 1e-9, col.Title)
	}
}

func TestExcelEncodeRows(t *testing.T) {
	records := makeRecords(50)
	b, err := NewExcel().Encode(records)
	require.NoError(t, err)
	fp := openReport(t, b)

	rows := rawRows(t, fp)
	require.Len(t, rows, len(records)+1)
	for i, rec := range records {
		row := rows[i+1]
		assert.Equal(t, rec.Id, row[0])
		assert.WithinDuration(t, rec.StartDate, cellTime(t, row[1]), time.Second)
		assert.Equal(t, rec.Project, row[3])
		assert.Equal(t, rec.Name, row[4])
		if rec.Text != "" {
			assert.Equal(t, rec.Text, row[5])
		}
	}

	// every column is at least factor * widest content
	widths := colWidths(t, fp, DefaultSheetName)
	for i, col := range schema {
		max := len(col.Title)
		for _, rec := range records {
			c, err := encodeCell(col.Kind, col.value(&rec))
			require.NoError(t, err)
			if c.width > max {
				max = c.width
			}
		}
		assert.GreaterOrEqual(t, widths[i]+1e-9, float64(max)*DefaultWidthFactor, col.Title)
	}

	h, err := fp.GetRowHeight(DefaultSheetName, 2)
	require.NoError(t, err)
	assert.InDelta(t, DefaultFontSize, h, 1e-9)
}

func TestExcelEncodeDeterministic(t *testing.T) {
	records := makeRecords(20)
	e := NewExcel()
	b1, err := e.Encode(records)
	require.NoError(t, err)
	b2, err := e.Encode(records)
	require.NoError(t, err)

	fp1, fp2 := openReport(t, b1), openReport(t, b2)
	assert.Equal(t, rawRows(t, fp1), rawRows(t, fp2))
	assert.Equal(t, colWidths(t, fp1, DefaultSheetName), colWidths(t, fp2, DefaultSheetName))
}

func TestExcelEncodeInvalidDate(t *testing.T) {
	for name, tm := range map[string]time.Time{
		"year zero": time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC),
		"zero time": {},
		"too late":  time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		t.Run(name, func(t *testing.T) {
			records := makeRecords(3)
			records[1].EndDate = tm
			b, err := NewExcel().Encode(records)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, EncodingError.Has(err))
			assert.ErrorIs(t, err, ErrDateOutOfRange)
			assert.Contains(t, err.Error(), "record 1")
		})
	}
}

func TestExcelEncodeNonASCIIWidth(t *testing.T) {
	rec := exampleRecord()
	rec.Name = "Ünïcödé" // 7 characters, 11 bytes
	b, err := NewExcel().Encode([]Record{rec})
	require.NoError(t, err)

	widths := colWidths(t, openReport(t, b), DefaultSheetName)
	assert.InDelta(t, 7*DefaultWidthFactor, widths[4], 1e-9)
}

func TestExcelEncodeWideRunesWidth(t *testing.T) {
	rec := exampleRecord()
	rec.Name = "项目名称报表" // 6 runes, 12 columns wide
	b, err := NewExcel().Encode([]Record{rec})
	require.NoError(t, err)

	widths := colWidths(t, openReport(t, b), DefaultSheetName)
	assert.InDelta(t, 12*DefaultWidthFactor, widths[4], 1e-9)
}

func TestExcelEncodeWidthCap(t *testing.T) {
	rec := exampleRecord()
	rec.Text = strings.Repeat("x", 300)
	b, err := NewExcel().Encode([]Record{rec})
	require.NoError(t, err)

	widths := colWidths(t, openReport(t, b), DefaultSheetName)
	assert.InDelta(t, float64(excelize.MaxColumnWidth), widths[5], 1e-9)
}

func TestExcelEncodeOptions(t *testing.T) {
	e := NewExcel(WithSheetName("Report"), WithWidthFactor(2), WithFontSize(10), WithMaxRows(5))
	b, err := e.Encode([]Record{exampleRecord()})
	require.NoError(t, err)
	fp := openReport(t, b)

	assert.Equal(t, []string{"Report"}, fp.GetSheetList())
	widths := colWidths(t, fp, "Report")
	assert.InDelta(t, 4.0, widths[0], 1e-9)
	assert.InDelta(t, 52.0, widths[1], 1e-9)
	h, err := fp.GetRowHeight("Report", 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, h, 1e-9)

	_, err = e.Encode(makeRecords(6))
	assert.ErrorIs(t, err, ErrMaximumLimit)
}

func TestExcelDateColumnStyle(t *testing.T) {
	b, err := NewExcel().Encode([]Record{exampleRecord()})
	require.NoError(t, err)
	fp := openReport(t, b)

	text, err := fp.GetColStyle(DefaultSheetName, "A")
	require.NoError(t, err)
	start, err := fp.GetColStyle(DefaultSheetName, "B")
	require.NoError(t, err)
	end, err := fp.GetColStyle(DefaultSheetName, "C")
	require.NoError(t, err)

	assert.NotZero(t, text)
	assert.NotEqual(t, text, start)
	assert.Equal(t, start, end)
}

func TestExcelEncodeConcurrent(t *testing.T) {
	e := NewExcel()
	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Encode(makeRecords(i * 5))
		}(i)
	}
	wg.Wait()

	for i, b := range results {
		require.NoError(t, errs[i])
		assert.Len(t, rawRows(t, openReport(t, b)), i*5+1)
	}
}

func TestExcelDateFormatOption(t *testing.T) {
	b, err := NewExcel(WithDateFormat("yyyy-mm-dd hh:mm")).Encode([]Record{exampleRecord()})
	require.NoError(t, err)
	fp := openReport(t, b)

	idx, err := fp.GetColStyle(DefaultSheetName, "B")
	require.NoError(t, err)
	style, err := fp.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, style.CustomNumFmt)
	assert.Equal(t, "yyyy-mm-dd hh:mm", *style.CustomNumFmt)
	assert.True(t, style.Alignment.WrapText)
	assert.InDelta(t, DefaultFontSize, style.Font.Size, 1e-9)
}
