package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvEncode(t *testing.T) {
	b, err := NewCsv().Encode([]Record{exampleRecord()})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Id", "StartDate", "EndDate", "Project", "Name", "Text"},
		{"a1", "15/01/2023 09:30:00 AM", "15/01/2023 10:00:00 AM", "P", "Alice", "hello"},
	}, rows)

	rec := exampleRecord()
	rec.StartDate = time.Time{}
	_, err = NewCsv().Encode([]Record{rec})
	assert.True(t, EncodingError.Has(err))
}

type memStorage struct {
	files map[string][]byte
	err   error
}

func (m *memStorage) PutStream(ctx context.Context, filename string, rs io.Reader) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(rs)
	if err != nil {
		return err
	}
	m.files[filename] = b
	return nil
}

func (m *memStorage) Url(fileKey string) string {
	return "http://files.local/" + fileKey
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	records := makeRecords(3)
	want, err := NewExcel().Encode(records)
	require.NoError(t, err)

	t.Run("file", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "report")
		path, err := NewExcel(WithFilename(name)).Export(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, name+".xlsx", path)
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, rawRows(t, openReport(t, got)), 4)
	})

	t.Run("file io error", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "missing", "report")
		_, err := NewExcel(WithFilename(name)).Export(ctx, records)
		assert.True(t, IOError.Has(err))
	})

	t.Run("writer", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := NewExcel().ExportTo(ctx, records, &buf)
		require.NoError(t, err)
		assert.EqualValues(t, buf.Len(), n)
		assert.Equal(t, rawRows(t, openReport(t, want)), rawRows(t, openReport(t, buf.Bytes())))
	})

	t.Run("storage", func(t *testing.T) {
		fs := &memStorage{files: map[string][]byte{}}
		url, err := NewCsv(WithFilename("weekly")).ExportToStorage(ctx, records, fs)
		require.NoError(t, err)
		assert.Equal(t, "http://files.local/weekly.csv", url)
		assert.True(t, strings.HasPrefix(string(fs.files["weekly.csv"]), "Id,StartDate"))

		fs.err = io.ErrClosedPipe
		_, err = NewExcel().ExportToStorage(ctx, records, fs)
		assert.True(t, IOError.Has(err))
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewExcel().ExportTo(cctx, records, io.Discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
