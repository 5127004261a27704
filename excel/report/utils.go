package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/opdss/report/contracts/excel"
	"github.com/zeebo/errs"
	"golang.org/x/exp/rand"
)

type encoder interface {
	Encode(records []Record) ([]byte, error)
	Suffix() string
}

func exportFile(ctx context.Context, enc encoder, records []Record, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := enc.Encode(records)
	if err != nil {
		return "", err
	}
	fp := getFilename(filename, enc.Suffix())
	if err = atomicWriteFile(fp, b, 0o644); err != nil {
		return "", IOError.Wrap(err)
	}
	return fp, nil
}

func exportTo(ctx context.Context, enc encoder, records []Record, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, err := enc.Encode(records)
	if err != nil {
		return 0, err
	}
	n, err := bytes.NewReader(b).WriteTo(w)
	if err != nil {
		return n, IOError.Wrap(err)
	}
	return n, nil
}

func exportToStorage(ctx context.Context, enc encoder, records []Record, fs excel.FileStorage, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := enc.Encode(records)
	if err != nil {
		return "", err
	}
	fk := filepath.Base(getFilename(filename, enc.Suffix()))
	if err = fs.PutStream(ctx, fk, bytes.NewReader(b)); err != nil {
		return "", IOError.Wrap(err)
	}
	return fs.Url(fk), nil
}

// getFilename 生成导出文件名
func getFilename(filename string, suf string) string {
	tmp := os.TempDir()
	if filename == "" {
		return path.Join(tmp,
			fmt.Sprintf("report_%s_%d.%s",
				time.Now().Format("20060102_150405"),
				randInt(1000, 9999),
				suf))
	}
	if filepath.IsAbs(filename) {
		return fmt.Sprintf("%s.%s", filename, suf)
	}
	return fmt.Sprintf("%s.%s", path.Join(tmp, filename), suf)
}

func randInt(min, max int) int {
	return rand.Intn(max-min) + min
}

// atomicWriteFile writes data next to outfile and renames it into place.
func atomicWriteFile(outfile string, data []byte, perm os.FileMode) (err error) {
	fh, err := os.CreateTemp(filepath.Dir(outfile), filepath.Base(outfile))
	if err != nil {
		return errs.Wrap(err)
	}
	needsClose, needsRemove := true, true

	defer func() {
		if needsClose {
			err = errs.Combine(err, errs.Wrap(fh.Close()))
		}
		if needsRemove {
			err = errs.Combine(err, errs.Wrap(os.Remove(fh.Name())))
		}
	}()

	if _, err := fh.Write(data); err != nil {
		return errs.Wrap(err)
	}
	if err := fh.Chmod(perm); err != nil {
		return errs.Wrap(err)
	}

	needsClose = false
	if err := fh.Close(); err != nil {
		return errs.Wrap(err)
	}

	if err := os.Rename(fh.Name(), outfile); err != nil {
		return errs.Wrap(err)
	}
	needsRemove = false

	return nil
}
