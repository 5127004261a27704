package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/opdss/report/contracts/excel"
	"github.com/opdss/report/excel/report"
	"github.com/opdss/report/process"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

func cmdExport(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	a, err := newApp(ctx, log, &exportCfg.Config)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, a.close()) }()

	start := time.Now()
	list, err := a.source.Records(ctx)
	if err != nil {
		return err
	}

	enc, err := exporter(exportCfg.Out, exportCfg.Report.Options(log))
	if err != nil {
		return err
	}
	path, err := enc.Export(ctx, list)
	if err != nil {
		return err
	}
	log.Info("report took",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("rows", len(list)),
		zap.String("path", path))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

// exporter 按输出文件后缀选择 xlsx 或 csv
func exporter(out string, opts []report.Option) (excel.Exporter[report.Record], error) {
	suffix := report.ExcelSuffix
	if ext := strings.ToLower(filepath.Ext(out)); ext != "" {
		suffix = strings.TrimPrefix(ext, ".")
	}
	if out != "" {
		abs, err := filepath.Abs(strings.TrimSuffix(out, filepath.Ext(out)))
		if err != nil {
			return nil, err
		}
		opts = append(opts, report.WithFilename(abs))
	}
	switch suffix {
	case report.ExcelSuffix:
		return report.NewExcel(opts...), nil
	case report.CsvSuffix:
		return report.NewCsv(opts...), nil
	default:
		return nil, errs.New("unsupported output format %q", suffix)
	}
}
