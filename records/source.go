package records

import (
	"context"
	"slices"

	"github.com/opdss/report/contracts/iterator"
	"github.com/opdss/report/excel/report"
	"github.com/zeebo/errs"
)

var ErrSource = errs.Class("records")

// Source 报表数据源, 返回的数据必须是完整的
type Source interface {
	Records(ctx context.Context) ([]report.Record, error)
}

// Static 固定的数据集
type Static []report.Record

func (s Static) Records(ctx context.Context) ([]report.Record, error) {
	return slices.Clone(s), nil
}

// Collect 读取迭代器的全部数据, 超过 max 条返回 report.ErrMaximumLimit
func Collect(it iterator.Iterator[report.Record], max int) ([]report.Record, error) {
	res := make([]report.Record, 0)
	for it.Next() {
		if len(res) >= max {
			return nil, ErrSource.Wrap(report.ErrMaximumLimit)
		}
		res = append(res, it.Value().UTC())
	}
	if err := it.Err(); err != nil {
		return nil, ErrSource.Wrap(err)
	}
	return res, nil
}
