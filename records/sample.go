package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/opdss/report/excel/report"
)

// Sample 生成 n 条示例数据, 文本字段都是随机 uuid, 开始和结束时间都是生成时刻
func Sample(n int) Static {
	res := make(Static, n)
	for i := range res {
		now := time.Now().UTC()
		res[i] = report.Record{
			Id:        uuid.NewString(),
			StartDate: now,
			EndDate:   now,
			Project:   uuid.NewString(),
			Name:      uuid.NewString(),
			Text:      uuid.NewString(),
		}
	}
	return res
}
