package records

import (
	"context"
	"time"

	"github.com/opdss/report/excel/report"
	"github.com/opdss/report/iterator"
	"gorm.io/gorm"
)

type recordModel struct {
	ID        uint      `gorm:"primaryKey"`
	RecordId  string    `gorm:"column:record_id;size:64;index"`
	StartDate time.Time `gorm:"column:start_date"`
	EndDate   time.Time `gorm:"column:end_date"`
	Project   string    `gorm:"size:255"`
	Name      string    `gorm:"size:255"`
	Text      string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (recordModel) TableName() string {
	return "report_records"
}

func (m *recordModel) toRecord() report.Record {
	return report.Record{
		Id:        m.RecordId,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Project:   m.Project,
		Name:      m.Name,
		Text:      m.Text,
	}.UTC()
}

type GormSourceOption func(s *GormSource)

// WithGormSourceLimit 数据批量查询数量
func WithGormSourceLimit(n int) GormSourceOption {
	return func(s *GormSource) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithGormSourceMaxRows 最大读取数量
func WithGormSourceMaxRows(n int) GormSourceOption {
	return func(s *GormSource) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// WithGormSourceQueryTimeout 单页查询超时
func WithGormSourceQueryTimeout(t time.Duration) GormSourceOption {
	return func(s *GormSource) {
		if t > 0 {
			s.queryTimeout = t
		}
	}
}

// GormSource 按主键顺序分页读取 report_records 表
type GormSource struct {
	db           *gorm.DB
	limit        int
	maxRows      int
	queryTimeout time.Duration
}

func NewGormSource(db *gorm.DB, opts ...GormSourceOption) *GormSource {
	s := &GormSource{
		db:           db,
		limit:        2000,
		maxRows:      report.MaxRows,
		queryTimeout: 30 * time.Second,
	}
	for i := range opts {
		opts[i](s)
	}
	return s
}

func (s *GormSource) Migrate(ctx context.Context) error {
	return ErrSource.Wrap(s.db.WithContext(ctx).AutoMigrate(&recordModel{}))
}

// Seed 写入数据
func (s *GormSource) Seed(ctx context.Context, list []report.Record) error {
	if len(list) == 0 {
		return nil
	}
	rows := make([]recordModel, len(list))
	for i, r := range list {
		r = r.UTC()
		rows[i] = recordModel{
			RecordId:  r.Id,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Project:   r.Project,
			Name:      r.Name,
			Text:      r.Text,
		}
	}
	return ErrSource.Wrap(s.db.WithContext(ctx).CreateInBatches(rows, s.limit).Error)
}

func (s *GormSource) Records(ctx context.Context) ([]report.Record, error) {
	it := iterator.NewPageQueryIterator(ctx, s.page,
		iterator.WithPageQueryIteratorLimit[report.Record](s.limit),
		iterator.WithPageQueryIteratorQueryTimeout[report.Record](s.queryTimeout))
	return Collect(it, s.maxRows)
}

func (s *GormSource) page(ctx context.Context, offset, limit int) ([]report.Record, error) {
	var rows []recordModel
	err := s.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]report.Record, len(rows))
	for i := range rows {
		res[i] = rows[i].toRecord()
	}
	return res, nil
}
