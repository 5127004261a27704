package report

import "time"

// Record 报表的一行数据
type Record struct {
	Id        string    `json:"id" yaml:"id"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Project   string    `json:"project" yaml:"project"`
	Name      string    `json:"name" yaml:"name"`
	Text      string    `json:"text" yaml:"text"`
}

// UTC returns a copy of r with both dates normalized to UTC.
func (r Record) UTC() Record {
	r.StartDate = r.StartDate.UTC()
	r.EndDate = r.EndDate.UTC()
	return r
}
