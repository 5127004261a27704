package report

// CellKind 单元格类型
type CellKind uint8

const (
	TextCell CellKind = iota
	DateTimeCell
)

func (k CellKind) String() string {
	switch k {
	case TextCell:
		return "text"
	case DateTimeCell:
		return "date-time"
	default:
		return "unknown"
	}
}

// Column 表头
type Column struct {
	Index int      //列索引,从0开始
	Title string   //列名
	Kind  CellKind //单元格类型
	value func(r *Record) any
}

type columns []Column

// schema is the fixed column layout: header and body share the same index for every column.
var schema = columns{
	{Index: 0, Title: "Id", Kind: TextCell, value: func(r *Record) any { return r.Id }},
	{Index: 1, Title: "StartDate", Kind: DateTimeCell, value: func(r *Record) any { return r.StartDate }},
	{Index: 2, Title: "EndDate", Kind: DateTimeCell, value: func(r *Record) any { return r.EndDate }},
	{Index: 3, Title: "Project", Kind: TextCell, value: func(r *Record) any { return r.Project }},
	{Index: 4, Title: "Name", Kind: TextCell, value: func(r *Record) any { return r.Name }},
	{Index: 5, Title: "Text", Kind: TextCell, value: func(r *Record) any { return r.Text }},
}

// Schema 导出列配置
func Schema() []Column {
	res := make([]Column, len(schema))
	copy(res, schema)
	return res
}

func (c columns) titles() []string {
	res := make([]string, len(c))
	for i := range c {
		res[i] = c[i].Title
	}
	return res
}
