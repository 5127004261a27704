package records

import (
	"context"
	"os"

	"github.com/opdss/report/excel/report"
	"gopkg.in/yaml.v2"
)

// YamlSource 从 yaml 文件读取数据, 文件内容是记录列表
type YamlSource struct {
	path string
}

func NewYamlSource(path string) *YamlSource {
	return &YamlSource{path: path}
}

func (s *YamlSource) Records(ctx context.Context) ([]report.Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, ErrSource.Wrap(err)
	}
	return ParseYaml(b)
}

func ParseYaml(b []byte) ([]report.Record, error) {
	var list []report.Record
	if err := yaml.UnmarshalStrict(b, &list); err != nil {
		return nil, ErrSource.Wrap(err)
	}
	for i := range list {
		list[i] = list[i].UTC()
	}
	return list, nil
}
