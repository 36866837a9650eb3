package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
)

type TableConfig struct {
	PositionWidth    int
	KeyWidth         int
	LabelWidth       int
	AggregationWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PositionWidth:    3,
		KeyWidth:         30,
		LabelWidth:       30,
		AggregationWidth: 11,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
{{.Title}}
{{range .Sections}}
=== {{.Title}} ===
{{if .Details}}{{separator}}
{{formatRow "#" "Key" "Label" "Aggregation"}}
{{separator}}
{{range .Details}}{{formatRow .Position .Key .Label .Aggregation}}
{{end}}{{separator}}
{{else}}(empty)
{{end}}{{end}}
Unused: {{if .Unused}}{{join .Unused ", "}}{{else}}none{{end}}
`

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(pos interface{}, key, label, agg string) string {
			return fmt.Sprintf("| %-*v | %-*s | %-*s | %-*s |",
				c.config.PositionWidth, pos,
				c.config.KeyWidth, key,
				c.config.LabelWidth, label,
				c.config.AggregationWidth, agg)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.PositionWidth+2),
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.AggregationWidth+2))
		},
		"join": strings.Join,
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
