package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	config := domain.PivotConfiguration{
		Rows: []domain.PivotField{
			{Key: "region", Label: "Region"},
			{Key: "country", Label: "country"},
		},
		Values: []domain.PivotField{{Key: "revenue", Label: "revenue", Aggregation: domain.AggregationAvg}},
	}
	available := []domain.PivotItem{{ID: "1", Key: "month", Label: "month"}}

	buf := &bytes.Buffer{}
	require.NoError(t, NewReporter(buf).Handle(domain.NewReport("Pivot configuration", config, available)))
	out := buf.String()

	assert.Contains(t, out, "Pivot configuration")
	assert.Contains(t, out, "| #   | Key")
	assert.Contains(t, out, "| 1   | region")
	assert.Contains(t, out, "| 2   | country")
	assert.Contains(t, out, "| 1   | revenue")
	assert.Contains(t, out, "AVG")
	assert.Contains(t, out, "Unused: month")

	// columns and filters are empty
	assert.Equal(t, 2, strings.Count(out, "(empty)"))

	order := []string{"=== rows ===", "=== columns ===", "=== values ===", "=== filters ==="}
	last := -1
	for _, heading := range order {
		idx := strings.Index(out, heading)
		require.NotEqual(t, -1, idx, heading)
		assert.Greater(t, idx, last, heading)
		last = idx
	}
}

func TestReporter_NothingUnused(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewReporter(buf).Handle(domain.NewReport("Empty", domain.PivotConfiguration{}, nil)))

	assert.Contains(t, buf.String(), "Unused: none")
	assert.Equal(t, 4, strings.Count(buf.String(), "(empty)"))
}
