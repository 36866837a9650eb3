package domain

import (
	"fmt"
	"strings"
)

type Aggregation string

const (
	AggregationSum   Aggregation = "SUM"
	AggregationCount Aggregation = "COUNT"
	AggregationAvg   Aggregation = "AVG"
	AggregationMin   Aggregation = "MIN"
	AggregationMax   Aggregation = "MAX"
)

// DefaultAggregation is assigned to items entering the values zone without one.
const DefaultAggregation = AggregationSum

var Aggregations = []Aggregation{
	AggregationSum,
	AggregationCount,
	AggregationAvg,
	AggregationMin,
	AggregationMax,
}

func (a Aggregation) IsValid() bool {
	for _, known := range Aggregations {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAggregation accepts any letter case ("avg", "Avg") and trims spaces.
func ParseAggregation(value string) (Aggregation, error) {
	agg := Aggregation(strings.ToUpper(strings.TrimSpace(value)))
	if !agg.IsValid() {
		return "", fmt.Errorf("unknown aggregation %q", value)
	}
	return agg, nil
}

type ZoneID string

const (
	ZoneAvailable ZoneID = "available"
	ZoneFilters   ZoneID = "filters"
	ZoneRows      ZoneID = "rows"
	ZoneColumns   ZoneID = "columns"
	ZoneValues    ZoneID = "values"
)

// Zones lists every container in display order.
var Zones = []ZoneID{ZoneAvailable, ZoneFilters, ZoneRows, ZoneColumns, ZoneValues}

// RoleZones lists the zones exposed in a PivotConfiguration, in the order
// they claim items during initialization.
var RoleZones = []ZoneID{ZoneRows, ZoneColumns, ZoneValues, ZoneFilters}

func (z ZoneID) IsValid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

// PivotItem is a single draggable source column. ID is an opaque handle that
// only lives as long as the registry that issued it; Key is the semantic
// identity used to match initial configurations.
type PivotItem struct {
	ID          string
	Key         string
	Label       string
	Aggregation *Aggregation
}

func (i PivotItem) Clone() PivotItem {
	if i.Aggregation != nil {
		agg := *i.Aggregation
		i.Aggregation = &agg
	}
	return i
}

type PivotField struct {
	Key         string
	Label       string
	Aggregation Aggregation // only set for values
}

// PivotConfiguration is the role-keyed projection consumed by reporting
// components. The available zone is never part of it.
type PivotConfiguration struct {
	Rows    []PivotField
	Columns []PivotField
	Values  []PivotField
	Filters []PivotField
}

func (c PivotConfiguration) Role(zone ZoneID) []PivotField {
	switch zone {
	case ZoneRows:
		return c.Rows
	case ZoneColumns:
		return c.Columns
	case ZoneValues:
		return c.Values
	case ZoneFilters:
		return c.Filters
	}
	return nil
}

type InitialField struct {
	Key         string
	Label       string // optional display override
	Aggregation Aggregation
}

// InitialConfig seeds zone membership on initialization. Fields are matched
// to source columns by Key.
type InitialConfig struct {
	Rows    []InitialField
	Columns []InitialField
	Values  []InitialField
	Filters []InitialField
}

func (c InitialConfig) Role(zone ZoneID) []InitialField {
	switch zone {
	case ZoneRows:
		return c.Rows
	case ZoneColumns:
		return c.Columns
	case ZoneValues:
		return c.Values
	case ZoneFilters:
		return c.Filters
	}
	return nil
}
