package pivot

import "github.com/de-tools/pivot-atlas/pkg/models/domain"

// Project derives the pivot configuration from the current zones. The result
// shares no memory with the store, so consumers may keep it as-is.
func Project(store *ZoneStore) domain.PivotConfiguration {
	return domain.PivotConfiguration{
		Rows:    projectZone(store, domain.ZoneRows),
		Columns: projectZone(store, domain.ZoneColumns),
		Values:  projectZone(store, domain.ZoneValues),
		Filters: projectZone(store, domain.ZoneFilters),
	}
}

func projectZone(store *ZoneStore, zone domain.ZoneID) []domain.PivotField {
	items := store.zones[zone]
	fields := make([]domain.PivotField, 0, len(items))
	for _, item := range items {
		field := domain.PivotField{Key: item.Key, Label: item.Label}
		if zone == domain.ZoneValues {
			field.Aggregation = domain.DefaultAggregation
			if item.Aggregation != nil {
				field.Aggregation = *item.Aggregation
			}
		}
		fields = append(fields, field)
	}
	return fields
}
