package adapters

import (
	"github.com/de-tools/pivot-atlas/pkg/models/api"
	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/de-tools/pivot-atlas/pkg/services/pivot"
	"github.com/de-tools/pivot-atlas/pkg/services/session"
)

func MapDomainItemToAPI(item domain.PivotItem) api.PivotItem {
	out := api.PivotItem{ID: item.ID, Key: item.Key, Label: item.Label}
	if item.Aggregation != nil {
		out.Aggregation = string(*item.Aggregation)
	}
	return out
}

func mapFields(fields []domain.PivotField) []api.PivotField {
	out := make([]api.PivotField, 0, len(fields))
	for _, f := range fields {
		out = append(out, api.PivotField{Key: f.Key, Label: f.Label, Aggregation: string(f.Aggregation)})
	}
	return out
}

func MapDomainConfigurationToAPI(config domain.PivotConfiguration) api.PivotConfiguration {
	return api.PivotConfiguration{
		Rows:    mapFields(config.Rows),
		Columns: mapFields(config.Columns),
		Values:  mapFields(config.Values),
		Filters: mapFields(config.Filters),
	}
}

func MapSessionViewToAPI(view session.View) api.Session {
	zones := make(map[string][]api.PivotItem, len(view.Zones))
	for zone, items := range view.Zones {
		mapped := make([]api.PivotItem, 0, len(items))
		for _, item := range items {
			mapped = append(mapped, MapDomainItemToAPI(item))
		}
		zones[string(zone)] = mapped
	}

	out := api.Session{
		ID:        view.ID,
		CreatedAt: view.CreatedAt,
		Revision:  view.Revision,
		Zones:     zones,
		Config:    MapDomainConfigurationToAPI(view.Config),
	}
	if view.Drag != nil {
		out.Drag = mapDragPreview(*view.Drag)
	}
	return out
}

func mapDragPreview(preview pivot.DragPreview) *api.DragPreview {
	return &api.DragPreview{
		Item:   MapDomainItemToAPI(preview.Item),
		Origin: string(preview.Origin),
		Over:   string(preview.Over),
	}
}

func mapInitialFields(fields []api.InitialField) []domain.InitialField {
	out := make([]domain.InitialField, 0, len(fields))
	for _, f := range fields {
		agg, err := domain.ParseAggregation(f.Aggregation)
		if err != nil {
			agg = domain.Aggregation(f.Aggregation)
		}
		out = append(out, domain.InitialField{Key: f.Key, Label: f.Label, Aggregation: agg})
	}
	return out
}

// MapAPIInitialConfigToDomain normalizes aggregation case; unknown values
// pass through and the zone store replaces them with the default.
func MapAPIInitialConfigToDomain(config api.InitialConfig) domain.InitialConfig {
	return domain.InitialConfig{
		Rows:    mapInitialFields(config.Rows),
		Columns: mapInitialFields(config.Columns),
		Values:  mapInitialFields(config.Values),
		Filters: mapInitialFields(config.Filters),
	}
}
