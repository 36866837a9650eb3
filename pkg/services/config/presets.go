package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

var ErrPresetNotFound = errors.New("preset not found")

// PresetRegistry serves named initial pivot configurations. Each INI section
// is one preset:
//
//	[sales]
//	rows    = region, country
//	columns = month
//	values  = revenue:SUM, quantity:COUNT
//	filters = category
type PresetRegistry interface {
	GetPresets(ctx context.Context) ([]string, error)
	GetPreset(ctx context.Context, name string) (domain.InitialConfig, error)
}

type iniPresetRegistry struct {
	cfg *ini.File
}

func NewPresetRegistry(path string) (PresetRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets from %s: %w", path, err)
	}
	return &iniPresetRegistry{cfg: cfg}, nil
}

// NewPresetRegistryFromBytes is used for presets embedded in requests or tests.
func NewPresetRegistryFromBytes(data []byte) (PresetRegistry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return &iniPresetRegistry{cfg: cfg}, nil
}

func (r *iniPresetRegistry) GetPresets(_ context.Context) ([]string, error) {
	var presets []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			presets = append(presets, section.Name())
		}
	}
	return presets, nil
}

func (r *iniPresetRegistry) GetPreset(_ context.Context, name string) (domain.InitialConfig, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.InitialConfig{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	values, err := parseValueFields(section.Key("values").Strings(","))
	if err != nil {
		return domain.InitialConfig{}, fmt.Errorf("preset %s: %w", name, err)
	}

	return domain.InitialConfig{
		Rows:    parseFields(section.Key("rows").Strings(",")),
		Columns: parseFields(section.Key("columns").Strings(",")),
		Values:  values,
		Filters: parseFields(section.Key("filters").Strings(",")),
	}, nil
}

func parseFields(keys []string) []domain.InitialField {
	fields := make([]domain.InitialField, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		fields = append(fields, domain.InitialField{Key: key})
	}
	return fields
}

// parseValueFields reads "key" or "key:AGG" entries.
func parseValueFields(entries []string) ([]domain.InitialField, error) {
	fields := make([]domain.InitialField, 0, len(entries))
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		key, aggName, hasAgg := strings.Cut(entry, ":")
		field := domain.InitialField{Key: strings.TrimSpace(key)}
		if hasAgg {
			agg, err := domain.ParseAggregation(aggName)
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", field.Key, err)
			}
			field.Aggregation = agg
		}
		fields = append(fields, field)
	}
	return fields, nil
}
