package pivot

import (
	"slices"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ZoneStore owns the five item containers and every mutation on them. Each
// item lives in exactly one zone; operations only move items, they never
// create or drop them. Methods referencing unknown ids are no-ops that
// report false.
type ZoneStore struct {
	logger zerolog.Logger
	nextID IDGenerator
	zones  map[domain.ZoneID][]domain.PivotItem
	ids    []string
}

func NewZoneStore(logger zerolog.Logger) *ZoneStore {
	return &ZoneStore{
		logger: logger,
		nextID: uuidGenerator,
		zones:  emptyZones(),
	}
}

func emptyZones() map[domain.ZoneID][]domain.PivotItem {
	zones := make(map[domain.ZoneID][]domain.PivotItem, len(domain.Zones))
	for _, z := range domain.Zones {
		zones[z] = []domain.PivotItem{}
	}
	return zones
}

// Initialize rebuilds every zone from the source columns. Items named by the
// initial configuration are claimed from a working pool in role order (rows,
// columns, values, filters); whatever is left fills available in source
// order. On error the previous state is kept.
func (s *ZoneStore) Initialize(columns []string, initial domain.InitialConfig) error {
	items, err := newItems(columns, s.nextID)
	if err != nil {
		return err
	}

	pool := make(map[string]int, len(items))
	for i, item := range items {
		pool[item.Key] = i
	}

	zones := emptyZones()
	for _, role := range domain.RoleZones {
		for _, field := range initial.Role(role) {
			idx, ok := pool[field.Key]
			if !ok {
				s.logger.Debug().
					Str("key", field.Key).
					Str("zone", string(role)).
					Msg("initial field is unknown or already placed, skipping")
				continue
			}
			delete(pool, field.Key)

			item := items[idx]
			if field.Label != "" {
				item.Label = field.Label
			}
			if role == domain.ZoneValues {
				agg := domain.DefaultAggregation
				if field.Aggregation != "" {
					parsed, err := domain.ParseAggregation(string(field.Aggregation))
					if err != nil {
						s.logger.Warn().
							Str("key", field.Key).
							Str("aggregation", string(field.Aggregation)).
							Msg("invalid initial aggregation, using default")
					} else {
						agg = parsed
					}
				}
				item.Aggregation = &agg
			}
			zones[role] = append(zones[role], item)
		}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
		if _, free := pool[item.Key]; free {
			zones[domain.ZoneAvailable] = append(zones[domain.ZoneAvailable], item)
		}
	}

	s.zones = zones
	s.ids = ids
	return nil
}

// MoveWithinZone places itemID immediately before beforeID, or at the end of
// the zone when beforeID is empty.
func (s *ZoneStore) MoveWithinZone(zone domain.ZoneID, itemID, beforeID string) bool {
	items := s.zones[zone]
	from := indexOf(items, itemID)
	if from < 0 || itemID == beforeID {
		return false
	}

	to := len(items)
	if beforeID != "" {
		if to = indexOf(items, beforeID); to < 0 {
			return false
		}
	}
	if from == to-1 {
		return false
	}

	item := items[from]
	items = slices.Delete(items, from, from+1)
	if to > from {
		to--
	}
	s.zones[zone] = slices.Insert(items, to, item)
	return true
}

// MoveBetweenZones transfers itemID from one zone to another, inserting it
// before beforeID (or at the end). Entering values assigns the default
// aggregation when the item has none; leaving values clears it.
// A beforeID that is not in the target zone makes the call a no-op.
func (s *ZoneStore) MoveBetweenZones(itemID string, from, to domain.ZoneID, beforeID string) bool {
	if from == to {
		return s.MoveWithinZone(from, itemID, beforeID)
	}
	if !from.IsValid() || !to.IsValid() {
		return false
	}

	source := s.zones[from]
	idx := indexOf(source, itemID)
	if idx < 0 {
		return false
	}

	target := s.zones[to]
	pos := len(target)
	if beforeID != "" {
		if pos = indexOf(target, beforeID); pos < 0 {
			return false
		}
	}

	item := source[idx]
	switch {
	case to == domain.ZoneValues && item.Aggregation == nil:
		agg := domain.DefaultAggregation
		item.Aggregation = &agg
	case from == domain.ZoneValues:
		item.Aggregation = nil
	}

	s.zones[from] = slices.Delete(source, idx, idx+1)
	s.zones[to] = slices.Insert(target, pos, item)
	return true
}

// RemoveFromZone sends an item back to the end of available. Items are never
// discarded.
func (s *ZoneStore) RemoveFromZone(itemID string, zone domain.ZoneID) bool {
	if zone == domain.ZoneAvailable {
		return false
	}
	items := s.zones[zone]
	idx := indexOf(items, itemID)
	if idx < 0 {
		return false
	}

	item := items[idx]
	item.Aggregation = nil
	s.zones[zone] = slices.Delete(items, idx, idx+1)
	s.zones[domain.ZoneAvailable] = append(s.zones[domain.ZoneAvailable], item)
	return true
}

// SetAggregation only applies to items currently in values.
func (s *ZoneStore) SetAggregation(itemID string, agg domain.Aggregation) bool {
	if !agg.IsValid() {
		return false
	}
	values := s.zones[domain.ZoneValues]
	idx := indexOf(values, itemID)
	if idx < 0 {
		return false
	}
	if current := values[idx].Aggregation; current != nil && *current == agg {
		return false
	}
	values[idx].Aggregation = &agg
	return true
}

// Reset returns every role item to available, appended in role order.
func (s *ZoneStore) Reset() bool {
	changed := false
	for _, role := range domain.RoleZones {
		for _, item := range s.zones[role] {
			item.Aggregation = nil
			s.zones[domain.ZoneAvailable] = append(s.zones[domain.ZoneAvailable], item)
			changed = true
		}
		s.zones[role] = []domain.PivotItem{}
	}
	return changed
}

// Locate resolves which zone currently holds itemID.
func (s *ZoneStore) Locate(itemID string) (domain.ZoneID, bool) {
	for _, z := range domain.Zones {
		if indexOf(s.zones[z], itemID) >= 0 {
			return z, true
		}
	}
	return "", false
}

func (s *ZoneStore) Item(itemID string) (domain.PivotItem, domain.ZoneID, bool) {
	for _, z := range domain.Zones {
		if idx := indexOf(s.zones[z], itemID); idx >= 0 {
			return s.zones[z][idx].Clone(), z, true
		}
	}
	return domain.PivotItem{}, "", false
}

// ItemByKey finds an item by its semantic key.
func (s *ZoneStore) ItemByKey(key string) (domain.PivotItem, domain.ZoneID, bool) {
	for _, z := range domain.Zones {
		for _, item := range s.zones[z] {
			if item.Key == key {
				return item.Clone(), z, true
			}
		}
	}
	return domain.PivotItem{}, "", false
}

// Zone returns a copy of the ordered items in zone.
func (s *ZoneStore) Zone(zone domain.ZoneID) []domain.PivotItem {
	items := s.zones[zone]
	out := make([]domain.PivotItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func (s *ZoneStore) Snapshot() map[domain.ZoneID][]domain.PivotItem {
	snapshot := make(map[domain.ZoneID][]domain.PivotItem, len(domain.Zones))
	for _, z := range domain.Zones {
		snapshot[z] = s.Zone(z)
	}
	return snapshot
}

// IDs returns the item ids issued by the last successful Initialize.
func (s *ZoneStore) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *ZoneStore) ItemCount() int {
	n := 0
	for _, z := range domain.Zones {
		n += len(s.zones[z])
	}
	return n
}

func indexOf(items []domain.PivotItem, id string) int {
	return slices.IndexFunc(items, func(item domain.PivotItem) bool {
		return item.ID == id
	})
}
