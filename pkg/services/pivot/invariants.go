package pivot

import (
	"fmt"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
)

// CheckInvariants verifies that every id issued at initialization sits in
// exactly one zone, that no foreign ids appeared, and that aggregations are
// set only inside values.
func CheckInvariants(store *ZoneStore) error {
	seen := make(map[string]domain.ZoneID, len(store.ids))
	for _, z := range domain.Zones {
		for _, item := range store.zones[z] {
			if prev, dup := seen[item.ID]; dup {
				return fmt.Errorf("item %s (%s) present in both %s and %s", item.ID, item.Key, prev, z)
			}
			seen[item.ID] = z

			inValues := z == domain.ZoneValues
			if inValues && item.Aggregation == nil {
				return fmt.Errorf("item %s (%s) in values has no aggregation", item.ID, item.Key)
			}
			if !inValues && item.Aggregation != nil {
				return fmt.Errorf("item %s (%s) in %s carries aggregation %s", item.ID, item.Key, z, *item.Aggregation)
			}
		}
	}

	if len(seen) != len(store.ids) {
		return fmt.Errorf("expected %d items across zones, found %d", len(store.ids), len(seen))
	}
	for _, id := range store.ids {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("item %s missing from every zone", id)
		}
	}
	return nil
}
