package pivot

import (
	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// DragPreview describes the item under the pointer while a drag is active.
type DragPreview struct {
	Item   domain.PivotItem
	Origin domain.ZoneID
	Over   domain.ZoneID // empty until a drag-over event lands on something
}

// DragController maps pointer lifecycle events onto ZoneStore mutations.
// Only one drag may be active; a new drag-start cancels the running one.
type DragController struct {
	store  *ZoneStore
	logger zerolog.Logger

	active string
	origin domain.ZoneID
	over   domain.ZoneID
}

func NewDragController(store *ZoneStore, logger zerolog.Logger) *DragController {
	return &DragController{store: store, logger: logger}
}

func (d *DragController) State() DragState {
	if d.active == "" {
		return DragIdle
	}
	return DragDragging
}

func (d *DragController) Active() (DragPreview, bool) {
	if d.active == "" {
		return DragPreview{}, false
	}
	item, _, ok := d.store.Item(d.active)
	if !ok {
		return DragPreview{}, false
	}
	return DragPreview{Item: item, Origin: d.origin, Over: d.over}, true
}

// DragStart records itemID and the zone currently holding it. Unknown ids
// leave the controller idle.
func (d *DragController) DragStart(itemID string) bool {
	if d.active != "" {
		d.logger.Debug().
			Str("item", d.active).
			Str("next", itemID).
			Msg("drag started while another was active, cancelling previous")
		d.reset()
	}

	zone, ok := d.store.Locate(itemID)
	if !ok {
		return false
	}
	d.active = itemID
	d.origin = zone
	return true
}

// DragOver tracks the hovered zone for previews. It never mutates zones.
func (d *DragController) DragOver(overID string) {
	if d.active == "" {
		return
	}
	if zone, _, ok := d.resolveTarget(overID); ok {
		d.over = zone
		return
	}
	d.over = ""
}

func (d *DragController) DragCancel() {
	d.reset()
}

// DragEnd finishes the session and applies the drop. An empty overID is a
// cancellation. overID may name a zone (drop at its end) or an item (drop
// next to it). Returns true when the zones changed.
func (d *DragController) DragEnd(itemID, overID string) bool {
	active := d.active
	d.reset()

	if active == "" || active != itemID {
		return false
	}
	if overID == "" || overID == itemID {
		return false
	}

	target, beforeID, ok := d.resolveTarget(overID)
	if !ok {
		return false
	}
	current, ok := d.store.Locate(itemID)
	if !ok {
		return false
	}

	if target != current {
		return d.store.MoveBetweenZones(itemID, current, target, beforeID)
	}

	// Dropping onto a later sibling lands after it so items can move down.
	if beforeID != "" {
		items := d.store.zones[target]
		from, to := indexOf(items, itemID), indexOf(items, beforeID)
		if to > from {
			beforeID = ""
			if to+1 < len(items) {
				beforeID = items[to+1].ID
			}
		}
	}
	return d.store.MoveWithinZone(target, itemID, beforeID)
}

func (d *DragController) resolveTarget(overID string) (domain.ZoneID, string, bool) {
	if zone := domain.ZoneID(overID); zone.IsValid() {
		return zone, "", true
	}
	zone, ok := d.store.Locate(overID)
	if !ok {
		return "", "", false
	}
	return zone, overID, true
}

func (d *DragController) reset() {
	d.active = ""
	d.origin = ""
	d.over = ""
}
