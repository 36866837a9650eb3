package pivot

import (
	"errors"
	"fmt"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
)

var ErrUnknownEvent = errors.New("unknown event type")

type EventType string

const (
	EventDragStart   EventType = "drag_start"
	EventDragOver    EventType = "drag_over"
	EventDragEnd     EventType = "drag_end"
	EventDragCancel  EventType = "drag_cancel"
	EventMove        EventType = "move"
	EventRemove      EventType = "remove"
	EventAggregation EventType = "aggregation"
	EventReset       EventType = "reset"
)

// Event is one user interaction delivered by a presentation layer. Fields
// not used by a given Type are ignored.
type Event struct {
	Type        EventType `mapstructure:"type"`
	Item        string    `mapstructure:"item"`
	Over        string    `mapstructure:"over"`
	Zone        string    `mapstructure:"zone"`
	From        string    `mapstructure:"from"`
	To          string    `mapstructure:"to"`
	Before      string    `mapstructure:"before"`
	Aggregation string    `mapstructure:"aggregation"`
}

// Apply dispatches ev and reports whether the zones changed. Only unknown
// event types and invalid aggregations produce errors.
func (b *Builder) Apply(ev Event) (bool, error) {
	switch ev.Type {
	case EventDragStart:
		b.DragStart(ev.Item)
		return false, nil
	case EventDragOver:
		b.DragOver(ev.Over)
		return false, nil
	case EventDragEnd:
		return b.DragEnd(ev.Item, ev.Over), nil
	case EventDragCancel:
		b.DragCancel()
		return false, nil
	case EventMove:
		from := domain.ZoneID(ev.From)
		if from == "" {
			var ok bool
			if from, ok = b.store.Locate(ev.Item); !ok {
				return false, nil
			}
		}
		return b.MoveBetweenZones(ev.Item, from, domain.ZoneID(ev.To), ev.Before), nil
	case EventRemove:
		return b.RemoveItem(ev.Item, domain.ZoneID(ev.Zone)), nil
	case EventAggregation:
		return b.ChangeAggregation(ev.Item, ev.Aggregation)
	case EventReset:
		return b.Reset(), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}
