package pivot

import (
	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ChangeFunc receives the pivot configuration after every mutation.
type ChangeFunc func(domain.PivotConfiguration)

type Options struct {
	Logger   zerolog.Logger
	OnChange ChangeFunc
	// Strict panics on invariant violations instead of logging them.
	Strict bool
}

// Builder ties the zone store, drag controller and aggregation assigner
// together and projects the configuration after each state change. It is
// not safe for concurrent use; callers serialize events.
type Builder struct {
	logger     zerolog.Logger
	onChange   ChangeFunc
	strict     bool
	store      *ZoneStore
	drag       *DragController
	aggregator *AggregationAssigner
	config     domain.PivotConfiguration
}

func NewBuilder(opts Options) *Builder {
	logger := opts.Logger.With().Str("component", "pivot").Logger()
	store := NewZoneStore(logger)

	return &Builder{
		logger:     logger,
		onChange:   opts.OnChange,
		strict:     opts.Strict,
		store:      store,
		drag:       NewDragController(store, logger),
		aggregator: NewAggregationAssigner(store, logger),
		config:     Project(store),
	}
}

// Initialize rebuilds all zones and always emits, even when nothing moved.
func (b *Builder) Initialize(columns []string, initial domain.InitialConfig) error {
	if err := b.store.Initialize(columns, initial); err != nil {
		b.logger.Warn().Err(err).Msg("failed to initialize pivot zones")
		return err
	}
	b.drag.reset()
	b.logger.Debug().Int("items", b.store.ItemCount()).Msg("pivot zones initialized")
	b.commit(true)
	return nil
}

func (b *Builder) DragStart(itemID string) bool {
	return b.drag.DragStart(itemID)
}

func (b *Builder) DragOver(overID string) {
	b.drag.DragOver(overID)
}

func (b *Builder) DragCancel() {
	b.drag.DragCancel()
}

func (b *Builder) DragEnd(itemID, overID string) bool {
	return b.commit(b.drag.DragEnd(itemID, overID))
}

func (b *Builder) MoveWithinZone(zone domain.ZoneID, itemID, beforeID string) bool {
	return b.commit(b.store.MoveWithinZone(zone, itemID, beforeID))
}

func (b *Builder) MoveBetweenZones(itemID string, from, to domain.ZoneID, beforeID string) bool {
	return b.commit(b.store.MoveBetweenZones(itemID, from, to, beforeID))
}

func (b *Builder) RemoveItem(itemID string, zone domain.ZoneID) bool {
	return b.commit(b.store.RemoveFromZone(itemID, zone))
}

func (b *Builder) ChangeAggregation(itemID, value string) (bool, error) {
	changed, err := b.aggregator.ChangeAggregation(itemID, value)
	if err != nil {
		return false, err
	}
	return b.commit(changed), nil
}

func (b *Builder) Reset() bool {
	b.drag.reset()
	return b.commit(b.store.Reset())
}

// Configuration returns the most recent projection.
func (b *Builder) Configuration() domain.PivotConfiguration {
	return b.config
}

func (b *Builder) Zones() map[domain.ZoneID][]domain.PivotItem {
	return b.store.Snapshot()
}

func (b *Builder) Zone(zone domain.ZoneID) []domain.PivotItem {
	return b.store.Zone(zone)
}

func (b *Builder) Item(itemID string) (domain.PivotItem, domain.ZoneID, bool) {
	return b.store.Item(itemID)
}

func (b *Builder) ItemByKey(key string) (domain.PivotItem, domain.ZoneID, bool) {
	return b.store.ItemByKey(key)
}

func (b *Builder) Drag() (DragPreview, bool) {
	return b.drag.Active()
}

func (b *Builder) commit(changed bool) bool {
	if !changed {
		return false
	}

	if err := CheckInvariants(b.store); err != nil {
		if b.strict {
			panic(err)
		}
		b.logger.Error().Err(err).Msg("pivot invariant violated")
	}

	b.config = Project(b.store)
	if b.onChange != nil {
		b.onChange(b.config)
	}
	return true
}
