package pivot

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	configs []domain.PivotConfiguration
}

func (r *recorder) onChange(config domain.PivotConfiguration) {
	r.configs = append(r.configs, config)
}

func (r *recorder) last(t *testing.T) domain.PivotConfiguration {
	t.Helper()
	require.NotEmpty(t, r.configs)
	return r.configs[len(r.configs)-1]
}

func newTestBuilder(t *testing.T, strict bool) (*Builder, *recorder) {
	t.Helper()
	rec := &recorder{}
	b := NewBuilder(Options{Logger: zerolog.Nop(), OnChange: rec.onChange, Strict: strict})
	b.store.nextID = sequentialIDs()
	return b, rec
}

func builderID(t *testing.T, b *Builder, key string) string {
	t.Helper()
	item, _, ok := b.ItemByKey(key)
	require.True(t, ok, "no item with key %q", key)
	return item.ID
}

func TestBuilder_Scenarios(t *testing.T) {
	b, rec := newTestBuilder(t, true)

	// A: fresh initialization.
	require.NoError(t, b.Initialize([]string{"A", "B", "C"}, domain.InitialConfig{}))
	require.Len(t, rec.configs, 1)
	assert.Equal(t, domain.PivotConfiguration{
		Rows:    []domain.PivotField{},
		Columns: []domain.PivotField{},
		Values:  []domain.PivotField{},
		Filters: []domain.PivotField{},
	}, rec.last(t))
	assert.Equal(t, []string{"A", "B", "C"}, keysOf(b.Zone(domain.ZoneAvailable)))

	// B: drag B into values.
	id := builderID(t, b, "B")
	require.True(t, b.DragStart(id))
	require.True(t, b.DragEnd(id, string(domain.ZoneValues)))
	assert.Equal(t, []string{"A", "C"}, keysOf(b.Zone(domain.ZoneAvailable)))
	assert.Equal(t, []domain.PivotField{{Key: "B", Label: "B", Aggregation: domain.AggregationSum}}, rec.last(t).Values)

	// C: change aggregation.
	changed, err := b.ChangeAggregation(id, "AVG")
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, []domain.PivotField{{Key: "B", Label: "B", Aggregation: domain.AggregationAvg}}, rec.last(t).Values)

	// D: remove back to available.
	require.True(t, b.RemoveItem(id, domain.ZoneValues))
	assert.Equal(t, []string{"A", "C", "B"}, keysOf(b.Zone(domain.ZoneAvailable)))
	item, zone, ok := b.Item(id)
	require.True(t, ok)
	assert.Equal(t, domain.ZoneAvailable, zone)
	assert.Nil(t, item.Aggregation)
	assert.Empty(t, rec.last(t).Values)

	assert.Len(t, rec.configs, 4)
	assert.Equal(t, rec.last(t), b.Configuration())
}

func TestBuilder_ScenarioInitialConfig(t *testing.T) {
	b, rec := newTestBuilder(t, true)

	require.NoError(t, b.Initialize([]string{"A", "B"}, domain.InitialConfig{
		Rows:   []domain.InitialField{{Key: "A"}},
		Values: []domain.InitialField{{Key: "B", Aggregation: domain.AggregationCount}},
	}))

	assert.Equal(t, []string{"A"}, keysOf(b.Zone(domain.ZoneRows)))
	assert.Equal(t, []string{"B"}, keysOf(b.Zone(domain.ZoneValues)))
	assert.Empty(t, b.Zone(domain.ZoneAvailable))
	assert.Equal(t, []domain.PivotField{{Key: "B", Label: "B", Aggregation: domain.AggregationCount}}, rec.last(t).Values)
}

func TestBuilder_NoEmissionOnNoOp(t *testing.T) {
	b, rec := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A", "B"}, domain.InitialConfig{}))
	a := builderID(t, b, "A")

	assert.False(t, b.MoveWithinZone(domain.ZoneAvailable, a, builderID(t, b, "B")))
	assert.False(t, b.RemoveItem("ghost", domain.ZoneRows))
	assert.False(t, b.DragEnd(a, string(domain.ZoneRows)))
	changed, err := b.ChangeAggregation(a, "MAX")
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, b.Reset())

	assert.Len(t, rec.configs, 1, "only the initialization emitted")
}

func TestBuilder_InitializeAlwaysEmits(t *testing.T) {
	b, rec := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A"}, domain.InitialConfig{}))
	require.NoError(t, b.Initialize([]string{"A"}, domain.InitialConfig{}))
	assert.Len(t, rec.configs, 2)
}

func TestBuilder_InitializeRejectsDuplicates(t *testing.T) {
	b, rec := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A"}, domain.InitialConfig{}))

	err := b.Initialize([]string{"A", "A"}, domain.InitialConfig{})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
	assert.Len(t, rec.configs, 1)
	assert.Equal(t, []string{"A"}, keysOf(b.Zone(domain.ZoneAvailable)))
}

func TestBuilder_InitializeCancelsDrag(t *testing.T) {
	b, _ := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A"}, domain.InitialConfig{}))
	require.True(t, b.DragStart(builderID(t, b, "A")))

	require.NoError(t, b.Initialize([]string{"A", "B"}, domain.InitialConfig{}))
	_, dragging := b.Drag()
	assert.False(t, dragging)
}

func TestBuilder_ChangeAggregationRejectsUnknown(t *testing.T) {
	b, rec := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A"}, domain.InitialConfig{
		Values: []domain.InitialField{{Key: "A"}},
	}))
	a := builderID(t, b, "A")

	changed, err := b.ChangeAggregation(a, "MEDIAN")
	assert.ErrorIs(t, err, ErrInvalidAggregation)
	assert.False(t, changed)
	assert.Equal(t, domain.AggregationSum, rec.last(t).Values[0].Aggregation)

	changed, err = b.ChangeAggregation(a, "min")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.AggregationMin, rec.last(t).Values[0].Aggregation)
}

func TestBuilder_StrictPanicsOnCorruption(t *testing.T) {
	b, _ := newTestBuilder(t, true)
	require.NoError(t, b.Initialize([]string{"A", "B"}, domain.InitialConfig{}))

	// Duplicate A into rows behind the store's back.
	b.store.zones[domain.ZoneRows] = append(b.store.zones[domain.ZoneRows], b.store.zones[domain.ZoneAvailable][0])

	assert.Panics(t, func() {
		b.MoveBetweenZones(builderID(t, b, "B"), domain.ZoneAvailable, domain.ZoneColumns, "")
	})
}

func TestBuilder_LenientLogsCorruption(t *testing.T) {
	b, rec := newTestBuilder(t, false)
	require.NoError(t, b.Initialize([]string{"A", "B"}, domain.InitialConfig{}))
	b.store.zones[domain.ZoneAvailable] = b.store.zones[domain.ZoneAvailable][:1]

	a := builderID(t, b, "A")

	assert.NotPanics(t, func() {
		assert.True(t, b.MoveBetweenZones(a, domain.ZoneAvailable, domain.ZoneRows, ""))
	})
	assert.Error(t, CheckInvariants(b.store))
	assert.Len(t, rec.configs, 2)
	assert.Equal(t, []domain.PivotField{{Key: "A", Label: "A"}}, rec.last(t).Rows)
}

// Random operation sequences must conserve items and keep aggregations
// confined to values.
func TestBuilder_RandomOperationsPreserveInvariants(t *testing.T) {
	columns := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		b, rec := newTestBuilder(t, true)
		require.NoError(t, b.Initialize(columns, domain.InitialConfig{
			Rows:   []domain.InitialField{{Key: "c1"}},
			Values: []domain.InitialField{{Key: "c2", Aggregation: domain.AggregationMax}},
		}))
		initialIDs := b.store.IDs()

		targets := func() []string {
			out := []string{""}
			for _, z := range domain.Zones {
				out = append(out, string(z))
			}
			return append(out, initialIDs...)
		}()

		for step := 0; step < 200; step++ {
			item := initialIDs[rng.Intn(len(initialIDs))]
			zone := domain.Zones[rng.Intn(len(domain.Zones))]
			target := targets[rng.Intn(len(targets))]

			switch rng.Intn(6) {
			case 0:
				b.DragStart(item)
				b.DragEnd(item, target)
			case 1:
				b.MoveWithinZone(zone, item, target)
			case 2:
				b.MoveBetweenZones(item, domain.Zones[rng.Intn(len(domain.Zones))], zone, target)
			case 3:
				b.RemoveItem(item, zone)
			case 4:
				_, _ = b.ChangeAggregation(item, string(domain.Aggregations[rng.Intn(len(domain.Aggregations))]))
			case 5:
				b.DragStart(item)
				b.DragOver(target)
			}

			require.NoError(t, CheckInvariants(b.store))

			var ids []string
			for z, items := range b.Zones() {
				for _, it := range items {
					ids = append(ids, it.ID)
					assert.Equal(t, z == domain.ZoneValues, it.Aggregation != nil)
				}
			}
			sort.Strings(ids)
			expected := append([]string(nil), initialIDs...)
			sort.Strings(expected)
			require.Equal(t, expected, ids)
			require.Equal(t, Project(b.store), b.Configuration())
		}
		if len(rec.configs) > 0 {
			assert.Equal(t, rec.last(t), b.Configuration())
		}
	}
}
