package pivot

import (
	"testing"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDrag(t *testing.T, columns []string, initial domain.InitialConfig) (*DragController, *ZoneStore) {
	t.Helper()
	store := newTestStore(t, columns, initial)
	return NewDragController(store, zerolog.Nop()), store
}

func TestDragController_StartResolvesOrigin(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A", "B"}, domain.InitialConfig{
		Rows: []domain.InitialField{{Key: "B"}},
	})

	require.True(t, drag.DragStart(idByKey(t, store, "B")))
	assert.Equal(t, DragDragging, drag.State())

	preview, ok := drag.Active()
	require.True(t, ok)
	assert.Equal(t, "B", preview.Item.Key)
	assert.Equal(t, domain.ZoneRows, preview.Origin)
	assert.Empty(t, preview.Over)
}

func TestDragController_StartUnknownStaysIdle(t *testing.T) {
	drag, _ := newTestDrag(t, []string{"A"}, domain.InitialConfig{})

	assert.False(t, drag.DragStart("ghost"))
	assert.Equal(t, DragIdle, drag.State())
	_, ok := drag.Active()
	assert.False(t, ok)
}

func TestDragController_StartWhileDraggingCancelsPrevious(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A", "B"}, domain.InitialConfig{})
	a, b := idByKey(t, store, "A"), idByKey(t, store, "B")

	require.True(t, drag.DragStart(a))
	require.True(t, drag.DragStart(b))

	assert.False(t, drag.DragEnd(a, string(domain.ZoneRows)), "first session was cancelled")
	assert.Equal(t, DragIdle, drag.State())
	assert.Empty(t, store.Zone(domain.ZoneRows))
}

func TestDragController_DragOverTracksZone(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A", "B"}, domain.InitialConfig{
		Columns: []domain.InitialField{{Key: "B"}},
	})
	a := idByKey(t, store, "A")

	drag.DragOver(string(domain.ZoneRows))
	_, ok := drag.Active()
	assert.False(t, ok, "drag-over while idle is ignored")

	require.True(t, drag.DragStart(a))
	drag.DragOver(idByKey(t, store, "B"))
	preview, _ := drag.Active()
	assert.Equal(t, domain.ZoneColumns, preview.Over)

	drag.DragOver(string(domain.ZoneValues))
	preview, _ = drag.Active()
	assert.Equal(t, domain.ZoneValues, preview.Over)

	drag.DragOver("nowhere")
	preview, _ = drag.Active()
	assert.Empty(t, preview.Over)

	assert.Equal(t, []string{"A"}, keysOf(store.Zone(domain.ZoneAvailable)), "drag-over never mutates")
}

func TestDragController_DragEnd(t *testing.T) {
	tests := []struct {
		name      string
		drag      string
		over      string // zone id, item key, or raw id when prefixed with '!'
		changed   bool
		available []string
		rows      []string
		values    []string
	}{
		{
			name: "no target cancels", drag: "A", over: "",
			changed: false, available: []string{"A", "B"}, rows: []string{"C", "D"}, values: []string{},
		},
		{
			name: "drop on empty zone", drag: "A", over: "values",
			changed: true, available: []string{"B"}, rows: []string{"C", "D"}, values: []string{"A"},
		},
		{
			name: "drop on zone appends", drag: "B", over: "rows",
			changed: true, available: []string{"A"}, rows: []string{"C", "D", "B"}, values: []string{},
		},
		{
			name: "drop on item inserts before it", drag: "A", over: "D",
			changed: true, available: []string{"B"}, rows: []string{"C", "A", "D"}, values: []string{},
		},
		{
			name: "reorder down lands after target", drag: "C", over: "D",
			changed: true, available: []string{"A", "B"}, rows: []string{"D", "C"}, values: []string{},
		},
		{
			name: "reorder up lands before target", drag: "D", over: "C",
			changed: true, available: []string{"A", "B"}, rows: []string{"D", "C"}, values: []string{},
		},
		{
			name: "drop on itself", drag: "C", over: "C",
			changed: false, available: []string{"A", "B"}, rows: []string{"C", "D"}, values: []string{},
		},
		{
			name: "drop on own zone end", drag: "D", over: "rows",
			changed: false, available: []string{"A", "B"}, rows: []string{"C", "D"}, values: []string{},
		},
		{
			name: "unknown target", drag: "A", over: "!ghost",
			changed: false, available: []string{"A", "B"}, rows: []string{"C", "D"}, values: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drag, store := newTestDrag(t, []string{"A", "B", "C", "D"}, domain.InitialConfig{
				Rows: []domain.InitialField{{Key: "C"}, {Key: "D"}},
			})
			itemID := idByKey(t, store, tt.drag)

			over := tt.over
			switch {
			case over == "":
			case over[0] == '!':
				over = over[1:]
			case domain.ZoneID(over).IsValid():
			default:
				over = idByKey(t, store, over)
			}

			require.True(t, drag.DragStart(itemID))
			assert.Equal(t, tt.changed, drag.DragEnd(itemID, over))
			assert.Equal(t, DragIdle, drag.State())

			assert.Equal(t, tt.available, keysOf(store.Zone(domain.ZoneAvailable)))
			assert.Equal(t, tt.rows, keysOf(store.Zone(domain.ZoneRows)))
			assert.Equal(t, tt.values, keysOf(store.Zone(domain.ZoneValues)))
			assert.NoError(t, CheckInvariants(store))
		})
	}
}

func TestDragController_DragEndRequiresMatchingSession(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A", "B"}, domain.InitialConfig{})
	a, b := idByKey(t, store, "A"), idByKey(t, store, "B")

	assert.False(t, drag.DragEnd(a, string(domain.ZoneRows)), "no active drag")

	require.True(t, drag.DragStart(a))
	assert.False(t, drag.DragEnd(b, string(domain.ZoneRows)), "stale end for another item")
	assert.Equal(t, DragIdle, drag.State())
	assert.Empty(t, store.Zone(domain.ZoneRows))
}

func TestDragController_DragEndUsesCurrentZone(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A"}, domain.InitialConfig{
		Values: []domain.InitialField{{Key: "A", Aggregation: domain.AggregationMax}},
	})
	a := idByKey(t, store, "A")

	require.True(t, drag.DragStart(a))
	require.True(t, store.RemoveFromZone(a, domain.ZoneValues))

	require.True(t, drag.DragEnd(a, string(domain.ZoneColumns)))
	assert.Equal(t, []string{"A"}, keysOf(store.Zone(domain.ZoneColumns)))
	assert.NoError(t, CheckInvariants(store))
}

func TestDragController_Cancel(t *testing.T) {
	drag, store := newTestDrag(t, []string{"A"}, domain.InitialConfig{})
	a := idByKey(t, store, "A")

	require.True(t, drag.DragStart(a))
	drag.DragCancel()
	assert.Equal(t, DragIdle, drag.State())
	assert.False(t, drag.DragEnd(a, string(domain.ZoneRows)))
}
