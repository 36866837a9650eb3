package session

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/de-tools/pivot-atlas/pkg/services/pivot"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemID(t *testing.T, v View, key string) string {
	t.Helper()
	for _, items := range v.Zones {
		for _, item := range items {
			if item.Key == key {
				return item.ID
			}
		}
	}
	t.Fatalf("no item with key %q", key)
	return ""
}

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Options{Strict: true})

	view, err := m.Create(ctx, []string{"region", "amount"}, domain.InitialConfig{
		Rows: []domain.InitialField{{Key: "region"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 1, view.Revision)
	assert.Equal(t, []domain.PivotField{{Key: "region", Label: "region"}}, view.Config.Rows)
	assert.Nil(t, view.Drag)

	amount := itemID(t, view, "amount")
	view, changed, err := m.Apply(ctx, view.ID, pivot.Event{Type: pivot.EventDragStart, Item: amount})
	require.NoError(t, err)
	assert.False(t, changed)
	require.NotNil(t, view.Drag)
	assert.Equal(t, "amount", view.Drag.Item.Key)
	assert.Equal(t, domain.ZoneAvailable, view.Drag.Origin)

	view, changed, err = m.Apply(ctx, view.ID, pivot.Event{Type: pivot.EventDragEnd, Item: amount, Over: "values"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, view.Drag)
	assert.Equal(t, 2, view.Revision)
	assert.Equal(t, []domain.PivotField{{Key: "amount", Label: "amount", Aggregation: domain.AggregationSum}}, view.Config.Values)

	got, err := m.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view, got)

	view, err = m.Initialize(ctx, view.ID, []string{"region", "amount", "month"}, domain.InitialConfig{})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Revision)
	assert.Len(t, view.Zones[domain.ZoneAvailable], 3)

	assert.Len(t, m.List(ctx), 1)
	require.NoError(t, m.Delete(ctx, view.ID))
	assert.Empty(t, m.List(ctx))

	_, err = m.Get(ctx, view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(ctx, view.ID), ErrSessionNotFound)
	_, _, err = m.Apply(ctx, view.ID, pivot.Event{Type: pivot.EventReset})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CreateRejectsDuplicates(t *testing.T) {
	m := NewManager(Options{})

	_, err := m.Create(context.Background(), []string{"a", "a"}, domain.InitialConfig{})
	assert.ErrorIs(t, err, pivot.ErrDuplicateColumn)
	assert.Empty(t, m.List(context.Background()))
}

func TestManager_ApplyError(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Options{})
	view, err := m.Create(ctx, []string{"a"}, domain.InitialConfig{})
	require.NoError(t, err)

	_, _, err = m.Apply(ctx, view.ID, pivot.Event{Type: "bogus"})
	assert.ErrorIs(t, err, pivot.ErrUnknownEvent)
}

func TestManager_ConcurrentEventsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Options{Strict: true})
	columns := []string{"a", "b", "c", "d", "e", "f"}
	view, err := m.Create(ctx, columns, domain.InitialConfig{})
	require.NoError(t, err)

	ids := make([]string, 0, len(columns))
	for _, c := range columns {
		ids = append(ids, itemID(t, view, c))
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := ids[(w+i)%len(ids)]
				zone := domain.Zones[(w*i)%len(domain.Zones)]
				_, _, _ = m.Apply(ctx, view.ID, pivot.Event{Type: pivot.EventMove, Item: id, To: string(zone)})
				_, _, _ = m.Apply(ctx, view.ID, pivot.Event{Type: pivot.EventAggregation, Item: id, Aggregation: "MAX"})
				_, _ = m.Get(ctx, view.ID)
			}
		}(w)
	}
	wg.Wait()

	final, err := m.Get(ctx, view.ID)
	require.NoError(t, err)
	total := 0
	for zone, items := range final.Zones {
		total += len(items)
		for _, item := range items {
			assert.Equal(t, zone == domain.ZoneValues, item.Aggregation != nil)
		}
	}
	assert.Equal(t, len(columns), total)
}

func TestManager_SessionLoggerIsNotRequestScoped(t *testing.T) {
	base := &bytes.Buffer{}
	m := NewManager(Options{Logger: zerolog.New(base)})

	request := &bytes.Buffer{}
	reqCtx := zerolog.New(request).With().Str("path", "/api/v1/sessions").Logger().WithContext(context.Background())

	view, err := m.Create(reqCtx, []string{"a"}, domain.InitialConfig{})
	require.NoError(t, err)
	assert.Contains(t, request.String(), "pivot session created")

	_, _, err = m.Apply(context.Background(), view.ID, pivot.Event{Type: pivot.EventAggregation, Item: "x", Aggregation: "median"})
	require.ErrorIs(t, err, pivot.ErrInvalidAggregation)

	out := base.String()
	assert.Contains(t, out, "rejecting aggregation change")
	assert.Contains(t, out, `"session":"`+view.ID+`"`)
	assert.NotContains(t, out, "/api/v1/sessions")
}
