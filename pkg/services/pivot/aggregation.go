package pivot

import (
	"errors"
	"fmt"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

var ErrInvalidAggregation = errors.New("invalid aggregation")

// AggregationAssigner validates aggregation changes coming from the UI before
// they reach the store. Unknown values are rejected with an error; ids that
// are missing or outside values are silently ignored.
type AggregationAssigner struct {
	store  *ZoneStore
	logger zerolog.Logger
}

func NewAggregationAssigner(store *ZoneStore, logger zerolog.Logger) *AggregationAssigner {
	return &AggregationAssigner{store: store, logger: logger}
}

// ChangeAggregation reports whether the store changed.
func (a *AggregationAssigner) ChangeAggregation(itemID, value string) (bool, error) {
	agg, err := domain.ParseAggregation(value)
	if err != nil {
		a.logger.Warn().
			Str("item", itemID).
			Str("aggregation", value).
			Msg("rejecting aggregation change")
		return false, fmt.Errorf("%w: %v", ErrInvalidAggregation, err)
	}
	return a.store.SetAggregation(itemID, agg), nil
}
