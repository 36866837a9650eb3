package pivot

import (
	"errors"
	"fmt"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

var (
	ErrDuplicateColumn = errors.New("duplicate source column")
	ErrEmptyColumn     = errors.New("empty source column name")
)

// IDGenerator issues opaque item handles.
type IDGenerator func() string

func uuidGenerator() string {
	return uuid.NewString()
}

// NewItems builds one pivot item per source column. Duplicate names are
// rejected so a key never maps to two authoritative items.
func NewItems(columns []string) ([]domain.PivotItem, error) {
	return newItems(columns, uuidGenerator)
}

func newItems(columns []string, nextID IDGenerator) ([]domain.PivotItem, error) {
	seen := make(map[string]struct{}, len(columns))
	items := make([]domain.PivotItem, 0, len(columns))

	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumn)
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = struct{}{}

		items = append(items, domain.PivotItem{
			ID:    nextID(),
			Key:   name,
			Label: name,
		})
	}
	return items, nil
}
