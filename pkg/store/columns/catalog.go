package columns

import (
	"context"
	"fmt"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/config"
	"github.com/databricks/databricks-sdk-go/service/catalog"
)

type tableGetter interface {
	Get(ctx context.Context, request catalog.GetTableRequest) (*catalog.TableInfo, error)
}

// catalogSource reads table schemas from Unity Catalog instead of querying
// the warehouse, so no compute is started.
type catalogSource struct {
	tables tableGetter
}

func NewCatalogSource(cfg *config.Config) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("workspace config is nil")
	}
	w, err := databricks.NewWorkspaceClient((*databricks.Config)(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}
	return &catalogSource{tables: w.Tables}, nil
}

func (s *catalogSource) Columns(ctx context.Context, table string) ([]string, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	info, err := s.tables.Get(ctx, catalog.GetTableRequest{FullName: table})
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", table, err)
	}

	names := make([]string, 0, len(info.Columns))
	for _, col := range info.Columns {
		names = append(names, col.Name)
	}
	return names, nil
}
