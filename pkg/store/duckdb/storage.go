package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"

	"github.com/marcboeker/go-duckdb/v2"
)

type Settings struct {
	// DbPath is the database file; empty opens an in-memory database.
	DbPath string
	// Files maps a view name to a CSV, Parquet or JSON file. Each file is
	// exposed as a view so its columns can be discovered like a table's.
	Files map[string]string
}

func NewDB(settings Settings) (*sql.DB, error) {
	bootQueries, err := viewQueries(settings.Files)
	if err != nil {
		return nil, err
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

func viewQueries(files map[string]string) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	queries := make([]string, 0, len(names))
	for _, name := range names {
		path := files[name]
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid file view %q=%q", name, path)
		}
		queries = append(queries, fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS SELECT * FROM %s",
			quoteIdent(name), quoteLiteral(path),
		))
	}
	return queries, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
