package columns

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/de-tools/pivot-atlas/pkg/store/duckdb"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/snowflakedb/gosnowflake"
)

// Source lists the column names a report table exposes, in table order.
type Source interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

var SupportedDrivers = []string{"duckdb", "databricks", "snowflake"}

// Plain or dotted identifiers (catalog.schema.table); quoted names are rejected.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

type sqlSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) (Source, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlSource{db: db}, nil
}

// Open connects to one of SupportedDrivers.
func Open(driver, dsn string) (*sql.DB, error) {
	supported := false
	for _, d := range SupportedDrivers {
		if d == driver {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported driver %q. Supported drivers: %v", driver, SupportedDrivers)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// Settings selects a SQL driver. Files is only honoured by duckdb, which
// exposes each file as a view named by its key.
type Settings struct {
	Driver string
	DSN    string
	Files  map[string]string
}

func Connect(settings Settings) (*sql.DB, error) {
	if settings.Driver == "duckdb" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.DSN, Files: settings.Files})
		if err != nil {
			return nil, fmt.Errorf("open duckdb: %w", err)
		}
		return db, nil
	}
	if len(settings.Files) > 0 {
		return nil, fmt.Errorf("file views require the duckdb driver, got %q", settings.Driver)
	}
	return Open(settings.Driver, settings.DSN)
}

func (s *sqlSource) Columns(ctx context.Context, table string) ([]string, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", table))
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	return names, nil
}
