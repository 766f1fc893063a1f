package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
)

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// GetPostgreSQLDB returns a PostgreSQL database connection pool. driver is
// "postgres" (lib/pq, the default) or "pgx".
func GetPostgreSQLDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "":
		driver = DriverPQ
	case DriverPQ, DriverPGX:
	default:
		return nil, fmt.Errorf("unsupported postgresql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgresql: %w", err)
	}
	return db, nil
}
