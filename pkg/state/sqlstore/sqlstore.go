package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	intMariaDB "github.com/retail-ai-inc/storagebridge/internal/db/mariadb"
	intMySQL "github.com/retail-ai-inc/storagebridge/internal/db/mysql"
	intPostgres "github.com/retail-ai-inc/storagebridge/internal/db/postgresql"
	"github.com/retail-ai-inc/storagebridge/pkg/config"
)

const DefaultTable = "storage_documents"

type Dialect int

const (
	MySQL Dialect = iota
	PostgreSQL
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

type queries struct {
	create string
	get    string
	set    string
}

func buildQueries(d Dialect, table string) (queries, error) {
	if !tableNameRe.MatchString(table) {
		return queries{}, fmt.Errorf("invalid table name %q", table)
	}
	switch d {
	case MySQL:
		return queries{
			create: fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
				"storage_key VARCHAR(191) NOT NULL PRIMARY KEY, "+
				"value LONGTEXT NOT NULL"+
				") DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin", table),
			get: fmt.Sprintf("SELECT value FROM `%s` WHERE storage_key = ?", table),
			set: fmt.Sprintf("INSERT INTO `%s` (storage_key, value) VALUES (?, ?) "+
				"ON DUPLICATE KEY UPDATE value = VALUES(value)", table),
		}, nil
	case PostgreSQL:
		return queries{
			create: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (`+
				`storage_key TEXT NOT NULL PRIMARY KEY, `+
				`value TEXT NOT NULL)`, table),
			get: fmt.Sprintf(`SELECT value FROM "%s" WHERE storage_key = $1`, table),
			set: fmt.Sprintf(`INSERT INTO "%s" (storage_key, value) VALUES ($1, $2) `+
				`ON CONFLICT (storage_key) DO UPDATE SET value = EXCLUDED.value`, table),
		}, nil
	default:
		return queries{}, fmt.Errorf("unknown sql dialect %d", d)
	}
}

// SQLStore keeps each key as one row of a two-column table.
type SQLStore struct {
	db *sql.DB
	q  queries
}

// NewSQLStore creates the table if needed. The store takes ownership of db.
func NewSQLStore(ctx context.Context, db *sql.DB, d Dialect, table string) (*SQLStore, error) {
	if table == "" {
		table = DefaultTable
	}
	q, err := buildQueries(d, table)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &SQLStore{db: db, q: q}, nil
}

// Open connects to the database named by cfg.Type: mysql, mariadb or postgresql.
func Open(ctx context.Context, cfg config.StorageConfig) (*SQLStore, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch strings.ToLower(cfg.Type) {
	case "mysql":
		db, err = intMySQL.GetMySQLDB(ctx, cfg.Connection)
		dialect = MySQL
	case "mariadb":
		db, err = intMariaDB.GetMariaDBDB(ctx, cfg.Connection)
		dialect = MySQL
	case "postgresql":
		db, err = intPostgres.GetPostgreSQLDB(ctx, cfg.Driver, cfg.Connection)
		dialect = PostgreSQL
	default:
		return nil, fmt.Errorf("sqlstore does not handle storage type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	s, err := NewSQLStore(ctx, db, dialect, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.q.set, key, value)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
