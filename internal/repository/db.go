// Package repository обеспечивает доступ к данным сайта: контенту страниц
// и снимкам сессий посетителей.
package repository

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Поддерживаемые драйверы базы данных
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// PostgresDSN собирает строку подключения к PostgreSQL.
func PostgresDSN(host, port, user, pass, name string) string {
	return "host=" + host + " port=" + port + " user=" + user + " password=" + pass + " dbname=" + name + " sslmode=disable"
}

// Open подключается к базе и применяет миграции.
// Для sqlite dsn - путь к файлу базы.
func Open(driver, dsn string) (*sqlx.DB, error) {
	var (
		db      *sqlx.DB
		err     error
		dialect goose.Dialect
	)
	switch driver {
	case DriverSQLite:
		db, err = sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000", dsn))
		if err == nil {
			db.SetMaxOpenConns(1)
		}
		dialect = goose.DialectSQLite3
	case DriverPostgres:
		db, err = sqlx.Connect("postgres", dsn)
		dialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("неподдерживаемый драйвер базы данных %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		db.Close()
		return nil, fmt.Errorf("выбор диалекта миграций: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("применение миграций: %w", err)
	}
	return db, nil
}
