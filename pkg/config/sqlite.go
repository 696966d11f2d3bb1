package config

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_unicode_lower"

var registerSQLiteDriver sync.Once

// SQLiteDialector opens dsn through a go-sqlite3 driver whose LOWER() folds
// all of Unicode, so case-insensitive matches behave as they do on Postgres.
// The built-in only folds ASCII.
func SQLiteDialector(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}
