package whatsapp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// dialect picks the database/sql driver for a session DSN.
func dialect(dsn string) string {
	d := strings.ToLower(dsn)
	if strings.HasPrefix(d, "postgres:") || strings.HasPrefix(d, "postgresql:") {
		return "postgres"
	}
	return "sqlite3"
}

// OpenStore opens the device session database and brings its schema up to date.
func OpenStore(ctx context.Context, dsn string, log waLog.Logger) (*sqlstore.Container, *sql.DB, error) {
	driver := dialect(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open session db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping session db: %w", err)
	}

	container := sqlstore.NewWithDB(db, driver, log)
	if err := container.Upgrade(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("upgrade session db: %w", err)
	}
	return container, db, nil
}
