// Package cookiestore keeps portal session cookies between runs so a new
// process can skip signing in while the session is still valid.
package cookiestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"lmssynergy/lib/sqliteutil"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("cookiestore")

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

// Open opens the configured database and applies the schema.
func Open(ctx context.Context, config sqliteutil.Config) (Store, error) {
	db, err := config.OpenDB()
	if err != nil {
		return Store{}, err
	}
	store, err := New(ctx, db)
	if err != nil {
		db.Close()
		return Store{}, err
	}
	return store, nil
}

// New uses an already open database.
func New(ctx context.Context, db *sql.DB) (Store, error) {
	err := sqliteutil.Migrate(ctx, db, Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Save replaces the cookies stored for the account.
func (s Store) Save(ctx context.Context, username, baseUrl string, cookies map[string]string) error {
	ctx, span := tracer.Start(ctx, "cookiestore:Save")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"delete from session_cookie where username = ? and base_url = ?",
		username, baseUrl,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear cookies")
		return fmt.Errorf("clear cookies: %w", err)
	}

	now := time.Now().Unix()
	for name, value := range cookies {
		_, err = tx.ExecContext(
			ctx,
			"insert into session_cookie(username, base_url, name, value, saved_at) values (?, ?, ?, ?, ?)",
			username, baseUrl, name, value, now,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert cookie")
			return fmt.Errorf("save cookie %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// Load returns the cookies stored for the account, an unknown account has
// no cookies.
func (s Store) Load(ctx context.Context, username, baseUrl string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "cookiestore:Load")
	defer span.End()

	rows, err := s.db.QueryContext(
		ctx,
		"select name, value from session_cookie where username = ? and base_url = ?",
		username, baseUrl,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query cookies")
		return nil, err
	}
	defer rows.Close()

	cookies := map[string]string{}
	for rows.Next() {
		var name, value string
		err := rows.Scan(&name, &value)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to scan cookie")
			return nil, err
		}
		cookies[name] = value
	}
	return cookies, rows.Err()
}

// Forget drops the cookies stored for the account.
func (s Store) Forget(ctx context.Context, username, baseUrl string) error {
	_, err := s.db.ExecContext(
		ctx,
		"delete from session_cookie where username = ? and base_url = ?",
		username, baseUrl,
	)
	return err
}
