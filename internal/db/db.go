package db

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Params struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres URL with user and password escaped.
func (p Params) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Pass),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func OpenSQL(ctx context.Context, p Params) (*sql.DB, error) {
	db, err := sql.Open("pgx", p.DSN())
	if err != nil {
		return nil, err
	}
	// one sequential export per run
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
