package preflight

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type dbConn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DatabaseProbe connects to Postgres and pings it. TLS is never attempted,
// matching the fixed sslmode=disable driver policy.
type DatabaseProbe struct {
	url     string
	connect func(ctx context.Context, url string) (dbConn, error)
}

func NewDatabaseProbe(url string) *DatabaseProbe {
	return &DatabaseProbe{url: url, connect: connectPostgres}
}

func (p *DatabaseProbe) Name() string     { return "database" }
func (p *DatabaseProbe) Configured() bool { return p.url != "" }

func (p *DatabaseProbe) Check(ctx context.Context) error {
	conn, err := p.connect(ctx, p.url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func connectPostgres(ctx context.Context, url string) (dbConn, error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	cfg.TLSConfig = nil
	cfg.Fallbacks = nil

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}
	return conn, nil
}
