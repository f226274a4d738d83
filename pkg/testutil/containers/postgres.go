//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// lookupSchema mirrors the tables the business management surface owns.
// The platform only reads them in production, so integration tests create
// the shape themselves.
const lookupSchema = `
CREATE TABLE IF NOT EXISTS business_contexts (
	business_id   UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	business_type TEXT NOT NULL,
	language      TEXT NOT NULL,
	staff_names   TEXT[],
	departments   TEXT[],
	promotions    TEXT[],
	known_issues  TEXT[],
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS business_tier_configs (
	business_id         UUID PRIMARY KEY,
	tier_level          INT NOT NULL,
	max_single_reward   BIGINT NOT NULL,
	max_daily_reward    BIGINT NOT NULL,
	max_monthly_reward  BIGINT NOT NULL,
	commission_permille BIGINT NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the lookup
// schema applied and a pgx database/sql pool connected.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres, waits for readiness, and applies the
// lookup schema. Shared through the Manager; Ryuk terminates it after the run.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vocilia_test"),
		tcpostgres.WithUsername("vocilia"),
		tcpostgres.WithPassword("vocilia"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, lookupSchema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply lookup schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables clears the named tables. Call between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", "))
	return err
}
