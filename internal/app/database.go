package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbPingTimeout = 5 * time.Second
	// Ballot inserts are three rows; longer statements are cut in spans.
	maxSpanQueryBytes = 512
)

func openPostgres(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(databaseName(dbURL)),
		otelsql.WithQueryFormatter(spanQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// databaseName accepts both postgres:// URLs and key=value DSNs.
func databaseName(dbURL string) string {
	dsn := strings.TrimSpace(dbURL)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return ""
		}
		dsn = converted
	}

	for _, field := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(name, `'"`)
		}
	}
	return ""
}

// spanQuery collapses whitespace so multi-line statements read on one line.
func spanQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= maxSpanQueryBytes {
		return query
	}

	cut := maxSpanQueryBytes
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
