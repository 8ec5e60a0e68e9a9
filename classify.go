package apifault

import (
	"database/sql"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/apifault/apifault/query"
)

// isPersistenceError reports whether err originated in a data access
// layer: a driver error, a missing row, or a query expression that
// references properties the store does not know. Wrapped errors are
// unwrapped through the usual errors.Is/errors.As chain.
func isPersistenceError(err error) bool {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, redis.Nil) {
		return true
	}

	var (
		pgErr       *pgconn.PgError
		pqErr       *pq.Error
		chErr       *clickhouse.Exception
		unknownProp *query.UnknownPropertyError
	)
	switch {
	case errors.As(err, &pgErr),
		errors.As(err, &pqErr),
		errors.As(err, &chErr),
		errors.As(err, &unknownProp):
		return true
	}

	return false
}
