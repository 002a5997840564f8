package mysql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"cinema_catalog/internal/adapters/observability"
	"cinema_catalog/internal/domain"
)

// Gateway runs statements through a pooled *sqlx.DB. It works with any
// database/sql driver; production uses MySQL.
type Gateway struct{ db *sqlx.DB }

func New(db *sqlx.DB) *Gateway { return &Gateway{db: db} }

func (g *Gateway) Query(ctx context.Context, query string, args ...any) ([]domain.Row, error) {
	start := time.Now()
	out, err := g.query(ctx, query, args...)
	observability.ObserveQuery("query", outcome(err), time.Since(start))
	return out, err
}

func (g *Gateway) query(ctx context.Context, query string, args ...any) ([]domain.Row, error) {
	rows, err := g.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	dbTypes := make(map[string]string, len(types))
	for _, ct := range types {
		dbTypes[ct.Name()] = ct.DatabaseTypeName()
	}

	out := []domain.Row{}
	for rows.Next() {
		m := make(map[string]any, len(types))
		if err := rows.MapScan(m); err != nil {
			return nil, err
		}
		for k, v := range m {
			m[k] = decode(v, dbTypes[k])
		}
		out = append(out, domain.Row(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()
	res, err := g.db.ExecContext(ctx, query, args...)
	observability.ObserveQuery("exec", outcome(err), time.Since(start))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// some drivers cannot report it; the statement itself succeeded
		return 0, nil
	}
	return n, nil
}

func (g *Gateway) Ping(ctx context.Context) error { return g.db.PingContext(ctx) }

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	intTypes = map[string]bool{
		"TINYINT": true, "SMALLINT": true, "MEDIUMINT": true, "INT": true,
		"INTEGER": true, "BIGINT": true, "YEAR": true,
	}
	floatTypes = map[string]bool{
		"DECIMAL": true, "NUMERIC": true, "FLOAT": true, "DOUBLE": true, "REAL": true,
	}
)

// decode turns text-protocol []byte values into int64, float64 or string
// according to the column's database type.
func decode(v any, dbType string) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	t := strings.TrimPrefix(strings.ToUpper(dbType), "UNSIGNED ")
	switch {
	case intTypes[t]:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case floatTypes[t]:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
