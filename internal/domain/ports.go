package domain

import "context"

// Gateway runs parameterized statements against the relational store.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// Read paths
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Write paths; returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	Ping(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Row is one result row keyed by column name.
type Row map[string]any
