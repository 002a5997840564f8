package domain

import (
	"context"
	"time"
)

type Action string

const (
	ActionAdd Action = "add"
	ActionDel Action = "del"
)

// Event describes a successful write on one of the catalog tables.
type Event struct {
	ID     string         `json:"id"`
	Entity string         `json:"entity"`
	Action Action         `json:"action"`
	Fields map[string]any `json:"fields,omitempty"`
	At     time.Time      `json:"at"`
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, _ Event) error { return nil }
func (NopPublisher) Close() error                             { return nil }
