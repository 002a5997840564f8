package app

import (
	"net/http"

	"cinema_catalog/internal/domain"
)

type Source int

const (
	FromQuery Source = iota
	FromBody
)

type Shape int

const (
	// Rows returns the raw row list.
	Rows Shape = iota
	// Exec returns a bare success envelope.
	Exec
	// Paged runs SQL with (startIndex, pagesize) and CountSQL, returning a Page.
	Paged
)

// Route binds one HTTP operation to its schema and statement.
type Route struct {
	Method   string
	Path     string
	Entity   string
	Source   Source
	Schema   Schema
	SQL      string
	Params   []string // schema fields bound to the SQL placeholders, in order
	Shape    Shape
	CountSQL string
	Action   domain.Action // set on writes; drives the change event
}

// params returns the fields bound to SQL, defaulting to the schema order.
func (r Route) params() []string {
	if len(r.Params) > 0 {
		return r.Params
	}
	names := make([]string, len(r.Schema))
	for i, f := range r.Schema {
		names[i] = f.Name
	}
	return names
}

var idSchema = Schema{Str("id")}

func list(path, entity, sql string) Route {
	return Route{Method: http.MethodGet, Path: path, Entity: entity, Source: FromQuery, SQL: sql, Shape: Rows}
}

func listBy(path, entity, field, sql string) Route {
	return Route{Method: http.MethodGet, Path: path, Entity: entity, Source: FromQuery, Schema: Schema{Str(field)}, SQL: sql, Shape: Rows}
}

func add(path, entity string, schema Schema, sql string) Route {
	return Route{Method: http.MethodPost, Path: path, Entity: entity, Source: FromBody, Schema: schema, SQL: sql, Shape: Exec, Action: domain.ActionAdd}
}

func del(path, entity, sql string) Route {
	return Route{Method: http.MethodPost, Path: path, Entity: entity, Source: FromBody, Schema: idSchema, SQL: sql, Shape: Exec, Action: domain.ActionDel}
}

// Catalog returns every catalog route, grouped by entity.
func Catalog() []Route {
	var out []Route
	out = append(out, cinemaRoutes()...)
	out = append(out, cinemaRoomRoutes()...)
	out = append(out, movieInfoRoutes()...)
	out = append(out, movieActorRoutes()...)
	out = append(out, movieDirectorRoutes()...)
	out = append(out, movieThumbRoutes()...)
	return out
}
