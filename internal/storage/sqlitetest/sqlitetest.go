// Package sqlitetest opens an in-memory SQLite database carrying the catalog
// tables, for tests that exercise the real statements without a MySQL server.
package sqlitetest

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
create table movie_cinema_tag (id integer primary key autoincrement, tagname text not null);
create table movie_cinema (
  id integer primary key autoincrement,
  cinema_name text not null, address text not null, province text not null,
  city text not null, district text not null,
  longitude real not null, latitude real not null, tags text not null
);
create table movie_cinema_room_type (id integer primary key autoincrement, type_name text not null);
create table movie_cinema_room (
  id integer primary key autoincrement,
  movie_cinema_id integer not null, room_name text not null, room_type text not null
);
create table movie_type (id integer primary key autoincrement, typename text not null);
create table movie_info (
  id integer primary key autoincrement,
  category_id integer not null, cover text not null, title text not null, type text not null,
  star_actor text not null, showingon text not null, score text not null,
  description text not null, duration integer not null
);
create table movie_actor (id integer primary key autoincrement, actor_name text not null, actor_avatar text not null);
create table movie_director (id integer primary key autoincrement, director_name text not null, director_avatar text not null);
create table movie_thumb (id integer primary key autoincrement, movie_id integer not null, thumb text not null);
insert into movie_cinema_tag (tagname) values ('IMAX'), ('VIP');
insert into movie_cinema_room_type (type_name) values ('2D'), ('3D'), ('IMAX');
insert into movie_type (typename) values ('Action'), ('Drama');
`

// Open returns a fresh database, closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return db
}

// Count returns the number of rows in table.
func Count(t testing.TB, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, "select count(*) from "+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
