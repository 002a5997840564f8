package app_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"cinema_catalog/internal/app"
	"cinema_catalog/internal/domain"
	"cinema_catalog/internal/storage/mysql"
	"cinema_catalog/internal/storage/sqlitetest"
)

// ---- fakes ----

type failingGateway struct{ err error }

func (f failingGateway) Query(ctx context.Context, q string, args ...any) ([]domain.Row, error) {
	return nil, f.err
}
func (f failingGateway) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return 0, f.err
}
func (f failingGateway) Ping(ctx context.Context) error { return f.err }

type capturingGateway struct {
	mu   sync.Mutex
	args [][]any
}

func (g *capturingGateway) Query(ctx context.Context, q string, args ...any) ([]domain.Row, error) {
	return []domain.Row{{"count": int64(0)}}, nil
}
func (g *capturingGateway) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.args = append(g.args, args)
	return 1, nil
}
func (g *capturingGateway) Ping(ctx context.Context) error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

// ---- helpers ----

func route(t *testing.T, method, path string) app.Route {
	t.Helper()
	for _, rt := range app.Catalog() {
		if rt.Method == method && rt.Path == path {
			return rt
		}
	}
	t.Fatalf("no route %s %s", method, path)
	return app.Route{}
}

func movie(i int) map[string]string {
	return map[string]string{
		"categoryId":  "1",
		"cover":       fmt.Sprintf("https://img.example/%d.jpg", i),
		"title":       fmt.Sprintf("Movie %02d", i),
		"type":        "Drama",
		"starActor":   "A. Lee",
		"showingon":   "2024-05-01",
		"score":       "7.9",
		"description": "…",
		"duration":    "118",
	}
}

func newService(t *testing.T, pub domain.Publisher) (*app.CatalogService, func(table string) int) {
	t.Helper()
	db := sqlitetest.Open(t)
	svc := app.NewCatalogService(mysql.New(db), pub)
	return svc, func(table string) int { return sqlitetest.Count(t, db, table) }
}

// ---- tests ----

func TestHandle_AddThenList(t *testing.T) {
	svc, count := newService(t, nil)
	ctx := context.Background()

	env := svc.Handle(ctx, route(t, "POST", "/movie-actor/add"), map[string]string{
		"actor_name": "Maggie Cheung", "actor_avatar": "https://img.example/mc.png",
	})
	if env.Code != 200 || env.Msg != "ok" || env.Data != nil {
		t.Fatalf("unexpected add envelope: %+v", env)
	}
	if n := count("movie_actor"); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}

	env = svc.Handle(ctx, route(t, "GET", "/movie-actors"), nil)
	rows, ok := env.Data.([]domain.Row)
	if env.Code != 200 || !ok || len(rows) != 1 {
		t.Fatalf("unexpected list envelope: %+v", env)
	}
	if rows[0]["actor_name"] != "Maggie Cheung" || rows[0]["actor_avatar"] != "https://img.example/mc.png" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestHandle_AddMovieInfoStoresTypedColumns(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	if env := svc.Handle(ctx, route(t, "POST", "/movie-info/add"), movie(1)); env.Code != 200 {
		t.Fatalf("add failed: %+v", env)
	}
	env := svc.Handle(ctx, route(t, "GET", "/movie-infos"), map[string]string{"page": "1", "pagesize": "10"})
	pg := env.Data.(app.Page)
	if len(pg.Result) != 1 {
		t.Fatalf("expected 1 movie, got %+v", pg)
	}
	row := pg.Result[0]
	if row["category_id"] != int64(1) || row["duration"] != int64(118) || row["title"] != "Movie 01" || row["star_actor"] != "A. Lee" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestHandle_MissingFieldWritesNothing(t *testing.T) {
	svc, count := newService(t, nil)

	in := movie(1)
	delete(in, "duration")
	env := svc.Handle(context.Background(), route(t, "POST", "/movie-info/add"), in)
	if env.Code != 400 || env.Msg != `"duration" is required` || env.Data != nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if n := count("movie_info"); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestHandle_Pagination(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	add := route(t, "POST", "/movie-info/add")
	for i := 1; i <= 25; i++ {
		if env := svc.Handle(ctx, add, movie(i)); env.Code != 200 {
			t.Fatalf("seed %d: %+v", i, env)
		}
	}

	list := route(t, "GET", "/movie-infos")
	cases := []struct {
		page, size string
		want       int
		firstTitle string
	}{
		{"1", "10", 10, "Movie 01"},
		{"3", "10", 5, "Movie 21"},
		{"10", "10", 0, ""},
		{"1", "100", 25, "Movie 01"},
		{"100000000000000000", "100", 0, ""},
		{"9000000000000000000", "10", 0, ""},
		{"9223372036854775807", "100", 0, ""},
	}
	for _, tc := range cases {
		t.Run("page="+tc.page+"&pagesize="+tc.size, func(t *testing.T) {
			env := svc.Handle(ctx, list, map[string]string{"page": tc.page, "pagesize": tc.size})
			if env.Code != 200 {
				t.Fatalf("unexpected envelope: %+v", env)
			}
			pg, ok := env.Data.(app.Page)
			if !ok {
				t.Fatalf("expected app.Page, got %T", env.Data)
			}
			wantPage, _ := strconv.ParseInt(tc.page, 10, 64)
			wantSize, _ := strconv.ParseInt(tc.size, 10, 64)
			if pg.Page != wantPage || pg.PageSize != wantSize || pg.Total != 25 {
				t.Fatalf("unexpected page header: %+v", pg)
			}
			if pg.Result == nil || len(pg.Result) != tc.want {
				t.Fatalf("expected %d rows, got %d", tc.want, len(pg.Result))
			}
			if tc.want > 0 && pg.Result[0]["title"] != tc.firstTitle {
				t.Fatalf("first row: %+v", pg.Result[0])
			}
		})
	}
}

func TestHandle_PaginationRejectsBadInput(t *testing.T) {
	svc, _ := newService(t, nil)
	list := route(t, "GET", "/movie-infos")

	for _, in := range []map[string]string{
		{"page": "1", "pagesize": "101"},
		{"page": "one", "pagesize": "10"},
		{"page": "1", "pagesize": "ten"},
		{"page": "0", "pagesize": "10"},
		{"pagesize": "10"},
	} {
		if env := svc.Handle(context.Background(), list, in); env.Code != 400 {
			t.Errorf("%v: expected 400, got %+v", in, env)
		}
	}
}

func TestHandle_DeleteUnknownIDSucceeds(t *testing.T) {
	pub := &recordingPublisher{}
	svc, count := newService(t, pub)
	ctx := context.Background()
	if env := svc.Handle(ctx, route(t, "POST", "/movie-info/add"), movie(1)); env.Code != 200 {
		t.Fatalf("seed: %+v", env)
	}

	env := svc.Handle(ctx, route(t, "POST", "/movie-info/del"), map[string]string{"id": "424242"})
	if env.Code != 200 || env.Msg != "ok" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if n := count("movie_info"); n != 1 {
		t.Fatalf("expected the seeded row to survive, got %d rows", n)
	}
	// only the add is announced; the miss deleted nothing
	if len(pub.events) != 1 || pub.events[0].Action != domain.ActionAdd {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestHandle_DeleteRemovesRow(t *testing.T) {
	svc, count := newService(t, nil)
	ctx := context.Background()
	svc.Handle(ctx, route(t, "POST", "/movie-director/add"), map[string]string{"director_name": "Wong Kar-wai", "director_avatar": "w.png"})
	svc.Handle(ctx, route(t, "POST", "/movie-director/add"), map[string]string{"director_name": "Ann Hui", "director_avatar": "a.png"})

	env := svc.Handle(ctx, route(t, "POST", "/movie-director/del"), map[string]string{"id": "1"})
	if env.Code != 200 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if n := count("movie_director"); n != 1 {
		t.Fatalf("expected 1 row left, got %d", n)
	}
}

func TestHandle_ListByParent(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	addRoom := route(t, "POST", "/cinema-room/add")
	svc.Handle(ctx, addRoom, map[string]string{"movie_cinema_id": "1", "room_name": "Hall 1", "room_type": "IMAX"})
	svc.Handle(ctx, addRoom, map[string]string{"movie_cinema_id": "1", "room_name": "Hall 2", "room_type": "2D"})
	svc.Handle(ctx, addRoom, map[string]string{"movie_cinema_id": "2", "room_name": "Hall A", "room_type": "3D"})

	env := svc.Handle(ctx, route(t, "GET", "/cinema-rooms/cinemaid"), map[string]string{"cinema_id": "1"})
	rows, _ := env.Data.([]domain.Row)
	if env.Code != 200 || len(rows) != 2 {
		t.Fatalf("expected 2 rooms, got %+v", env)
	}

	env = svc.Handle(ctx, route(t, "GET", "/cinema-rooms/cinemaid"), map[string]string{"cinema_id": "42"})
	rows, _ = env.Data.([]domain.Row)
	if env.Code != 200 || rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty list, got %+v", env)
	}

	env = svc.Handle(ctx, route(t, "GET", "/cinema-rooms/cinemaid"), map[string]string{})
	if env.Code != 400 || env.Msg != `"cinema_id" is required` {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestHandle_LookupTables(t *testing.T) {
	svc, _ := newService(t, nil)
	for path, want := range map[string]int{"/cinema/tags": 2, "/cinema-room/types": 3, "/movie-types": 2, "/cinemas": 0} {
		env := svc.Handle(context.Background(), route(t, "GET", path), map[string]string{"ignored": "1"})
		rows, ok := env.Data.([]domain.Row)
		if env.Code != 200 || !ok || len(rows) != want {
			t.Errorf("%s: expected %d rows, got %+v", path, want, env)
		}
	}
}

func TestHandle_ConcurrentAdds(t *testing.T) {
	svc, count := newService(t, nil)
	add := route(t, "POST", "/cinema/add")

	const n = 20
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := svc.Handle(context.Background(), add, map[string]string{
				"cinema_name": fmt.Sprintf("Cinema %d", i),
				"address":     "1 Main St",
				"province":    "Ontario",
				"city":        "Toronto",
				"district":    "Downtown",
				"longitude":   "-79.38",
				"latitude":    "43.65",
				"tags":        "IMAX",
			})
			codes[i] = env.Code
		}(i)
	}
	wg.Wait()

	for i, c := range codes {
		if c != 200 {
			t.Fatalf("add %d: code %d", i, c)
		}
	}
	if got := count("movie_cinema"); got != n {
		t.Fatalf("expected %d rows, got %d", n, got)
	}
}

func TestHandle_DatabaseErrorIsContained(t *testing.T) {
	driverErr := errors.New("Error 1146 (42S02): Table 'movie.movie_actor' doesn't exist")
	svc := app.NewCatalogService(failingGateway{err: driverErr}, nil)

	for _, tc := range []struct {
		method, path string
		in           map[string]string
	}{
		{"GET", "/movie-actors", nil},
		{"POST", "/movie-actor/add", map[string]string{"actor_name": "x", "actor_avatar": "y"}},
		{"GET", "/movie-infos", map[string]string{"page": "1", "pagesize": "10"}},
	} {
		env := svc.Handle(context.Background(), route(t, tc.method, tc.path), tc.in)
		if env.Code != 500 || env.Msg != driverErr.Error() || env.Data != nil {
			t.Errorf("%s %s: unexpected envelope %+v", tc.method, tc.path, env)
		}
	}
}

func TestHandle_PublishesChangeEvents(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(t, pub)
	ctx := context.Background()

	svc.Handle(ctx, route(t, "POST", "/movie-thumb/add"), map[string]string{"movie_id": "7", "thumb": "t.jpg"})
	svc.Handle(ctx, route(t, "POST", "/movie-thumb/del"), map[string]string{"id": "1"})
	svc.Handle(ctx, route(t, "GET", "/movie-thumbs/movieid"), map[string]string{"movie_id": "7"})
	svc.Handle(ctx, route(t, "POST", "/movie-thumb/add"), map[string]string{"movie_id": "7"}) // invalid

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", pub.events)
	}
	add, del := pub.events[0], pub.events[1]
	if add.Entity != "movie_thumb" || add.Action != domain.ActionAdd || add.Fields["thumb"] != "t.jpg" || add.ID == "" {
		t.Fatalf("unexpected add event: %+v", add)
	}
	if del.Action != domain.ActionDel || del.Fields["id"] != "1" || del.ID == add.ID {
		t.Fatalf("unexpected del event: %+v", del)
	}
}

func TestHandle_PublishFailureKeepsSuccess(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, count := newService(t, pub)

	env := svc.Handle(context.Background(), route(t, "POST", "/movie-actor/add"), map[string]string{"actor_name": "x", "actor_avatar": "y"})
	if env.Code != 200 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if count("movie_actor") != 1 || len(pub.events) != 1 {
		t.Fatalf("write or publish attempt missing")
	}
}

func TestHandle_NumberFieldsBindSubmittedText(t *testing.T) {
	gw := &capturingGateway{}
	svc := app.NewCatalogService(gw, nil)

	in := movie(1)
	in["categoryId"] = "12345678901234567890123"
	in["duration"] = "118.50"
	if env := svc.Handle(context.Background(), route(t, "POST", "/movie-info/add"), in); env.Code != 200 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if len(gw.args) != 1 {
		t.Fatalf("expected one insert, got %d", len(gw.args))
	}
	args := gw.args[0]
	if fmt.Sprint(args[0]) != "12345678901234567890123" || fmt.Sprint(args[8]) != "118.50" {
		t.Fatalf("numbers not bound verbatim: %v", args)
	}
}
