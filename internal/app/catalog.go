package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cinema_catalog/internal/domain"
)

const publishTimeout = 2 * time.Second

// DatabaseError wraps a failed statement. Its message is the driver's.
type DatabaseError struct {
	Route string
	Err   error
}

func (e *DatabaseError) Error() string { return e.Err.Error() }
func (e *DatabaseError) Unwrap() error { return e.Err }

type CatalogService struct {
	gw  domain.Gateway
	pub domain.Publisher
}

func NewCatalogService(gw domain.Gateway, pub domain.Publisher) *CatalogService {
	if pub == nil {
		pub = domain.NopPublisher{}
	}
	return &CatalogService{gw: gw, pub: pub}
}

// Handle validates in against the route schema, runs the route statement and
// maps the outcome onto an envelope. Failures never escape as panics or errors.
func (s *CatalogService) Handle(ctx context.Context, rt Route, in map[string]string) Envelope {
	var vals Values
	if rt.Schema != nil {
		v, err := rt.Schema.Validate(in)
		if err != nil {
			log.Debug().Str("route", rt.Path).Err(err).Msg("validation failed")
			return Error(http.StatusBadRequest, err.Error())
		}
		vals = v
	}

	data, affected, err := s.run(ctx, rt, vals)
	if err != nil {
		var dbErr *DatabaseError
		if !errors.As(err, &dbErr) {
			dbErr = &DatabaseError{Route: rt.Path, Err: err}
		}
		log.Error().Err(dbErr.Err).Str("route", rt.Path).Str("method", rt.Method).Msg("statement failed")
		return Error(http.StatusInternalServerError, dbErr.Error())
	}

	// a delete that matched nothing changed nothing; there is no event to tell
	if rt.Action == domain.ActionAdd || (rt.Action == domain.ActionDel && affected > 0) {
		s.publish(ctx, rt, vals)
	}
	return OK(data)
}

// run executes the route statement. affected is only meaningful for Exec routes.
func (s *CatalogService) run(ctx context.Context, rt Route, vals Values) (any, int64, error) {
	switch rt.Shape {
	case Rows:
		rows, err := s.gw.Query(ctx, rt.SQL, bind(rt, vals)...)
		if err != nil {
			return nil, 0, &DatabaseError{Route: rt.Path, Err: err}
		}
		return rows, 0, nil
	case Exec:
		n, err := s.gw.Exec(ctx, rt.SQL, bind(rt, vals)...)
		if err != nil {
			return nil, 0, &DatabaseError{Route: rt.Path, Err: err}
		}
		return nil, n, nil
	case Paged:
		pg, err := s.page(ctx, rt, vals)
		if err != nil {
			return nil, 0, err
		}
		return pg, 0, nil
	}
	return nil, 0, fmt.Errorf("route %s: unknown shape %d", rt.Path, rt.Shape)
}

// page reads one window and the table total independently. The total is not
// scoped by the window.
func (s *CatalogService) page(ctx context.Context, rt Route, vals Values) (Page, error) {
	page, _ := vals["page"].(int64)
	size, _ := vals["pagesize"].(int64)

	var (
		rows  []domain.Row
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	// an offset past int64 is past any table; only the total is read
	if offset, ok := startIndex(page, size); ok {
		g.Go(func() error {
			var err error
			rows, err = s.gw.Query(gctx, rt.SQL, offset, size)
			return err
		})
	}
	g.Go(func() error {
		res, err := s.gw.Query(gctx, rt.CountSQL)
		if err != nil {
			return err
		}
		total, err = countOf(res)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, &DatabaseError{Route: rt.Path, Err: err}
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	return Page{Page: page, PageSize: size, Total: total, Result: rows}, nil
}

func bind(rt Route, vals Values) []any {
	names := rt.params()
	args := make([]any, 0, len(names))
	for _, n := range names {
		args = append(args, vals[n])
	}
	return args
}

func countOf(rows []domain.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, errors.New("count query returned no rows")
	}
	switch v := rows[0]["count"].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}

// publish emits the change event for a successful write. Delivery is best-effort.
func (s *CatalogService) publish(ctx context.Context, rt Route, vals Values) {
	ev := domain.Event{
		ID:     uuid.NewString(),
		Entity: rt.Entity,
		Action: rt.Action,
		Fields: map[string]any(vals),
		At:     time.Now().UTC(),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.pub.Publish(pctx, ev); err != nil {
		log.Warn().Err(err).
			Str("entity", ev.Entity).
			Str("action", string(ev.Action)).
			Str("event_id", ev.ID).
			Msg("change event not published")
	}
}
