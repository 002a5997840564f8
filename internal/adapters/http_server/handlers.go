package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"cinema_catalog/internal/adapters/observability"
	"cinema_catalog/internal/app"
)

const maxBodyBytes = 1 << 20

// Handlers dispatches catalog routes to the CatalogService.
//
// With MirrorStatus set, the envelope code is also used as the HTTP status;
// otherwise every envelope travels with HTTP 200 and only the embedded code
// reports the outcome.
type Handlers struct {
	Catalog      *app.CatalogService
	Routes       []app.Route
	Ready        func(ctx context.Context) error
	MirrorStatus bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	for _, rt := range h.Routes {
		s.mux.Method(rt.Method, rt.Path, h.serve(rt))
	}
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ready(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) serve(rt app.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := readInput(w, r, rt.Source)
		if err != nil {
			h.writeEnvelope(w, rt, app.Error(http.StatusBadRequest, err.Error()))
			return
		}
		h.writeEnvelope(w, rt, h.Catalog.Handle(r.Context(), rt, in))
	}
}

func (h *Handlers) writeEnvelope(w http.ResponseWriter, rt app.Route, env app.Envelope) {
	observability.ObserveEnvelope(rt.Path, env.Code)
	status := http.StatusOK
	if h.MirrorStatus && env.Code != 0 {
		status = env.Code
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Str("route", rt.Path).Msg("write envelope failed")
	}
}

// readInput flattens the request parameters into a key/value map. Reads use
// the query string; writes use the url-encoded form or a flat JSON object.
// Repeated keys keep their first value.
func readInput(w http.ResponseWriter, r *http.Request, src app.Source) (map[string]string, error) {
	if src == app.FromQuery {
		return first(r.URL.Query()), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return readJSON(r)
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return first(r.PostForm), nil
}

func first(vals map[string][]string) map[string]string {
	out := make(map[string]string, len(vals))
	for k, vs := range vals {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

var errNotFlat = errors.New("request body must be a flat JSON object")

func readJSON(r *http.Request) (map[string]string, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			// null counts as absent
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			return nil, errNotFlat
		}
	}
	return out, nil
}
