// Package coverapi exposes the covering engine over a small JSON HTTP API.
package coverapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/signalsfoundry/coverage-planner/core"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
	"github.com/signalsfoundry/coverage-planner/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

// CoverRequest is the JSON body of POST /v1/cover.
type CoverRequest struct {
	Tau         float64     `json:"tau"`
	N           int         `json:"n"`
	RadiusBound float64     `json:"radius_bound,omitempty"`
	Points      []PointSpec `json:"points"`
}

// PointSpec is one input ball.
type PointSpec struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

// FamilyMember is one selected ball in the response.
type FamilyMember struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

// CoverResponse is the JSON body of a successful covering.
type CoverResponse struct {
	Families   [][]FamilyMember `json:"families"`
	Steps      int              `json:"steps"`
	ColorsUsed int              `json:"colors_used"`
	Certified  bool             `json:"certified"`
}

// WitnessJSON carries a satellite-configuration witness back to the caller.
type WitnessJSON struct {
	Centers []PointSpec `json:"centers"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Witness *WitnessJSON `json:"witness,omitempty"`
}

// Server exposes the covering engine over HTTP.
type Server struct {
	log       logging.Logger
	collector *observability.CoverCollector
	oracle    core.Oracle
	workers   int
}

// NewServer constructs an API server. A nil collector disables metrics and
// a nil oracle leaves results uncertified.
func NewServer(log logging.Logger, collector *observability.CoverCollector, oracle core.Oracle, workers int) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{log: log, collector: collector, oracle: oracle, workers: workers}
}

// Routes returns the API handler with metrics and run-id instrumentation
// applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/cover", s.collector.Middleware("/v1/cover", http.HandlerFunc(s.handleCover)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "use POST"})
		return
	}

	ctx, log := logging.WithRunLogger(r.Context(), s.log)
	ctx, span := observability.StartSpan(ctx, "coverapi/cover")
	defer span.End()

	var req CoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decode request: " + err.Error()})
		return
	}
	span.SetAttributes(
		attribute.Int("cover.points", len(req.Points)),
		attribute.Int("cover.n", req.N),
		attribute.Float64("cover.tau", req.Tau),
	)

	pkg := packageFromRequest(req)
	start := time.Now()
	covering, err := core.Cover(ctx, pkg, req.Tau, req.N, s.oracle,
		core.WithWorkers(s.workers),
		core.WithLogger(log),
	)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		s.collector.ObserveRun(outcomeFor(err), 0, 0, elapsed)
		status := StatusForError(err)
		resp := errorResponse{Error: err.Error()}
		var scErr *core.SatelliteConfigError
		if errors.As(err, &scErr) && scErr.Witness != nil {
			resp.Witness = witnessJSON(scErr.Witness)
		}
		if status >= http.StatusInternalServerError {
			log.Error(ctx, "covering failed", logging.String("error", err.Error()))
		}
		writeJSON(w, status, resp)
		return
	}

	s.collector.ObserveRun(observability.OutcomeOK, covering.Steps, covering.ColorsUsed, elapsed)
	writeJSON(w, http.StatusOK, responseFrom(covering))
}

// StatusForError maps engine errors onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSatelliteConfiguration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, core.ErrInvalidParameter):
		return observability.OutcomeInvalidParameter
	case errors.Is(err, core.ErrSatelliteConfiguration):
		return observability.OutcomeSatelliteConfiguration
	case errors.Is(err, core.ErrSelectionExhausted):
		return observability.OutcomeExhausted
	default:
		return observability.OutcomeCanceled
	}
}

func packageFromRequest(req CoverRequest) *core.BallPackage {
	balls := make([]core.Ball, 0, len(req.Points))
	bound := req.RadiusBound
	for _, pt := range req.Points {
		balls = append(balls, core.Ball{
			Center: core.Vec3{X: pt.X, Y: pt.Y, Z: pt.Z},
			Radius: pt.Radius,
		})
		if req.RadiusBound == 0 && pt.Radius > bound {
			bound = pt.Radius
		}
	}
	return &core.BallPackage{Balls: balls, RadiusBound: bound}
}

func responseFrom(covering *core.Covering) CoverResponse {
	resp := CoverResponse{
		Families:   make([][]FamilyMember, len(covering.Families)),
		Steps:      covering.Steps,
		ColorsUsed: covering.ColorsUsed,
		Certified:  covering.Certified,
	}
	for i, family := range covering.Families {
		members := make([]FamilyMember, 0, len(family))
		for _, sel := range family {
			members = append(members, FamilyMember{
				ID:     int(sel.ID),
				X:      sel.Ball.Center.X,
				Y:      sel.Ball.Center.Y,
				Z:      sel.Ball.Center.Z,
				Radius: sel.Ball.Radius,
			})
		}
		resp.Families[i] = members
	}
	return resp
}

func witnessJSON(sc *core.SatelliteConfig) *WitnessJSON {
	out := &WitnessJSON{Centers: make([]PointSpec, 0, len(sc.Radii))}
	for i, c := range sc.Centers {
		out.Centers = append(out.Centers, PointSpec{X: c.X, Y: c.Y, Z: c.Z, Radius: sc.Radii[i]})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
