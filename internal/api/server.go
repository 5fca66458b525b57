package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/carshape/internal/catalog"
	"github.com/samcharles93/carshape/internal/logger"
	"github.com/samcharles93/carshape/pkg/problem"
)

// HeaderRequestID carries the uuid assigned to every request.
const HeaderRequestID = "X-Request-ID"

// ServerConfig configures NewServer. A nil Logger discards output.
type ServerConfig struct {
	ProblemsDir    string
	DefaultVariant problem.Variant
	LoaderOptions  []problem.Option
	Logger         logger.Logger
}

// Server exposes the problem catalog read-only over HTTP.
type Server struct {
	dir            string
	defaultVariant problem.Variant
	store          *ProblemStore
	log            logger.Logger
}

// NewServer builds a server over the problems directory.
func NewServer(cfg ServerConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	opts := append([]problem.Option{problem.WithLogger(log)}, cfg.LoaderOptions...)
	return &Server{
		dir:            cfg.ProblemsDir,
		defaultVariant: cfg.DefaultVariant,
		store:          NewProblemStore(opts...),
		log:            log,
	}
}

// Register mounts the /v1/problems routes and the request ID middleware on e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID)
	e.GET("/v1/problems", s.handleListProblems)
	e.GET("/v1/problems/:name", s.handleGetProblem)
	e.GET("/v1/problems/:name/views/:view", s.handleGetView)
}

// Close empties the problem cache.
func (s *Server) Close() error {
	return s.store.Close()
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Response().Header().Set(HeaderRequestID, id)
		return next(c)
	}
}

func (s *Server) handleListProblems(c *echo.Context) error {
	entries, err := catalog.Discover(s.dir)
	if err != nil {
		s.log.Error("catalog discovery failed", "dir", s.dir, "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", "problem catalog unavailable")
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return c.JSON(http.StatusOK, ProblemList{Object: "list", Data: entries})
}

func (s *Server) handleGetProblem(c *echo.Context) error {
	name := c.Param("name")
	p, err := s.load(c, name)
	if err != nil {
		return s.writeLoadError(c, name, err)
	}
	return c.JSON(http.StatusOK, ProblemSummary{
		Name:    name,
		HasPose: p.HasPose(),
		Layout:  p.Layout(),
	})
}

func (s *Server) handleGetView(c *echo.Context) error {
	name := c.Param("name")
	view, err := strconv.Atoi(c.Param("view"))
	if err != nil || view < 0 {
		return writeBadRequest(c, fmt.Sprintf("invalid view %q", c.Param("view")))
	}
	p, err := s.load(c, name)
	if err != nil {
		return s.writeLoadError(c, name, err)
	}
	if view >= p.NumViews() {
		return writeBadRequest(c, fmt.Sprintf("view %d out of range [0,%d)", view, p.NumViews()))
	}
	out, err := summarizeView(name, p, view)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) load(c *echo.Context, name string) (*problem.Problem, error) {
	variant := s.defaultVariant
	if q := c.QueryParam("variant"); q != "" {
		v, err := problem.ParseVariant(q)
		if err != nil {
			return nil, err
		}
		variant = v
	}
	entry, err := catalog.Resolve(s.dir, name)
	if err != nil {
		return nil, err
	}
	s.log.Debug("loading problem",
		"name", name,
		"variant", variant.String(),
		"request_id", c.Response().Header().Get(HeaderRequestID),
	)
	return s.store.Get(c.Request().Context(), entry.Path, variant)
}

func (s *Server) writeLoadError(c *echo.Context, name string, err error) error {
	var perr *problem.ParseError
	switch {
	case errors.Is(err, problem.ErrUnknownVariant), errors.Is(err, catalog.ErrInvalidName):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return writeNotFound(c, fmt.Sprintf("problem %q not found", name))
	case errors.As(err, &perr):
		s.log.Warn("invalid data file", "name", name, "field", perr.Field, "line", perr.Line)
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": ErrorBody{
			Message: perr.Error(),
			Type:    "invalid_data_file",
			Field:   perr.Field,
			Line:    perr.Line,
		}})
	default:
		s.log.Error("problem load failed", "name", name, "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func summarizeView(name string, p *problem.Problem, v int) (ViewSummary, error) {
	k, err := p.View(problem.EntityIntrinsics, v)
	if err != nil {
		return ViewSummary{}, err
	}
	center, err := p.View(problem.EntityCenter, v)
	if err != nil {
		return ViewSummary{}, err
	}
	out := ViewSummary{
		Name:         name,
		Variant:      p.Variant().String(),
		View:         v,
		Intrinsics:   append([]float64(nil), k...),
		CarCenter:    append([]float64(nil), center...),
		Observations: p.NumObservations(),
	}
	if w, err := p.View(problem.EntityWeights, v); err == nil {
		for _, x := range w {
			out.WeightSum += x
		}
	}
	if p.HasPose() {
		r, err := p.Rotation(v)
		if err != nil {
			return ViewSummary{}, err
		}
		t, err := p.Translation(v)
		if err != nil {
			return ViewSummary{}, err
		}
		out.Rotation = r.Snapshot()
		out.Translation = t.Snapshot()
	}
	return out, nil
}
