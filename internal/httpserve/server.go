// Package httpserve exposes the validator over a small JSON HTTP API.
package httpserve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/uivet/uivet/internal/observability"
	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/validator"
)

const (
	// ValidatePath is the validation endpoint route.
	ValidatePath = "/v1/validate"

	// DefaultMaxBodyBytes caps request bodies at 1 MiB.
	DefaultMaxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// ErrEmptyCode indicates a validation request without code.
var ErrEmptyCode = errors.New("code field is required")

// ValidateRequest is the JSON body of a validation request.
type ValidateRequest struct {
	Code      string `json:"code"`
	Framework string `json:"framework"`
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Options configures the HTTP server. Zero-value collaborator fields
// use production defaults.
type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxBodyBytes    int64
	Validator       *validator.Validator
	Logger          *slog.Logger
	Metrics         *observability.REDMetrics
	Tracer          trace.Tracer
	MetricsEndpoint bool
}

// Server serves validation requests over HTTP.
type Server struct {
	httpServer   *http.Server
	validator    *validator.Validator
	logger       *slog.Logger
	metrics      *observability.REDMetrics
	maxBodyBytes int64
	listener     net.Listener
	ready        chan struct{}
}

// New builds a Server from options. It does not start listening.
func New(opts Options) (*Server, error) {
	v := opts.Validator
	if v == nil {
		v = validator.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	srv := &Server{
		validator:    v,
		logger:       logger,
		metrics:      opts.Metrics,
		maxBodyBytes: maxBody,
		ready:        make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.Handle(ValidatePath, http.HandlerFunc(srv.handleValidate))
	mux.Handle("/healthz", observability.HealthHandler())
	mux.Handle("/readyz", observability.ReadyHandler())

	if opts.MetricsEndpoint {
		promHandler, err := observability.PrometheusHandler()
		if err != nil {
			return nil, fmt.Errorf("prometheus handler: %w", err)
		}

		mux.Handle("/metrics", promHandler)
	}

	var handler http.Handler = mux
	if opts.Tracer != nil {
		handler = observability.HTTPMiddleware(opts.Tracer, handler)
	}

	srv.httpServer = &http.Server{
		Addr:         net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	return srv, nil
}

// Handler returns the root HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts listening and blocks until the context is canceled, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	listener, listenErr := net.Listen("tcp", s.httpServer.Addr)
	if listenErr != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, listenErr)
	}

	s.listener = listener
	close(s.ready)

	s.logger.Info("http server listening", slog.String("addr", listener.Addr().String()))

	serveErrCh := make(chan error, 1)

	go func() {
		serveErrCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := s.httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			return fmt.Errorf("http server shutdown: %w", shutdownErr)
		}

		return nil
	case serveErr := <-serveErrCh:
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", serveErr)
		}

		return nil
	}
}

// Ready is closed once the listener is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address once Ready is closed, or the
// configured address before Run is called.
func (s *Server) Addr() string {
	select {
	case <-s.ready:
		return s.listener.Addr().String()
	default:
		return s.httpServer.Addr
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")

		return
	}

	start := time.Now()

	if s.metrics != nil {
		decInflight := s.metrics.TrackInflight(r.Context(), "http.validate")
		defer decInflight()
	}

	req, decodeErr := s.decodeRequest(w, r)
	if decodeErr != nil {
		s.recordValidate(r.Context(), "error", start)

		return
	}

	fw, parseErr := frameworks.Parse(req.Framework)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, parseErr.Error())
		s.recordValidate(r.Context(), "error", start)

		return
	}

	result, validateErr := s.validator.ValidateE(r.Context(), req.Code, fw)
	if validateErr != nil {
		s.logger.Error("validation failed",
			slog.String("framework", fw.String()),
			slog.Any("error", validateErr))
		writeError(w, http.StatusInternalServerError, "validation failed")
		s.recordValidate(r.Context(), "error", start)

		return
	}

	s.logger.Debug("validated snippet",
		slog.String("framework", fw.String()),
		slog.Bool("valid", result.Valid),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)))

	writeJSON(w, http.StatusOK, result)
	s.recordValidate(r.Context(), "ok", start)
}

// decodeRequest reads and validates the request body. On failure the
// error response has already been written.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (ValidateRequest, error) {
	var req ValidateRequest

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	decodeErr := json.NewDecoder(r.Body).Decode(&req)
	if decodeErr != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(decodeErr, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", s.maxBodyBytes))

			return req, decodeErr
		}

		writeError(w, http.StatusBadRequest, "malformed JSON body")

		return req, decodeErr
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, ErrEmptyCode.Error())

		return req, ErrEmptyCode
	}

	return req, nil
}

func (s *Server) recordValidate(ctx context.Context, status string, start time.Time) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordValidation(ctx, "http.validate", status, time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
