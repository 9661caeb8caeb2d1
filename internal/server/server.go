// Package server exposes the jsonease operations over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/iilei/jsonease/pkg/config"
	"github.com/iilei/jsonease/pkg/convert"
	"github.com/iilei/jsonease/pkg/jsonease"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Server routes API requests to fresh core invocations. It holds no mutable
// state and is safe for concurrent use.
type Server struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	router   *mux.Router
	handler  http.Handler
	convert  *convert.Service
	validate *validator.Validate
}

// New builds the API for cfg. A nil logger discards logs.
func New(cfg *config.Config, logger *zap.SugaredLogger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	v, err := config.NewValidator()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		router:   mux.NewRouter(),
		convert:  convert.NewService(),
		validate: v,
	}

	s.router.Use(s.logRequests)
	s.registerRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.handler = c.Handler(s.router)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/format", s.handleFormat).Methods(http.MethodPost)
	api.HandleFunc("/minify", s.handleMinify).Methods(http.MethodPost)
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/repair", s.handleRepair).Methods(http.MethodPost)
	api.HandleFunc("/tree", s.handleTree).Methods(http.MethodPost)
	api.HandleFunc("/convert/{format}", s.handleConvert).Methods(http.MethodPost)
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// decode reads a JSON request body into dst and validates it. Failures are
// written as 400 responses and reported with ok=false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.badRequest(w, "malformed request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.badRequest(w, "invalid field "+verrs[0].Field()+" ("+verrs[0].Tag()+")")
			return false
		}
		s.badRequest(w, err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warnw("encoding response", "error", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// fail writes err as a 422 diagnosis when it maps onto one, and as a 500
// otherwise.
func (s *Server) fail(w http.ResponseWriter, err error) {
	d := jsonease.DiagnosisOf(err)
	if d == nil {
		s.log.Errorw("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, response{Diagnosis: newDiagnosisBody(d)})
}
