package demo

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"reviewpulse/internal/engine"
	"reviewpulse/internal/models"
	"reviewpulse/internal/session"
)

// LogTransport transmits a built LogRecord best-effort. Satisfied by
// clients.SheetLogClient.
type LogTransport interface {
	Send(ctx context.Context, record models.LogRecord) error
}

// Server is the demo API surface. Dataset load and engine init proceed
// concurrently at startup; the analyze action only opens once both have
// completed (a 2-of-2 readiness gate). A startup failure pins the gate
// shut until the process is restarted.
type Server struct {
	session   *session.Session
	transport LogTransport

	mu           sync.RWMutex
	reviews      []string
	engine       engine.Engine
	datasetReady bool
	engineReady  bool
	startupErr   error
}

func NewServer(transport LogTransport) *Server {
	return &Server{
		session:   session.New(),
		transport: transport,
	}
}

// SetDataset publishes the loaded dataset to the readiness gate.
func (s *Server) SetDataset(reviews []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = reviews
	s.datasetReady = true
}

// SetEngine publishes the initialized inference engine to the gate.
func (s *Server) SetEngine(eng engine.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = eng
	s.engineReady = true
}

// CloseEngine releases engine resources at shutdown for engines that
// hold any. Synchronized with SetEngine, which may run on the startup
// goroutine.
func (s *Server) CloseEngine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if closer, ok := s.engine.(interface{ Close() }); ok {
		closer.Close()
	}
}

// FailStartup records a resource load failure. The analyze action stays
// disabled; there is no in-process recovery.
func (s *Server) FailStartup(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startupErr == nil {
		s.startupErr = err
	}
}

func (s *Server) ready() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetReady && s.engineReady && s.startupErr == nil, s.startupErr
}

// Router builds the gin engine for the demo service.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.handleReady)

	api := router.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/log", s.handleLog)

	return router
}
