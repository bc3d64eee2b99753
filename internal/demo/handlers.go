package demo

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewpulse/internal/clients"
	"reviewpulse/internal/dataset"
	"reviewpulse/internal/engine"
	"reviewpulse/internal/models"
	"reviewpulse/internal/sentiment"
	"reviewpulse/internal/session"
)

func (s *Server) handleReady(c *gin.Context) {
	s.mu.RLock()
	status := gin.H{
		"dataset": s.datasetReady,
		"engine":  s.engineReady,
	}
	startupErr := s.startupErr
	s.mu.RUnlock()

	if startupErr != nil {
		status["error"] = startupErr.Error()
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	ready, _ := s.ready()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

type analyzeResponse struct {
	Review    string                 `json:"review"`
	Result    models.SentimentResult `json:"result"`
	Timestamp string                 `json:"timestamp"`
}

// handleAnalyze draws one random review, classifies it, and makes it the
// current analysis. Errors are terminal to this action only; the caller
// can simply try again.
func (s *Server) handleAnalyze(c *gin.Context) {
	ready, startupErr := s.ready()
	if !ready {
		msg := "service is still starting up"
		if startupErr != nil {
			msg = "startup failed, restart required: " + startupErr.Error()
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
		return
	}

	s.mu.RLock()
	reviews := s.reviews
	eng := s.engine
	s.mu.RUnlock()

	review, err := dataset.PickRandom(reviews)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := sentiment.Classify(c.Request.Context(), review, eng)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, engine.ErrNotReady):
			status = http.StatusServiceUnavailable
		case errors.Is(err, sentiment.ErrInvalidEngineOutput):
			status = http.StatusBadGateway
		case errors.Is(err, sentiment.ErrInvalidInput):
			status = http.StatusUnprocessableEntity
		}
		slog.Error("[Demo] Analysis failed", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	analysis := s.session.SetCurrent(review, result)

	slog.Info("[Demo] Review analyzed",
		slog.String("sentiment", string(result.Sentiment)),
		slog.String("confidence", result.ConfidencePercent))

	c.JSON(http.StatusOK, analyzeResponse{
		Review:    analysis.ReviewText,
		Result:    analysis.Result,
		Timestamp: analysis.TimestampISO,
	})
}

type logRequest struct {
	Screen   string `json:"screen"`
	Platform string `json:"platform"`
}

// handleLog builds a LogRecord from the current analysis and transmits it
// fire-and-forget. A 202 means "handed to the transport", never
// "delivered": the endpoint's response is opaque by contract.
func (s *Server) handleLog(c *gin.Context) {
	var req logRequest
	// Body is optional; headers cover the rest of the metadata.
	_ = c.ShouldBindJSON(&req)

	meta := models.ClientMetadata{
		UserAgent: c.GetHeader("User-Agent"),
		Language:  c.GetHeader("Accept-Language"),
		Platform:  req.Platform,
		Screen:    req.Screen,
	}
	if meta.Platform == "" {
		meta.Platform = c.GetHeader("Sec-CH-UA-Platform")
	}

	s.mu.RLock()
	reviewCount := len(s.reviews)
	var modelID string
	if s.engine != nil {
		modelID = s.engine.ModelID()
	}
	s.mu.RUnlock()

	record, err := s.session.BuildLogRecord(meta, modelID, reviewCount)
	if err != nil {
		if errors.Is(err, session.ErrNoAnalysisAvailable) {
			c.JSON(http.StatusConflict, gin.H{"error": "analyze a review before logging"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.transport.Send(c.Request.Context(), record); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, clients.ErrEndpointUnreachable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"queued":    true,
		"confirmed": false,
	})
}
