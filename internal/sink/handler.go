package sink

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewpulse/internal/models"
)

// Handler serves the log endpoint: parse the record, append one row,
// acknowledge with the row index. Dedupe and mirror are optional.
type Handler struct {
	store  Store
	dedupe Deduper
	mirror Mirror
}

func NewHandler(store Store, dedupe Deduper, mirror Mirror) *Handler {
	return &Handler{store: store, dedupe: dedupe, mirror: mirror}
}

// NewRouter builds the gin engine for the sink service.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/log", h.HandleLog)
	return engine
}

func (h *Handler) HandleLog(c *gin.Context) {
	var record models.LogRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		slog.Warn("[Sink] Rejected malformed record", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, models.SinkAck{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	ctx := c.Request.Context()

	if h.dedupe != nil && h.dedupe.Seen(ctx, record) {
		slog.Info("[Sink] Duplicate record ignored")
		c.JSON(http.StatusOK, models.SinkAck{
			Success: true,
			Message: "Duplicate record ignored",
		})
		return
	}

	row, err := h.store.Append(ctx, record)
	if err != nil {
		slog.Error("[Sink] Append failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.SinkAck{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if h.dedupe != nil {
		if err := h.dedupe.Mark(ctx, record); err != nil {
			slog.Warn("[Sink] Failed to mark record as seen",
				slog.String("error", err.Error()))
		}
	}
	if h.mirror != nil {
		if err := h.mirror.Publish(record); err != nil {
			slog.Warn("[Sink] Mirror publish failed",
				slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, models.SinkAck{
		Success: true,
		Message: "Logged",
		Row:     row,
	})
}
