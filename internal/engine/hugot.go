package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"reviewpulse/internal/models"
)

// HugotEngine runs a local ONNX text-classification pipeline. The model is
// downloaded into modelDir on first use and reused afterwards.
type HugotEngine struct {
	modelID  string
	modelDir string

	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotEngine(modelID, modelDir string) *HugotEngine {
	return &HugotEngine{
		modelID:  modelID,
		modelDir: modelDir,
	}
}

// Init fetches the model if it is not already on disk and builds the
// classification pipeline. Blocking; call once at startup.
func (e *HugotEngine) Init(ctx context.Context) error {
	if err := os.MkdirAll(e.modelDir, os.ModePerm); err != nil {
		return fmt.Errorf("[HugotEngine] failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(e.modelDir, strings.ReplaceAll(e.modelID, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotEngine] Model not found, downloading...",
			slog.String("model", e.modelID))
		downloaded, err := hugot.DownloadModel(e.modelID, e.modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return fmt.Errorf("[HugotEngine] failed to download model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[HugotEngine] Model downloaded successfully",
			slog.String("path", modelPath))
	} else {
		slog.Info("[HugotEngine] Using existing model", slog.String("path", modelPath))
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return fmt.Errorf("[HugotEngine] failed to initialize session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "reviewSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return fmt.Errorf("[HugotEngine] failed to initialize pipeline: %w", err)
	}

	e.mu.Lock()
	e.session = session
	e.pipeline = pipeline
	e.mu.Unlock()

	slog.Info("[HugotEngine] Pipeline ready", slog.String("model", e.modelID))
	return nil
}

func (e *HugotEngine) ModelID() string { return e.modelID }

func (e *HugotEngine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pipeline != nil
}

// Classify runs the pipeline on a single input and returns its label
// scores ranked by descending confidence.
func (e *HugotEngine) Classify(ctx context.Context, text string) ([]models.RawClassification, error) {
	e.mu.RLock()
	pipeline := e.pipeline
	e.mu.RUnlock()

	if pipeline == nil {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("[HugotEngine] pipeline run failed: %w", err)
	}

	raw := output.GetOutput()
	if len(raw) == 0 {
		return nil, nil
	}
	preds, ok := raw[0].([]pipelines.ClassificationOutput)
	if !ok {
		slog.Warn("[HugotEngine] Unexpected output format from pipeline")
		return nil, nil
	}

	ranked := make([]models.RawClassification, 0, len(preds))
	for _, p := range preds {
		ranked = append(ranked, models.RawClassification{
			Label: p.Label,
			Score: float64(p.Score),
		})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	return ranked, nil
}

// Close releases the underlying ONNX runtime session.
func (e *HugotEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
		e.pipeline = nil
	}
}
