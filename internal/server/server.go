package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pairlens/pairlens/internal/config"
	"github.com/pairlens/pairlens/internal/core"
	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/llm"
	"github.com/pairlens/pairlens/internal/store"
)

// Worker counts outside [1,20] are clamped here, before reaching the
// dispatcher.
const (
	minParallel     = 1
	maxParallel     = 20
	defaultParallel = 4

	logicalRunsCacheTTL = 30 * time.Second
)

type Server struct {
	Evaluator  *core.Evaluator
	DatasetTab string
	Parallel   int

	cache *gocache.Cache
}

// NewServer wires the full pipeline from config and environment. It exits
// the process on unusable configuration, matching how the service is
// deployed (fail fast, restart clean).
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyEnvOverrides()

	if cfg.Sheets.SpreadsheetID == "" {
		log.Fatalf("No spreadsheet configured: set sheets.spreadsheet_id or SPREADSHEET_ID")
	}

	ctx := context.Background()

	st, err := store.NewSheetsStore(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SettingsTab, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize sheets store: %v", err)
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	return &Server{
		Evaluator:  core.NewEvaluator(st, llmClient, cfg.LLM.Model, nil),
		DatasetTab: cfg.Sheets.DatasetTab,
		Parallel:   cfg.Pipeline.Parallel,
		cache:      gocache.New(logicalRunsCacheTTL, time.Minute),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/api/runs/chunk", s.RunChunk)
	r.GET("/api/runs/logical", s.LogicalRuns)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ChunkRequest struct {
	Tab      string `json:"tab"`
	Mode     string `json:"mode"`
	Limit    *int   `json:"limit"`
	Parallel int    `json:"parallel"`
}

// RunChunk invokes one chunk of the pipeline. The caller loops on the
// response: done=true means no further invocation is needed.
func (s *Server) RunChunk(c *gin.Context) {
	var req ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tab := req.Tab
	if tab == "" {
		tab = s.DatasetTab
	}

	limit := -1
	if req.Limit != nil && *req.Limit >= 0 {
		limit = *req.Limit
	}

	parallel := req.Parallel
	if parallel == 0 {
		parallel = s.Parallel
	}
	if parallel == 0 {
		parallel = defaultParallel
	}
	if parallel < minParallel {
		parallel = minParallel
	}
	if parallel > maxParallel {
		parallel = maxParallel
	}

	report, err := s.Evaluator.RunChunk(c.Request.Context(), core.ChunkRequest{
		Tab:      tab,
		Mode:     mode,
		Limit:    limit,
		Parallel: parallel,
	})
	if err != nil {
		log.Printf("Chunk invocation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invocation_id":  report.InvocationID,
		"model":          report.Model,
		"processed":      report.Processed,
		"pending_before": report.PendingBefore,
		"metrics":        report.Metrics,
		"done":           report.Done(),
	})
}

// LogicalRuns returns the reconstructed logical runs for a mode. Responses
// are cached briefly: reconstruction re-reads the whole log partition.
func (s *Server) LogicalRuns(c *gin.Context) {
	mode, err := parseMode(c.DefaultQuery("mode", string(model.ModeProduction)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cacheKey := "logical-runs:" + string(mode)
	if cached, ok := s.cache.Get(cacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"runs": cached})
		return
	}

	runs, err := s.Evaluator.LogicalRuns(c.Request.Context(), mode)
	if err != nil {
		log.Printf("Failed to reconstruct logical runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read run log"})
		return
	}

	s.cache.Set(cacheKey, runs, gocache.DefaultExpiration)
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseMode(v string) (model.Mode, error) {
	switch model.Mode(v) {
	case model.ModeProduction, "":
		return model.ModeProduction, nil
	case model.ModeTesting:
		return model.ModeTesting, nil
	}
	return "", fmt.Errorf("unknown mode %q", v)
}
