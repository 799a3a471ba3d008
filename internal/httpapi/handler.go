// Package httpapi exposes internal/buildopt's optimizer as a job-submission
// HTTP API: POST a settings payload, poll or stream for progress, fetch the
// ranked BuildContainer results once the search finishes. The core search
// itself stays synchronous and side-effect-free; this package is the
// ambient job queue wrapped around it.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cafe1231/loadout-optimizer/internal/buildopt"
	"github.com/cafe1231/loadout-optimizer/internal/config"
	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/contentstore"
	"github.com/cafe1231/loadout-optimizer/internal/jobstore"
	"github.com/cafe1231/loadout-optimizer/internal/monitoring"
	"github.com/cafe1231/loadout-optimizer/internal/wsprogress"
)

// Handler owns every dependency the optimize routes need: the content
// catalog, the job store, the progress hub and the optimizer's own
// defaults.
type Handler struct {
	content *contentstore.Store
	jobs    jobstore.Store
	hub     *wsprogress.Hub
	cfg     config.OptimizerConfig
}

// NewHandler wires a Handler from its dependencies.
func NewHandler(contentStore *contentstore.Store, jobs jobstore.Store, hub *wsprogress.Hub, cfg config.OptimizerConfig) *Handler {
	return &Handler{content: contentStore, jobs: jobs, hub: hub, cfg: cfg}
}

// RegisterRoutes mounts every optimize route under the supplied router
// group (already carrying auth/rate-limit middleware per cmd/main.go).
func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	rg.POST("/optimize", h.SubmitOptimize)
	rg.GET("/optimize/:id", h.GetOptimize)
	rg.GET("/optimize/:id/stream", h.hub.Handler)
}

// SubmitOptimize validates an OptimizeRequest, persists a queued job, and
// runs the search in a background goroutine so the HTTP call returns
// immediately with a job ID to poll or stream.
func (h *Handler) SubmitOptimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	target, ok := targetDummy(req.TargetDummy)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target_dummy"})
		return
	}

	pool, err := h.resolvePool(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	physDmgTakenPercent := req.PhysDmgTakenPercent
	if physDmgTakenPercent <= 0 {
		physDmgTakenPercent = h.cfg.DefaultPhysDmgTaken
	}

	settings := buildopt.Settings{
		Pool:                pool,
		BaseStats:           req.BaseStats,
		Runes:               content.RunePage{Name: "job_runes", Stats: req.RuneStats},
		Scenario:            resolveScenario(req.UnitID, 1),
		Target:              target,
		MandatoryItems:      req.MandatoryItems,
		MaxUnitItems:        req.NItems,
		SearchThreshold:     req.SearchThreshold,
		FightDuration:       req.FightDuration,
		JudgmentWeights:     req.JudgmentWeights.toBuildopt(),
		PhysDmgTakenPercent: physDmgTakenPercent,
		Workers:             h.cfg.Workers,
	}
	if err := settings.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settingsJSON, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode settings"})
		return
	}

	job := &jobstore.Job{
		ID:       uuid.New(),
		ClientID: c.GetString("client_id"),
		UnitID:   req.UnitID,
		Settings: settingsJSON,
	}
	if err := h.jobs.Create(job); err != nil {
		logrus.WithError(err).Error("httpapi: failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue job"})
		return
	}

	monitoring.JobsSubmittedTotal.WithLabelValues(req.UnitID).Inc()
	go h.runJob(job.ID, req.UnitID, settings)

	c.JSON(http.StatusAccepted, gin.H{"id": job.ID.String(), "status": jobstore.StatusQueued})
}

// runJob executes the search and records the outcome; it owns the job's
// entire lifecycle after submission returns, including publishing
// per-layer progress to the websocket hub.
func (h *Handler) runJob(jobID uuid.UUID, unitID string, settings buildopt.Settings) {
	start := time.Now()
	if err := h.jobs.MarkRunning(jobID); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Error("httpapi: failed to mark job running")
	}

	settings.OnLayerComplete = func(slot, survivors int, bestScore float64) {
		h.hub.Publish(jobID, wsprogress.LayerEvent{
			Type: wsprogress.EventLayer, JobID: jobID.String(),
			Slot: slot, Survivors: survivors, BestScore: bestScore,
		})
	}

	results, err := buildopt.FindBestBuilds(settings)
	monitoring.JobDuration.WithLabelValues(unitID).Observe(time.Since(start).Seconds())

	if err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Warn("httpapi: optimize job failed")
		if markErr := h.jobs.MarkFailed(jobID, err); markErr != nil {
			logrus.WithError(markErr).Error("httpapi: failed to mark job failed")
		}
		h.hub.Publish(jobID, wsprogress.LayerEvent{Type: wsprogress.EventFailed, JobID: jobID.String(), Error: err.Error()})
		return
	}

	layers := settings.MaxUnitItems - len(settings.MandatoryItems)
	monitoring.LayersExplored.WithLabelValues(unitID).Observe(float64(layers))
	if err := h.jobs.MarkSucceeded(jobID, results, settings.JudgmentWeights, layers); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Error("httpapi: failed to persist job results")
	}
	h.hub.Publish(jobID, wsprogress.LayerEvent{Type: wsprogress.EventDone, JobID: jobID.String()})
}

// GetOptimize returns a job's current status and, once succeeded, its
// ranked build results.
func (h *Handler) GetOptimize(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.jobs.Get(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	resp := JobResponse{ID: job.ID.String(), Status: string(job.Status), LayersExplored: job.LayersExplored}
	if job.Error != nil {
		resp.Error = *job.Error
	}

	if job.Status == jobstore.StatusSucceeded {
		results, err := h.jobs.Results(jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load results"})
			return
		}
		resp.Results = make([]BuildResultPayload, len(results))
		for i, r := range results {
			resp.Results[i] = BuildResultPayload{
				Rank: r.Rank, ItemIDs: r.ItemIDs, Gold: r.Gold,
				DPS: r.DPS, EffectiveHP: r.EffectiveHP, MoveSpeed: r.MoveSpeed, Score: r.Score,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// resolvePool merges the request's legendary/boots/support pools and
// mandatory items into one content.Pool for buildopt to search over.
// content.Pool.CanAdd already enforces the boots-exclusivity and
// item-group-exclusivity invariants regardless of which list an item came
// from; per-slot pool restriction (only offer boots in the boots slot, and
// so on) is not modeled here and is a known simplification.
func (h *Handler) resolvePool(req OptimizeRequest) (*content.Pool, error) {
	ids := make([]string, 0, len(req.LegendaryItemsPool)+len(req.BootsPool)+len(req.SupportItemsPool)+len(req.MandatoryItems))
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	add(req.LegendaryItemsPool)
	add(req.BootsPool)
	add(req.SupportItemsPool)
	add(req.MandatoryItems)

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one of legendary_items_pool, boots_pool, support_items_pool must be non-empty")
	}

	items, err := h.content.LoadByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("resolving item pool: %w", err)
	}
	return content.NewPool(items), nil
}
