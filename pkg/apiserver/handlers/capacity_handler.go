package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/capacity"
	"github.com/utpad/utpad/pkg/metrics"
	"github.com/utpad/utpad/pkg/store/postgres"
	redisstore "github.com/utpad/utpad/pkg/store/redis"
)

type CapacityHandler struct {
	engine    *capacity.Engine
	engineers *postgres.EngineerRepository
	loader    *resolverLoader
	reports   *redisstore.ReportCache
	logger    *zap.Logger
}

func NewCapacityHandler(engine *capacity.Engine, engineers *postgres.EngineerRepository, groups *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *CapacityHandler {
	return &CapacityHandler{
		engine:    engine,
		engineers: engineers,
		loader:    &resolverLoader{groups: groups},
		reports:   reports,
		logger:    logger,
	}
}

// ForGroup reports capacity for a group and every transitive sub-group, one
// independent entry per group keyed by name. Sub-group figures are not summed
// into parents; consumers roll up as they see fit.
func (h *CapacityHandler) ForGroup(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	groupID, err := uuid.Parse(c.Query("org_group"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid parameter org_group"})
		return
	}
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	_, catalog, ok := h.loader.load(c)
	if !ok {
		return
	}
	if _, found := catalog.Group(groupID); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "org group not found"})
		return
	}

	cacheKey := fmt.Sprintf("group:%s:%s:%s", groupID, capacity.DateKey(from), capacity.DateKey(to))
	cached := map[string]*capacity.GroupCapacity{}
	if hit, err := h.reports.Get(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		metrics.CapacityCacheLookups.WithLabelValues("hit").Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	metrics.CapacityCacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	ids, err := catalog.Index().Descendants(groupID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	result := make(map[string]*capacity.GroupCapacity, len(ids))
	for _, id := range ids {
		group, found := catalog.Group(id)
		if !found {
			continue
		}
		report, err := h.engine.ForGroup(c.Request.Context(), id, from, to)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		result[group.Name] = report
	}
	metrics.CapacityReportDuration.WithLabelValues("group").Observe(time.Since(start).Seconds())

	if err := h.reports.Set(c.Request.Context(), cacheKey, result); err != nil {
		h.logger.Warn("failed to cache capacity report", zap.Error(err))
	}
	c.JSON(http.StatusOK, result)
}

func (h *CapacityHandler) ForEngineer(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	engineerID, err := uuid.Parse(c.Query("engineer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid parameter engineer"})
		return
	}
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	engineer, err := h.engineers.GetByID(c.Request.Context(), engineerID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	cacheKey := fmt.Sprintf("engineer:%s:%s:%s", engineerID, capacity.DateKey(from), capacity.DateKey(to))
	var cached capacity.EngineerReport
	if hit, err := h.reports.Get(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		metrics.CapacityCacheLookups.WithLabelValues("hit").Inc()
		c.JSON(http.StatusOK, &cached)
		return
	}
	metrics.CapacityCacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	report, err := h.engine.ForEngineer(c.Request.Context(), engineer, from, to)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	metrics.CapacityReportDuration.WithLabelValues("engineer").Observe(time.Since(start).Seconds())

	if err := h.reports.Set(c.Request.Context(), cacheKey, report); err != nil {
		h.logger.Warn("failed to cache capacity report", zap.Error(err))
	}
	c.JSON(http.StatusOK, report)
}
