package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/authz"
	"github.com/utpad/utpad/pkg/capacity"
	"github.com/utpad/utpad/pkg/model"
	"github.com/utpad/utpad/pkg/store/postgres"
	redisstore "github.com/utpad/utpad/pkg/store/redis"
)

// Site holidays delegate authorization to their site's org group owners.
// A holiday without a site is only reachable by superusers.
type SiteHolidayHandler struct {
	repo    *postgres.SiteHolidayRepository
	loader  *resolverLoader
	reports *redisstore.ReportCache
	logger  *zap.Logger
}

func NewSiteHolidayHandler(repo *postgres.SiteHolidayRepository, groups *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *SiteHolidayHandler {
	return &SiteHolidayHandler{
		repo:    repo,
		loader:  &resolverLoader{groups: groups},
		reports: reports,
		logger:  logger,
	}
}

type holidayRequest struct {
	Name    string     `json:"name" binding:"required"`
	Date    string     `json:"date" binding:"required"`
	Summary string     `json:"summary"`
	SiteID  *uuid.UUID `json:"site_id"`
}

func holidayAccessible(resolver *authz.Resolver, u *model.User, holiday *model.SiteHoliday) bool {
	if holiday.Site == nil {
		return false
	}
	return resolver.IsOwner(u, holiday.Site.Ref())
}

func (h *SiteHolidayHandler) List(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	holidays, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	visible := make([]model.SiteHoliday, 0, len(holidays))
	for i := range holidays {
		if user.IsSuperuser || holidayAccessible(resolver, user, &holidays[i]) {
			visible = append(visible, holidays[i])
		}
	}
	c.JSON(http.StatusOK, visible)
}

func (h *SiteHolidayHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	holiday, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !holidayAccessible(resolver, middleware.Principal(c), holiday) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, holiday)
}

func (h *SiteHolidayHandler) Create(c *gin.Context) {
	if !requireUser(c, middleware.Principal(c)) {
		return
	}
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(capacity.DateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	holiday := &model.SiteHoliday{
		Name:    req.Name,
		Date:    date,
		Summary: req.Summary,
		SiteID:  req.SiteID,
	}
	if err := h.repo.Create(c.Request.Context(), holiday); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusCreated, holiday)
}

func (h *SiteHolidayHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	holiday, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !holidayAccessible(resolver, middleware.Principal(c), holiday) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation(capacity.DateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	holiday.Name = req.Name
	holiday.Date = date
	holiday.Summary = req.Summary
	holiday.SiteID = req.SiteID
	if err := h.repo.Update(c.Request.Context(), holiday); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, holiday)
}

func (h *SiteHolidayHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	holiday, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !holidayAccessible(resolver, middleware.Principal(c), holiday) {
		denied(c, "delete")
		return
	}
	allowed("delete")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}
