package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/model"
	"github.com/utpad/utpad/pkg/store/postgres"
	redisstore "github.com/utpad/utpad/pkg/store/redis"
)

type ParticipationHandler struct {
	repo    *postgres.ParticipationRepository
	loader  *resolverLoader
	reports *redisstore.ReportCache
	logger  *zap.Logger
}

func NewParticipationHandler(repo *postgres.ParticipationRepository, groups *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		repo:    repo,
		loader:  &resolverLoader{groups: groups},
		reports: reports,
		logger:  logger,
	}
}

type participationRequest struct {
	EngineerID uuid.UUID  `json:"engineer_id" binding:"required"`
	OrgGroupID *uuid.UUID `json:"org_group_id"`
	Role       string     `json:"role"`
	Capacity   *float64   `json:"capacity"`
	Published  bool       `json:"published"`
	IsPublic   bool       `json:"is_public"`
}

func (h *ParticipationHandler) List(c *gin.Context) {
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	scope := resolver.RecordListScope(middleware.Principal(c))
	participations, err := h.repo.List(c.Request.Context(), scope)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, participations)
}

func (h *ParticipationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	participation, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanRead(middleware.Principal(c), participation.Ref()) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, participation)
}

func (h *ParticipationHandler) Create(c *gin.Context) {
	if !requireUser(c, middleware.Principal(c)) {
		return
	}
	var req participationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weight := 1.0
	if req.Capacity != nil {
		weight = *req.Capacity
	}
	participation := &model.EngineerOrgGroupParticipation{
		EngineerID: req.EngineerID,
		Role:       req.Role,
		Capacity:   weight,
	}
	participation.OrgGroupID = req.OrgGroupID
	participation.Published = req.Published
	participation.IsPublic = req.IsPublic
	if err := h.repo.Create(c.Request.Context(), participation); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusCreated, participation)
}

func (h *ParticipationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	participation, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanModify(middleware.Principal(c), participation.Ref()) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req participationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	participation.EngineerID = req.EngineerID
	participation.Role = req.Role
	if req.Capacity != nil {
		participation.Capacity = *req.Capacity
	}
	participation.OrgGroupID = req.OrgGroupID
	participation.Published = req.Published
	participation.IsPublic = req.IsPublic
	if err := h.repo.Update(c.Request.Context(), participation); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, participation)
}

func (h *ParticipationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	participation, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanDelete(middleware.Principal(c), participation.Ref()) {
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
