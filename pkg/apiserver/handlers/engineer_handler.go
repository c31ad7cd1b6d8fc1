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

type EngineerHandler struct {
	repo    *postgres.EngineerRepository
	loader  *resolverLoader
	reports *redisstore.ReportCache
	logger  *zap.Logger
}

func NewEngineerHandler(repo *postgres.EngineerRepository, groups *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *EngineerHandler {
	return &EngineerHandler{
		repo:    repo,
		loader:  &resolverLoader{groups: groups},
		reports: reports,
		logger:  logger,
	}
}

type engineerRequest struct {
	EmployeeID string     `json:"employee_id"`
	Name       string     `json:"name" binding:"required"`
	UserID     *uuid.UUID `json:"user_id"`
	Role       string     `json:"role"`
	SiteID     *uuid.UUID `json:"site_id"`
	OrgGroupID *uuid.UUID `json:"org_group_id"`
	Points     float64    `json:"points"`
	Published  bool       `json:"published"`
	IsPublic   bool       `json:"is_public"`
}

func (h *EngineerHandler) List(c *gin.Context) {
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	scope := resolver.RecordListScope(middleware.Principal(c))
	engineers, err := h.repo.List(c.Request.Context(), scope)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, engineers)
}

func (h *EngineerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	engineer, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanRead(middleware.Principal(c), engineer.Ref()) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, engineer)
}

func (h *EngineerHandler) Create(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	var req engineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	engineer := &model.Engineer{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		UserID:     req.UserID,
		Role:       req.Role,
		SiteID:     req.SiteID,
		Points:     req.Points,
	}
	engineer.OrgGroupID = req.OrgGroupID
	engineer.Published = req.Published
	engineer.IsPublic = req.IsPublic
	if err := h.repo.Create(c.Request.Context(), engineer); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, engineer)
}

func (h *EngineerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	engineer, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanModify(middleware.Principal(c), engineer.Ref()) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req engineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	engineer.EmployeeID = req.EmployeeID
	engineer.Name = req.Name
	engineer.UserID = req.UserID
	engineer.Role = req.Role
	engineer.SiteID = req.SiteID
	engineer.Points = req.Points
	engineer.OrgGroupID = req.OrgGroupID
	engineer.Published = req.Published
	engineer.IsPublic = req.IsPublic
	if err := h.repo.Update(c.Request.Context(), engineer); err != nil {
		respondStoreError(c, err)
		return
	}
	// A site change shifts which holidays apply.
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, engineer)
}

func (h *EngineerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	engineer, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanDelete(middleware.Principal(c), engineer.Ref()) {
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
