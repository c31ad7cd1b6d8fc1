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

type OrgGroupHandler struct {
	repo    *postgres.OrgGroupRepository
	loader  *resolverLoader
	reports *redisstore.ReportCache
	logger  *zap.Logger
}

func NewOrgGroupHandler(repo *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *OrgGroupHandler {
	return &OrgGroupHandler{
		repo:    repo,
		loader:  &resolverLoader{groups: repo},
		reports: reports,
		logger:  logger,
	}
}

type orgGroupRequest struct {
	Name        string     `json:"name" binding:"required"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Published   bool       `json:"published"`
	IsPublic    bool       `json:"is_public"`
}

func (h *OrgGroupHandler) List(c *gin.Context) {
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	scope := resolver.GroupListScope(middleware.Principal(c))
	groups, err := h.repo.List(c.Request.Context(), scope)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *OrgGroupHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resolver, catalog, ok := h.loader.load(c)
	if !ok {
		return
	}
	group, found := catalog.Group(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !resolver.CanRead(middleware.Principal(c), group.Ref()) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, group)
}

// Tree returns the group plus its transitive sub-groups in depth-first
// order.
func (h *OrgGroupHandler) Tree(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resolver, catalog, ok := h.loader.load(c)
	if !ok {
		return
	}
	group, found := catalog.Group(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !resolver.CanRead(middleware.Principal(c), group.Ref()) {
		denied(c, "read")
		return
	}
	allowed("read")
	ids, err := catalog.Index().Descendants(id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	tree := make([]*model.OrgGroup, 0, len(ids))
	for _, sub := range ids {
		if g, found := catalog.Group(sub); found {
			tree = append(tree, g)
		}
	}
	c.JSON(http.StatusOK, tree)
}

func (h *OrgGroupHandler) Create(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	var req orgGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group := &model.OrgGroup{
		Name:        req.Name,
		Summary:     req.Summary,
		Description: req.Description,
		ParentID:    req.ParentID,
		Published:   req.Published,
		IsPublic:    req.IsPublic,
	}
	if err := h.repo.Create(c.Request.Context(), group); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusCreated, group)
}

func (h *OrgGroupHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resolver, catalog, ok := h.loader.load(c)
	if !ok {
		return
	}
	group, found := catalog.Group(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !resolver.CanModify(middleware.Principal(c), group.Ref()) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req orgGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group.Name = req.Name
	group.Summary = req.Summary
	group.Description = req.Description
	group.ParentID = req.ParentID
	group.Published = req.Published
	group.IsPublic = req.IsPublic
	if err := h.repo.Update(c.Request.Context(), group); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, group)
}

func (h *OrgGroupHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resolver, catalog, ok := h.loader.load(c)
	if !ok {
		return
	}
	group, found := catalog.Group(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !resolver.CanDelete(middleware.Principal(c), group.Ref()) {
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
