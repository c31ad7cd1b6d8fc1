package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/model"
	"github.com/utpad/utpad/pkg/store/postgres"
)

type SiteHandler struct {
	repo   *postgres.SiteRepository
	loader *resolverLoader
	logger *zap.Logger
}

func NewSiteHandler(repo *postgres.SiteRepository, groups *postgres.OrgGroupRepository, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		repo:   repo,
		loader: &resolverLoader{groups: groups},
		logger: logger,
	}
}

type siteRequest struct {
	Name       string     `json:"name" binding:"required"`
	Summary    string     `json:"summary"`
	OrgGroupID *uuid.UUID `json:"org_group_id"`
	Published  bool       `json:"published"`
	IsPublic   bool       `json:"is_public"`
}

func (h *SiteHandler) List(c *gin.Context) {
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	scope := resolver.RecordListScope(middleware.Principal(c))
	sites, err := h.repo.List(c.Request.Context(), scope)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (h *SiteHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	site, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanRead(middleware.Principal(c), site.Ref()) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) Create(c *gin.Context) {
	if !requireUser(c, middleware.Principal(c)) {
		return
	}
	var req siteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	site := &model.Site{Name: req.Name, Summary: req.Summary}
	site.OrgGroupID = req.OrgGroupID
	site.Published = req.Published
	site.IsPublic = req.IsPublic
	if err := h.repo.Create(c.Request.Context(), site); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	site, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanModify(middleware.Principal(c), site.Ref()) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req siteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	site.Name = req.Name
	site.Summary = req.Summary
	site.OrgGroupID = req.OrgGroupID
	site.Published = req.Published
	site.IsPublic = req.IsPublic
	if err := h.repo.Update(c.Request.Context(), site); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	site, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !resolver.CanDelete(middleware.Principal(c), site.Ref()) {
		denied(c, "delete")
		return
	}
	allowed("delete")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
