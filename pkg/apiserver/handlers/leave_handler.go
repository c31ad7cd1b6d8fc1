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

// Leaves delegate authorization to their engineer: the engineer's group
// owners, or the engineer's own linked user, may see a leave; only group
// owners may change it.
type LeaveHandler struct {
	repo      *postgres.LeaveRepository
	engineers *postgres.EngineerRepository
	loader    *resolverLoader
	reports   *redisstore.ReportCache
	logger    *zap.Logger
}

func NewLeaveHandler(repo *postgres.LeaveRepository, engineers *postgres.EngineerRepository, groups *postgres.OrgGroupRepository, reports *redisstore.ReportCache, logger *zap.Logger) *LeaveHandler {
	return &LeaveHandler{
		repo:      repo,
		engineers: engineers,
		loader:    &resolverLoader{groups: groups},
		reports:   reports,
		logger:    logger,
	}
}

type leaveRequest struct {
	EngineerID uuid.UUID         `json:"engineer_id" binding:"required"`
	StartDate  string            `json:"start_date" binding:"required"`
	EndDate    string            `json:"end_date" binding:"required"`
	Summary    string            `json:"summary"`
	Status     model.LeaveStatus `json:"status"`
}

func (req *leaveRequest) dates(c *gin.Context) (start, end time.Time, ok bool) {
	start, err := time.ParseInLocation(capacity.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return start, end, false
	}
	end, err = time.ParseInLocation(capacity.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
		return start, end, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return start, end, false
	}
	return start, end, true
}

func leaveReadable(resolver *authz.Resolver, u *model.User, leave *model.Leave) bool {
	if leave.Engineer == nil {
		return false
	}
	if resolver.IsOwner(u, leave.Engineer.Ref()) {
		return true
	}
	return u != nil && leave.Engineer.UserID != nil && *leave.Engineer.UserID == u.ID
}

func leaveWritable(resolver *authz.Resolver, u *model.User, leave *model.Leave) bool {
	return leave.Engineer != nil && resolver.IsOwner(u, leave.Engineer.Ref())
}

func (h *LeaveHandler) List(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	leaves, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	visible := make([]model.Leave, 0, len(leaves))
	for i := range leaves {
		if user.IsSuperuser || leaveReadable(resolver, user, &leaves[i]) {
			visible = append(visible, leaves[i])
		}
	}
	c.JSON(http.StatusOK, visible)
}

func (h *LeaveHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	leave, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !leaveReadable(resolver, middleware.Principal(c), leave) {
		denied(c, "read")
		return
	}
	allowed("read")
	c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) Create(c *gin.Context) {
	user := middleware.Principal(c)
	if !requireUser(c, user) {
		return
	}
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := req.dates(c)
	if !ok {
		return
	}
	if _, err := h.engineers.GetByID(c.Request.Context(), req.EngineerID); err != nil {
		respondStoreError(c, err)
		return
	}
	status := req.Status
	if status == "" {
		status = model.LeaveDraft
	}
	leave := &model.Leave{
		EngineerID: req.EngineerID,
		StartDate:  start,
		EndDate:    end,
		Summary:    req.Summary,
		Status:     status,
	}
	if err := h.repo.Create(c.Request.Context(), leave); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *LeaveHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	leave, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !leaveWritable(resolver, middleware.Principal(c), leave) {
		denied(c, "modify")
		return
	}
	allowed("modify")
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := req.dates(c)
	if !ok {
		return
	}
	leave.EngineerID = req.EngineerID
	leave.StartDate = start
	leave.EndDate = end
	leave.Summary = req.Summary
	if req.Status != "" {
		leave.Status = req.Status
	}
	if err := h.repo.Update(c.Request.Context(), leave); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.reports.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("failed to invalidate capacity cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	leave, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	resolver, _, ok := h.loader.load(c)
	if !ok {
		return
	}
	if !leaveWritable(resolver, middleware.Principal(c), leave) {
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
