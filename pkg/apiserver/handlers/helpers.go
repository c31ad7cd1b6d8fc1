package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/authz"
	"github.com/utpad/utpad/pkg/capacity"
	"github.com/utpad/utpad/pkg/hierarchy"
	"github.com/utpad/utpad/pkg/metrics"
	"github.com/utpad/utpad/pkg/model"
	"github.com/utpad/utpad/pkg/store/postgres"
)

// resolverLoader builds a per-request authorization snapshot: all groups with
// their role sets, validated into a catalog. Nothing is shared across
// requests, so a half-updated role set can never be observed.
type resolverLoader struct {
	groups *postgres.OrgGroupRepository
}

func (l *resolverLoader) load(c *gin.Context) (*authz.Resolver, *authz.Catalog, bool) {
	groups, err := l.groups.All(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load org groups"})
		return nil, nil, false
	}
	catalog, err := authz.NewCatalog(groups)
	if err != nil {
		// A cycle or over-deep chain is fatal for the request; truncating
		// it silently would corrupt authorization decisions.
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return authz.NewResolver(catalog), catalog, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing parameter " + name})
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(capacity.DateLayout, raw, time.UTC)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid date " + name + ", expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// requireUser enforces authentication on endpoints that have no anonymous
// behavior, such as the capacity reports.
func requireUser(c *gin.Context, user *model.User) bool {
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return false
	}
	return true
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, hierarchy.ErrUnknownGroup) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func denied(c *gin.Context, operation string) {
	metrics.AuthzDecisions.WithLabelValues(operation, "deny").Inc()
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

func allowed(operation string) {
	metrics.AuthzDecisions.WithLabelValues(operation, "allow").Inc()
}
