package postgres

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/authz"
)

// applyScope translates a listing scope into a WHERE clause over the given
// group-id column. The branches mirror authz.Scope.Matches exactly; id sets
// go through pq.Array so the whole union stays a single query.
func applyScope(query *gorm.DB, scope authz.Scope, groupColumn string) *gorm.DB {
	if scope.All {
		return query
	}

	var clauses []string
	var args []interface{}

	if scope.IncludeUnscoped {
		clauses = append(clauses, groupColumn+" IS NULL")
	}
	if scope.PublishedPublic {
		clauses = append(clauses, "(published AND is_public)")
	}
	if scope.PublishedUnscoped {
		clauses = append(clauses, "(published AND "+groupColumn+" IS NULL)")
	}
	if len(scope.ConsumerGroups) > 0 {
		clauses = append(clauses, "(published AND "+groupColumn+" = ANY(?))")
		args = append(args, pq.Array(idStrings(scope.ConsumerGroups)))
	}
	if len(scope.ViewGroups) > 0 {
		clauses = append(clauses, groupColumn+" = ANY(?)")
		args = append(args, pq.Array(idStrings(scope.ViewGroups)))
	}

	if len(clauses) == 0 {
		// Nothing visible; keep the query valid but empty.
		return query.Where("1 = 0")
	}

	return query.Where(strings.Join(clauses, " OR "), args...)
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
