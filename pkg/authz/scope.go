package authz

import (
	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

// Scope is the listing filter for a collection of group-scoped records (or of
// org groups themselves). It is a union of branches; a record is visible when
// any enabled branch matches. The postgres layer translates it to SQL and
// Matches applies it in memory.
type Scope struct {
	// All short-circuits every other branch (superusers).
	All bool
	// IncludeUnscoped admits records with no org group.
	IncludeUnscoped bool
	// PublishedPublic admits records that are both published and public.
	PublishedPublic bool
	// PublishedUnscoped admits published records with no org group. This is
	// the anonymous branch: an unpublished global record stays out of
	// listings even though a direct read would succeed.
	PublishedUnscoped bool
	// ConsumerGroups admits published records scoped to one of these groups.
	ConsumerGroups []uuid.UUID
	// ViewGroups admits any record scoped to one of these groups.
	ViewGroups []uuid.UUID
}

// RecordListScope computes the listing filter for group-scoped record types.
// A nil user is an anonymous caller.
func (r *Resolver) RecordListScope(u *model.User) Scope {
	if u == nil {
		return Scope{PublishedPublic: true, PublishedUnscoped: true}
	}
	if u.IsSuperuser {
		return Scope{All: true}
	}
	return Scope{
		IncludeUnscoped: true,
		PublishedPublic: true,
		ConsumerGroups:  r.ConsumerPrivileges(u).Sorted(),
		ViewGroups:      r.ViewPrivileges(u).Sorted(),
	}
}

// GroupListScope is the same union applied to org groups themselves, which
// have no unscoped branch: every group is scoped to itself.
func (r *Resolver) GroupListScope(u *model.User) Scope {
	if u == nil {
		return Scope{PublishedPublic: true}
	}
	if u.IsSuperuser {
		return Scope{All: true}
	}
	return Scope{
		PublishedPublic: true,
		ConsumerGroups:  r.ConsumerPrivileges(u).Sorted(),
		ViewGroups:      r.ViewPrivileges(u).Sorted(),
	}
}

func (s Scope) Matches(ref model.RecordRef) bool {
	if s.All {
		return true
	}
	if s.IncludeUnscoped && ref.OrgGroupID == nil {
		return true
	}
	if s.PublishedPublic && ref.Published && ref.Public {
		return true
	}
	if s.PublishedUnscoped && ref.Published && ref.OrgGroupID == nil {
		return true
	}
	if ref.OrgGroupID == nil {
		return false
	}
	if ref.Published && containsID(s.ConsumerGroups, *ref.OrgGroupID) {
		return true
	}
	return containsID(s.ViewGroups, *ref.OrgGroupID)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
