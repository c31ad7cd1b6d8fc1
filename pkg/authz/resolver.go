package authz

import (
	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/hierarchy"
	"github.com/utpad/utpad/pkg/model"
)

// WritePolicy selects how modify/delete react to the published flag.
type WritePolicy int

const (
	// PolicyDefault gates writes on role only.
	PolicyDefault WritePolicy = iota
	// PolicyFrozenWhenPublished refuses modify/delete on any published,
	// group-scoped record regardless of role.
	PolicyFrozenWhenPublished
)

type Resolver struct {
	cat *Catalog
}

func NewResolver(cat *Catalog) *Resolver {
	return &Resolver{cat: cat}
}

type roleSet func(g *model.OrgGroup) []model.User

func leaders(g *model.OrgGroup) []model.User   { return g.Leaders }
func members(g *model.OrgGroup) []model.User   { return g.Members }
func guests(g *model.OrgGroup) []model.User    { return g.Guests }
func consumers(g *model.OrgGroup) []model.User { return g.Consumers }

// groupHasRole reports whether the user is in the role set of the group or of
// any ancestor. The catalog is validated at build, so the walk terminates;
// the depth bound stays as a backstop.
func (r *Resolver) groupHasRole(u *model.User, groupID uuid.UUID, set roleSet) bool {
	if u == nil {
		return false
	}
	current := &groupID
	for depth := 0; current != nil && depth < hierarchy.MaxDepth; depth++ {
		g, ok := r.cat.Group(*current)
		if !ok {
			return false
		}
		if containsUser(set(g), u.ID) {
			return true
		}
		current = g.ParentID
	}
	return false
}

func (r *Resolver) GroupIsOwner(u *model.User, groupID uuid.UUID) bool {
	return r.groupHasRole(u, groupID, leaders)
}

func (r *Resolver) GroupIsMember(u *model.User, groupID uuid.UUID) bool {
	return r.groupHasRole(u, groupID, members)
}

func (r *Resolver) GroupIsGuest(u *model.User, groupID uuid.UUID) bool {
	return r.groupHasRole(u, groupID, guests)
}

func (r *Resolver) GroupIsConsumer(u *model.User, groupID uuid.UUID) bool {
	return r.groupHasRole(u, groupID, consumers)
}

// Record-level predicates. A record with no org group grants every role to
// every user: global records are unrestricted reads, with writes gated by the
// surrounding layer.

func (r *Resolver) IsOwner(u *model.User, ref model.RecordRef) bool {
	return ref.OrgGroupID == nil || r.GroupIsOwner(u, *ref.OrgGroupID)
}

func (r *Resolver) IsMember(u *model.User, ref model.RecordRef) bool {
	return ref.OrgGroupID == nil || r.GroupIsMember(u, *ref.OrgGroupID)
}

func (r *Resolver) IsGuest(u *model.User, ref model.RecordRef) bool {
	return ref.OrgGroupID == nil || r.GroupIsGuest(u, *ref.OrgGroupID)
}

func (r *Resolver) IsConsumer(u *model.User, ref model.RecordRef) bool {
	return ref.OrgGroupID == nil || r.GroupIsConsumer(u, *ref.OrgGroupID)
}

func (r *Resolver) CanRead(u *model.User, ref model.RecordRef) bool {
	return (ref.Published && ref.Public) ||
		r.IsOwner(u, ref) ||
		r.IsMember(u, ref) ||
		r.IsGuest(u, ref) ||
		(ref.Published && r.IsConsumer(u, ref))
}

func (r *Resolver) CanModify(u *model.User, ref model.RecordRef) bool {
	return r.CanModifyWith(PolicyDefault, u, ref)
}

func (r *Resolver) CanDelete(u *model.User, ref model.RecordRef) bool {
	return r.CanDeleteWith(PolicyDefault, u, ref)
}

func (r *Resolver) CanModifyWith(p WritePolicy, u *model.User, ref model.RecordRef) bool {
	if ref.OrgGroupID == nil {
		return true
	}
	if p == PolicyFrozenWhenPublished && ref.Published {
		return false
	}
	return r.IsOwner(u, ref) || r.IsMember(u, ref)
}

func (r *Resolver) CanDeleteWith(p WritePolicy, u *model.User, ref model.RecordRef) bool {
	if ref.OrgGroupID == nil {
		return true
	}
	if p == PolicyFrozenWhenPublished && ref.Published {
		return false
	}
	return r.IsOwner(u, ref)
}
