package authz

import (
	"sort"

	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

// GroupSet is a set of org group ids.
type GroupSet map[uuid.UUID]struct{}

func (s GroupSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in a stable order for query building.
func (s GroupSet) Sorted() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// closureOfDirectRole collects the transitive-descendant closure of every
// group where the user appears directly in the given role set.
func (r *Resolver) closureOfDirectRole(u *model.User, set roleSet, into GroupSet) {
	if u == nil {
		return
	}
	for id, g := range r.cat.groups {
		if !containsUser(set(g), u.ID) {
			continue
		}
		// Catalog is validated, Descendants cannot fail here.
		ids, err := r.cat.index.Descendants(id)
		if err != nil {
			continue
		}
		for _, sub := range ids {
			into[sub] = struct{}{}
		}
	}
}

// DeletePrivileges is the closure of every group where the user is a leader.
func (r *Resolver) DeletePrivileges(u *model.User) GroupSet {
	out := make(GroupSet)
	r.closureOfDirectRole(u, leaders, out)
	return out
}

// ChangePrivileges adds the member closure on top of delete privileges:
// leader implies member.
func (r *Resolver) ChangePrivileges(u *model.User) GroupSet {
	out := r.DeletePrivileges(u)
	r.closureOfDirectRole(u, members, out)
	return out
}

// ViewPrivileges adds the guest closure on top of change privileges:
// member implies guest.
func (r *Resolver) ViewPrivileges(u *model.User) GroupSet {
	out := r.ChangePrivileges(u)
	r.closureOfDirectRole(u, guests, out)
	return out
}

// ConsumerPrivileges is an independent track: it gates visibility of
// published records only and is not folded into the view chain.
func (r *Resolver) ConsumerPrivileges(u *model.User) GroupSet {
	out := make(GroupSet)
	r.closureOfDirectRole(u, consumers, out)
	return out
}
