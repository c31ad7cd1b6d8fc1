// Package authz resolves the four-tier role model (leader, member, guest,
// consumer) against the org group forest. Roles granted on a group are
// inherited by every descendant group and by every record scoped to one.
// All predicates are pure functions over a validated snapshot.
package authz

import (
	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/hierarchy"
	"github.com/utpad/utpad/pkg/model"
)

// Catalog is a per-request snapshot of every org group with its role sets,
// plus the hierarchy index built over them. NewCatalog validates the forest
// up front so predicate evaluation never has to fail.
type Catalog struct {
	groups map[uuid.UUID]*model.OrgGroup
	index  *hierarchy.Index
}

func NewCatalog(groups []model.OrgGroup) (*Catalog, error) {
	c := &Catalog{
		groups: make(map[uuid.UUID]*model.OrgGroup, len(groups)),
		index:  hierarchy.NewIndex(groups),
	}
	for i := range groups {
		c.groups[groups[i].ID] = &groups[i]
	}
	if err := c.index.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Group(id uuid.UUID) (*model.OrgGroup, bool) {
	g, ok := c.groups[id]
	return g, ok
}

func (c *Catalog) Index() *hierarchy.Index {
	return c.index
}

func containsUser(users []model.User, id uuid.UUID) bool {
	for i := range users {
		if users[i].ID == id {
			return true
		}
	}
	return false
}
