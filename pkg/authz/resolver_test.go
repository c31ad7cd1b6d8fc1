package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

// Forest used throughout: root -> {branchA, branchB}, branchA -> leafC.
type fixture struct {
	root, branchA, branchB, leafC uuid.UUID

	leader, member, guest, consumer, outsider, super *model.User

	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		root:     uuid.New(),
		branchA:  uuid.New(),
		branchB:  uuid.New(),
		leafC:    uuid.New(),
		leader:   &model.User{ID: uuid.New(), Username: "lead"},
		member:   &model.User{ID: uuid.New(), Username: "mem"},
		guest:    &model.User{ID: uuid.New(), Username: "gst"},
		consumer: &model.User{ID: uuid.New(), Username: "cons"},
		outsider: &model.User{ID: uuid.New(), Username: "out"},
		super:    &model.User{ID: uuid.New(), Username: "root", IsSuperuser: true},
	}

	groups := []model.OrgGroup{
		{ID: f.root, Name: "root", Leaders: []model.User{*f.leader}, Consumers: []model.User{*f.consumer}},
		{ID: f.branchA, Name: "branch-a", ParentID: &f.root, Members: []model.User{*f.member}},
		{ID: f.branchB, Name: "branch-b", ParentID: &f.root, Guests: []model.User{*f.guest}},
		{ID: f.leafC, Name: "leaf-c", ParentID: &f.branchA},
	}

	catalog, err := NewCatalog(groups)
	if err != nil {
		t.Fatalf("NewCatalog error: %v", err)
	}
	f.resolver = NewResolver(catalog)
	return f
}

func scoped(groupID uuid.UUID, published, public bool) model.RecordRef {
	return model.RecordRef{OrgGroupID: &groupID, Published: published, Public: public}
}

func TestRoleInheritance(t *testing.T) {
	f := newFixture(t)

	// A leader of an ancestor owns every descendant group.
	for _, g := range []uuid.UUID{f.root, f.branchA, f.branchB, f.leafC} {
		if !f.resolver.GroupIsOwner(f.leader, g) {
			t.Fatalf("root leader should own group %s", g)
		}
		if !f.resolver.GroupIsConsumer(f.consumer, g) {
			t.Fatalf("root consumer should be consumer of group %s", g)
		}
	}

	// Membership on a branch reaches its leaf but not siblings or ancestors.
	if !f.resolver.GroupIsMember(f.member, f.branchA) || !f.resolver.GroupIsMember(f.member, f.leafC) {
		t.Fatal("member of branch-a should be member of branch-a and leaf-c")
	}
	if f.resolver.GroupIsMember(f.member, f.root) || f.resolver.GroupIsMember(f.member, f.branchB) {
		t.Fatal("member of branch-a must not be member of root or branch-b")
	}

	if !f.resolver.GroupIsGuest(f.guest, f.branchB) {
		t.Fatal("guest of branch-b should be guest of branch-b")
	}
	if f.resolver.GroupIsGuest(f.guest, f.leafC) {
		t.Fatal("guest of branch-b must not be guest of leaf-c")
	}

	// The four roles stay independent.
	if f.resolver.GroupIsOwner(f.member, f.branchA) || f.resolver.GroupIsGuest(f.member, f.branchA) {
		t.Fatal("member role must not imply owner or guest predicates")
	}
}

func TestNilUser(t *testing.T) {
	f := newFixture(t)

	if f.resolver.GroupIsOwner(nil, f.root) {
		t.Fatal("nil user must not own any group")
	}
	if got := f.resolver.ViewPrivileges(nil); len(got) != 0 {
		t.Fatalf("nil user must have no view privileges, got %d", len(got))
	}

	// A record without a group is globally readable, even anonymously.
	unscoped := model.RecordRef{}
	if !f.resolver.CanRead(nil, unscoped) {
		t.Fatal("unscoped record should be readable by anonymous users")
	}
	if f.resolver.CanRead(nil, scoped(f.leafC, false, false)) {
		t.Fatal("private scoped record must not be readable anonymously")
	}
}

func TestPrivilegeLattice(t *testing.T) {
	f := newFixture(t)

	for _, u := range []*model.User{f.leader, f.member, f.guest, f.consumer, f.outsider} {
		del := f.resolver.DeletePrivileges(u)
		change := f.resolver.ChangePrivileges(u)
		view := f.resolver.ViewPrivileges(u)

		for id := range del {
			if !change.Has(id) {
				t.Fatalf("delete privilege on %s missing from change privileges", id)
			}
		}
		for id := range change {
			if !view.Has(id) {
				t.Fatalf("change privilege on %s missing from view privileges", id)
			}
		}
	}

	// Leader of root gets the whole forest, transitively.
	del := f.resolver.DeletePrivileges(f.leader)
	if len(del) != 4 {
		t.Fatalf("root leader should hold delete privileges on 4 groups, got %d", len(del))
	}

	// Consumer privileges stay outside the view chain.
	if f.resolver.ViewPrivileges(f.consumer).Has(f.root) {
		t.Fatal("consumer role must not grant view privileges")
	}
	if !f.resolver.ConsumerPrivileges(f.consumer).Has(f.leafC) {
		t.Fatal("consumer privileges should reach descendants")
	}
}

func TestCanReadAgreesWithListScope(t *testing.T) {
	f := newFixture(t)

	// Unscoped private and published records, then every publication state
	// across the forest.
	refs := []model.RecordRef{
		{},
		{Published: true},
		scoped(f.root, false, false),
		scoped(f.root, true, true),
		scoped(f.branchA, false, false),
		scoped(f.branchA, true, false),
		scoped(f.branchB, false, false),
		scoped(f.leafC, true, false),
		scoped(f.leafC, false, false),
	}

	for _, u := range []*model.User{f.leader, f.member, f.guest, f.consumer, f.outsider} {
		scope := f.resolver.RecordListScope(u)
		for _, ref := range refs {
			canRead := f.resolver.CanRead(u, ref)
			inScope := scope.Matches(ref)
			if canRead != inScope {
				t.Fatalf("user %s ref %+v: can_read=%v but list scope match=%v",
					u.Username, ref, canRead, inScope)
			}
		}
	}
}

func TestWritePermissions(t *testing.T) {
	f := newFixture(t)

	ref := scoped(f.leafC, false, false)
	if !f.resolver.CanModify(f.leader, ref) || !f.resolver.CanDelete(f.leader, ref) {
		t.Fatal("inherited owner should modify and delete")
	}
	if !f.resolver.CanModify(f.member, ref) {
		t.Fatal("inherited member should modify")
	}
	if f.resolver.CanDelete(f.member, ref) {
		t.Fatal("member must not delete")
	}
	if f.resolver.CanModify(f.guest, scoped(f.branchB, false, false)) {
		t.Fatal("guest must not modify")
	}

	// Publication flags do not gate the default write policy.
	published := scoped(f.leafC, true, true)
	if !f.resolver.CanModify(f.leader, published) {
		t.Fatal("default policy ignores the published flag")
	}
}

func TestFrozenWhenPublishedPolicy(t *testing.T) {
	f := newFixture(t)

	published := scoped(f.leafC, true, false)
	draft := scoped(f.leafC, false, false)

	if f.resolver.CanModifyWith(PolicyFrozenWhenPublished, f.leader, published) {
		t.Fatal("published record must be frozen against modify")
	}
	if f.resolver.CanDeleteWith(PolicyFrozenWhenPublished, f.leader, published) {
		t.Fatal("published record must be frozen against delete")
	}
	if !f.resolver.CanModifyWith(PolicyFrozenWhenPublished, f.leader, draft) {
		t.Fatal("unpublished record stays writable under the frozen policy")
	}
	if !f.resolver.CanModifyWith(PolicyFrozenWhenPublished, f.leader, model.RecordRef{Published: true}) {
		t.Fatal("unscoped record is exempt from the frozen policy")
	}
}

func TestListScopes(t *testing.T) {
	f := newFixture(t)

	if !f.resolver.RecordListScope(f.super).All {
		t.Fatal("superuser scope should include everything")
	}

	anonymous := f.resolver.RecordListScope(nil)
	if !anonymous.Matches(model.RecordRef{Published: true}) {
		t.Fatal("anonymous listing should include published unscoped records")
	}
	if anonymous.Matches(model.RecordRef{}) {
		t.Fatal("anonymous listing must exclude unpublished unscoped records")
	}
	if !anonymous.Matches(scoped(f.root, true, true)) {
		t.Fatal("anonymous listing should include published public records")
	}
	if anonymous.Matches(scoped(f.root, true, false)) {
		t.Fatal("anonymous listing must exclude published non-public scoped records")
	}

	// Groups have no unscoped branch.
	groupScope := f.resolver.GroupListScope(nil)
	if groupScope.Matches(model.RecordRef{Published: true}) {
		t.Fatal("anonymous group listing has no unscoped branch")
	}

	memberScope := f.resolver.GroupListScope(f.member)
	if !memberScope.Matches(scoped(f.leafC, false, false)) {
		t.Fatal("member should list descendant groups")
	}
	if memberScope.Matches(scoped(f.branchB, false, false)) {
		t.Fatal("member must not list sibling branch groups")
	}
}
