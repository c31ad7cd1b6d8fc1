package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

// fakeStore applies the same filters the SQL layer does: leaves must be fully
// contained in the window, holidays fall inside it.
type fakeStore struct {
	participations []model.EngineerOrgGroupParticipation
	leaves         []model.Leave
	holidays       []model.SiteHoliday
}

func (s *fakeStore) ParticipationsByGroup(_ context.Context, groupID uuid.UUID) ([]model.EngineerOrgGroupParticipation, error) {
	var out []model.EngineerOrgGroupParticipation
	for _, p := range s.participations {
		if p.OrgGroupID != nil && *p.OrgGroupID == groupID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) ParticipationsByEngineer(_ context.Context, engineerID uuid.UUID) ([]model.EngineerOrgGroupParticipation, error) {
	var out []model.EngineerOrgGroupParticipation
	for _, p := range s.participations {
		if p.EngineerID == engineerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) LeavesWithin(_ context.Context, engineerID uuid.UUID, from, to time.Time) ([]model.Leave, error) {
	var out []model.Leave
	for _, l := range s.leaves {
		if l.EngineerID != engineerID {
			continue
		}
		if l.StartDate.Before(from) || l.StartDate.After(to) {
			continue
		}
		if l.EndDate.Before(from) || l.EndDate.After(to) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeStore) HolidaysForSite(_ context.Context, siteID uuid.UUID, from, to time.Time) ([]model.SiteHoliday, error) {
	var out []model.SiteHoliday
	for _, h := range s.holidays {
		if h.SiteID == nil || *h.SiteID != siteID {
			continue
		}
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func scopedTo(groupID uuid.UUID) model.OrgScoped {
	return model.OrgScoped{OrgGroupID: &groupID}
}

func scopedToGroup(g *model.OrgGroup) model.OrgScoped {
	return model.OrgScoped{OrgGroupID: &g.ID, OrgGroup: g}
}

func TestForEngineerLeaveAndHolidayExclusion(t *testing.T) {
	siteID := uuid.New()
	groupX := uuid.New()
	groupY := uuid.New()
	engineer := &model.Engineer{
		ID:         uuid.New(),
		EmployeeID: "E100",
		Name:       "dara",
		SiteID:     &siteID,
	}

	// Window 2026-01-05 (Mon) .. 2026-01-16 (Fri): 10 working days.
	from := date(2026, time.January, 5)
	to := date(2026, time.January, 16)

	store := &fakeStore{
		participations: []model.EngineerOrgGroupParticipation{
			{OrgScoped: scopedToGroup(&model.OrgGroup{ID: groupX, Name: "group-x"}),
				EngineerID: engineer.ID, Capacity: 1.0},
			{OrgScoped: scopedToGroup(&model.OrgGroup{ID: groupY, Name: "group-y"}),
				EngineerID: engineer.ID, Capacity: 0.5},
		},
		leaves: []model.Leave{
			// Second week entirely on leave; the Wednesday holiday inside it
			// must not count twice.
			{EngineerID: engineer.ID, Status: model.LeaveApproved,
				StartDate: date(2026, time.January, 12), EndDate: date(2026, time.January, 16)},
			// Starts before the window: excluded entirely, not clipped.
			{EngineerID: engineer.ID, Status: model.LeaveApproved,
				StartDate: date(2026, time.January, 2), EndDate: date(2026, time.January, 6)},
		},
		holidays: []model.SiteHoliday{
			{SiteID: &siteID, Name: "festival", Date: date(2026, time.January, 14)},
		},
	}

	engine := NewEngine(store, DefaultWorkWeek())
	report, err := engine.ForEngineer(context.Background(), engineer, from, to)
	if err != nil {
		t.Fatalf("ForEngineer error: %v", err)
	}

	if report.WorkDays != 10 {
		t.Fatalf("expected 10 work days, got %d", report.WorkDays)
	}
	if report.LeaveCount != 4 {
		t.Fatalf("expected leave count 4 (holiday not double-counted), got %d", report.LeaveCount)
	}
	if report.SiteHolidayCount != 1 {
		t.Fatalf("expected 1 site holiday, got %d", report.SiteHolidayCount)
	}
	if report.AvailableDays != 5 {
		t.Fatalf("expected 5 available days, got %d", report.AvailableDays)
	}
	if len(report.LeavePlans) != 1 {
		t.Fatalf("boundary-overlapping leave should be excluded, got %d plans", len(report.LeavePlans))
	}

	if got := report.Groups["group-x"].Capacity; got != 5.0 {
		t.Fatalf("expected capacity 5.0 for group-x, got %v", got)
	}
	if got := report.Groups["group-y"].Capacity; got != 2.5 {
		t.Fatalf("expected capacity 2.5 for group-y, got %v", got)
	}
}

func TestForGroupAggregation(t *testing.T) {
	siteID := uuid.New()
	groupX := uuid.New()
	alice := &model.Engineer{ID: uuid.New(), EmployeeID: "E1", Name: "alice", SiteID: &siteID}
	bob := &model.Engineer{ID: uuid.New(), EmployeeID: "E2", Name: "bob", SiteID: &siteID}

	from := date(2026, time.January, 5)
	to := date(2026, time.January, 16)

	store := &fakeStore{
		participations: []model.EngineerOrgGroupParticipation{
			{OrgScoped: scopedTo(groupX), EngineerID: alice.ID, Engineer: alice, Capacity: 1.0},
			{OrgScoped: scopedTo(groupX), EngineerID: bob.ID, Engineer: bob, Capacity: 0.5},
		},
	}

	engine := NewEngine(store, DefaultWorkWeek())
	report, err := engine.ForGroup(context.Background(), groupX, from, to)
	if err != nil {
		t.Fatalf("ForGroup error: %v", err)
	}

	if report.WorkDays != 10 {
		t.Fatalf("expected 10 work days, got %d", report.WorkDays)
	}
	if report.TotalCapacity != 15.0 {
		t.Fatalf("expected total capacity 15.0, got %v", report.TotalCapacity)
	}
	if len(report.Engineers) != 2 {
		t.Fatalf("expected 2 engineer entries, got %d", len(report.Engineers))
	}
	if got := report.Engineers["E1"].Capacity; got != 10.0 {
		t.Fatalf("expected alice capacity 10.0, got %v", got)
	}
	if got := report.Engineers["E2"].Capacity; got != 5.0 {
		t.Fatalf("expected bob capacity 5.0, got %v", got)
	}
}

func TestForGroupNoParticipations(t *testing.T) {
	engine := NewEngine(&fakeStore{}, DefaultWorkWeek())
	report, err := engine.ForGroup(context.Background(), uuid.New(),
		date(2026, time.January, 5), date(2026, time.January, 9))
	if err != nil {
		t.Fatalf("ForGroup error: %v", err)
	}
	if report.TotalCapacity != 0 || len(report.Engineers) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if report.WorkDays != 5 {
		t.Fatalf("expected 5 work days, got %d", report.WorkDays)
	}
}

func TestDuplicateParticipationsBothCount(t *testing.T) {
	siteID := uuid.New()
	groupX := uuid.New()
	alice := &model.Engineer{ID: uuid.New(), EmployeeID: "E1", Name: "alice", SiteID: &siteID}

	store := &fakeStore{
		participations: []model.EngineerOrgGroupParticipation{
			{OrgScoped: scopedTo(groupX), EngineerID: alice.ID, Engineer: alice, Capacity: 1.0},
			{OrgScoped: scopedTo(groupX), EngineerID: alice.ID, Engineer: alice, Capacity: 1.0},
		},
	}

	engine := NewEngine(store, DefaultWorkWeek())
	report, err := engine.ForGroup(context.Background(), groupX,
		date(2026, time.January, 5), date(2026, time.January, 9))
	if err != nil {
		t.Fatalf("ForGroup error: %v", err)
	}

	// Duplicate rows both reach the total while the breakdown keeps one
	// entry per employee id.
	if report.TotalCapacity != 10.0 {
		t.Fatalf("expected total 10.0 from duplicate rows, got %v", report.TotalCapacity)
	}
	if len(report.Engineers) != 1 {
		t.Fatalf("expected 1 breakdown entry, got %d", len(report.Engineers))
	}
}

func TestAvailableDaysNotClamped(t *testing.T) {
	siteID := uuid.New()
	engineer := &model.Engineer{ID: uuid.New(), EmployeeID: "E1", Name: "alice", SiteID: &siteID}

	from := date(2026, time.January, 5)
	to := date(2026, time.January, 9)

	store := &fakeStore{
		leaves: []model.Leave{
			// Overlapping leaves double-count, and a draft counts the same
			// as an approved one.
			{EngineerID: engineer.ID, Status: model.LeaveApproved, StartDate: from, EndDate: to},
			{EngineerID: engineer.ID, Status: model.LeaveDraft, StartDate: from, EndDate: to},
		},
		holidays: []model.SiteHoliday{
			{SiteID: &siteID, Name: "festival", Date: date(2026, time.January, 7)},
		},
	}

	engine := NewEngine(store, DefaultWorkWeek())
	report, err := engine.ForEngineer(context.Background(), engineer, from, to)
	if err != nil {
		t.Fatalf("ForEngineer error: %v", err)
	}

	// 5 work days - 8 leave days (4 per leave after the holiday) - 1 holiday.
	if report.AvailableDays != -4 {
		t.Fatalf("expected available days -4, got %d", report.AvailableDays)
	}
}

func TestInvertedWindowIsEmpty(t *testing.T) {
	engineer := &model.Engineer{ID: uuid.New(), EmployeeID: "E1", Name: "alice"}
	engine := NewEngine(&fakeStore{}, DefaultWorkWeek())

	report, err := engine.ForEngineer(context.Background(), engineer,
		date(2026, time.January, 9), date(2026, time.January, 5))
	if err != nil {
		t.Fatalf("ForEngineer error: %v", err)
	}
	if report.WorkDays != 0 || report.AvailableDays != 0 {
		t.Fatalf("expected empty window, got %+v", report)
	}
}

func TestSingleDayLeave(t *testing.T) {
	siteID := uuid.New()
	engineer := &model.Engineer{ID: uuid.New(), EmployeeID: "E1", Name: "alice", SiteID: &siteID}

	from := date(2026, time.January, 5)
	to := date(2026, time.January, 9)
	monday := date(2026, time.January, 5)

	store := &fakeStore{
		leaves: []model.Leave{
			{EngineerID: engineer.ID, StartDate: monday, EndDate: monday},
		},
	}

	engine := NewEngine(store, DefaultWorkWeek())
	report, err := engine.ForEngineer(context.Background(), engineer, from, to)
	if err != nil {
		t.Fatalf("ForEngineer error: %v", err)
	}
	if report.LeaveCount != 1 {
		t.Fatalf("expected leave count 1 for a single working day, got %d", report.LeaveCount)
	}
	if report.AvailableDays != 4 {
		t.Fatalf("expected 4 available days, got %d", report.AvailableDays)
	}
}
