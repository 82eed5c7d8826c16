package casework

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newActionFixture(t *testing.T) (*SQLActionRepository, *Case) {
	t.Helper()

	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	c := seedCase(t, cases, editor.ID)
	return NewActionRepository(db), c
}

func TestActionRepositoryCRUD(t *testing.T) {
	actions, c := newActionFixture(t)
	ctx := context.Background()

	t.Run("create scheduled action", func(t *testing.T) {
		a, err := actions.Create(ctx, ActionInput{
			CaseID:     c.ID,
			Action:     "home visit",
			Status:     ActionStatusPending,
			ActionDate: strPtr("2026-09-03"),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := actions.GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.ActionDate == nil || *got.ActionDate != "2026-09-03" {
			t.Errorf("ActionDate = %v, want 2026-09-03", got.ActionDate)
		}
	})

	t.Run("create unscheduled action", func(t *testing.T) {
		a, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "follow up"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if a.ActionDate != nil {
			t.Errorf("ActionDate = %v, want nil", a.ActionDate)
		}
		if a.Status != ActionStatusPending {
			t.Errorf("Status = %v, want pending", a.Status)
		}
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		if _, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "x", Status: ActionStatus(7)}); err == nil {
			t.Error("Create() accepted an invalid status")
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		if _, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "x", ActionDate: strPtr("03/09/2026")}); err == nil {
			t.Error("Create() accepted a malformed date")
		}
	})

	t.Run("set status", func(t *testing.T) {
		a, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "deliver aid"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := actions.SetStatus(ctx, a.ID, ActionStatusDone); err != nil {
			t.Fatalf("SetStatus() error = %v", err)
		}
		got, err := actions.GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Status != ActionStatusDone {
			t.Errorf("Status = %v, want done", got.Status)
		}
	})

	t.Run("update", func(t *testing.T) {
		a, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "call school"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := actions.Update(ctx, a.ID, ActionInput{
			CaseID:     c.ID,
			Action:     "visit school",
			Status:     ActionStatusInProgress,
			ActionDate: strPtr("2026-09-10"),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Action != "visit school" || got.Status != ActionStatusInProgress {
			t.Errorf("update not applied: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		a, err := actions.Create(ctx, ActionInput{CaseID: c.ID, Action: "temp"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := actions.Delete(ctx, a.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := actions.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestActionRepositoryDueQueries(t *testing.T) {
	db := openTestDB(t)
	editor := seedEditor(t, db)
	cases := NewCaseRepository(db)
	first := seedCase(t, cases, editor.ID)
	second := seedCase(t, cases, editor.ID)
	actions := NewActionRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	mustCreate := func(caseID, action, date string, status ActionStatus) {
		t.Helper()
		var datePtr *string
		if date != "" {
			datePtr = &date
		}
		if _, err := actions.Create(ctx, ActionInput{
			CaseID: caseID, Action: action, Status: status, ActionDate: datePtr,
		}); err != nil {
			t.Fatalf("Create(%s) error = %v", action, err)
		}
	}

	mustCreate(first.ID, "today", "2026-09-02", ActionStatusPending)
	mustCreate(first.ID, "in six days", "2026-09-08", ActionStatusInProgress)
	mustCreate(first.ID, "in seven days", "2026-09-09", ActionStatusPending)
	mustCreate(first.ID, "done today", "2026-09-02", ActionStatusDone)
	mustCreate(first.ID, "yesterday", "2026-09-01", ActionStatusPending)
	mustCreate(first.ID, "unscheduled", "", ActionStatusPending)
	mustCreate(second.ID, "other case today", "2026-09-02", ActionStatusPending)

	t.Run("due today across all cases", func(t *testing.T) {
		got, err := actions.ListDueToday(ctx, "", now)
		if err != nil {
			t.Fatalf("ListDueToday() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("ListDueToday() = %v, want the pending actions dated today", actionNames(got))
		}
	})

	t.Run("due today scoped to one case", func(t *testing.T) {
		got, err := actions.ListDueToday(ctx, first.ID, now)
		if err != nil {
			t.Fatalf("ListDueToday() error = %v", err)
		}
		if len(got) != 1 || got[0].Action != "today" {
			t.Errorf("ListDueToday(first) = %v, want only [today]", actionNames(got))
		}
	})

	t.Run("rolling week covers today through day six", func(t *testing.T) {
		got, err := actions.ListDueThisWeek(ctx, first.ID, now)
		if err != nil {
			t.Fatalf("ListDueThisWeek() error = %v", err)
		}
		names := actionNames(got)
		if len(got) != 2 || names[0] != "today" || names[1] != "in six days" {
			t.Errorf("ListDueThisWeek() = %v, want [today, in six days]", names)
		}
	})

	t.Run("window slides with the clock", func(t *testing.T) {
		later := now.AddDate(0, 0, 1)
		got, err := actions.ListDueThisWeek(ctx, first.ID, later)
		if err != nil {
			t.Fatalf("ListDueThisWeek() error = %v", err)
		}
		names := actionNames(got)
		if len(got) != 2 || names[0] != "in six days" || names[1] != "in seven days" {
			t.Errorf("ListDueThisWeek(+1d) = %v, want [in six days, in seven days]", names)
		}
	})
}

func actionNames(actions []*CaseAction) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Action
	}
	return names
}
