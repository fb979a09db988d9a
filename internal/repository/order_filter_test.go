package repository

import (
	"testing"

	"github.com/fixthevideo/studio-api/internal/model"
)

func sampleOrders() []model.Order {
	return []model.Order{
		{ID: "SMPL-1001", CustomerEmail: "ada@example.com", Status: model.StatusSample, Date: "3/14/2026"},
		{ID: "SMPL-1002", CustomerEmail: "bob@example.com", Status: model.StatusQC, Date: "3/15/2026"},
		{ID: "ORD-2001", CustomerEmail: "ada@example.com", Status: model.StatusMaster, IsOrder: true, Date: "3/16/2026"},
		{ID: "SMPL-1003", CustomerEmail: "cyd@example.com", Status: model.StatusSurgery, IsCancelled: true, Date: "3/17/2026"},
		{ID: "ORD-2002", CustomerEmail: "bob@example.com", Status: model.StatusMaster, IsOrder: true, FinalFileReady: true, Date: "3/18/2026"},
	}
}

func idsMatching(f OrderFilter) []string {
	var out []string
	for _, o := range sampleOrders() {
		if f.Match(o) {
			out = append(out, o.ID)
		}
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTabsPartitionTheLifecycle(t *testing.T) {
	cases := []struct {
		tab  string
		want []string
	}{
		{TabActive, []string{"SMPL-1001", "SMPL-1002"}},
		{TabCompleted, []string{"ORD-2001", "ORD-2002"}},
		{TabCancelled, []string{"SMPL-1003"}},
		{TabDelivered, []string{"ORD-2002"}},
	}
	for _, tc := range cases {
		got := idsMatching(OrderFilter{Tab: tc.tab, ListType: ListAll})
		if !equalIDs(got, tc.want) {
			t.Errorf("tab %s: got %v, want %v", tc.tab, got, tc.want)
		}
	}
}

func TestListTypeRestrictsByOrigin(t *testing.T) {
	got := idsMatching(OrderFilter{Tab: TabCompleted, ListType: ListSamples})
	if len(got) != 0 {
		t.Errorf("completed samples: got %v, want none", got)
	}
	got = idsMatching(OrderFilter{Tab: TabCompleted, ListType: ListOrders})
	if !equalIDs(got, []string{"ORD-2001", "ORD-2002"}) {
		t.Errorf("completed orders: got %v", got)
	}
}

func TestSearchAppliesOnlyWhenApplied(t *testing.T) {
	// Typed but unapplied search must not narrow results.
	f := OrderFilter{Tab: TabActive, ListType: ListAll, Criterion: SearchBatch, Search: "1002", Applied: false}
	if got := idsMatching(f); !equalIDs(got, []string{"SMPL-1001", "SMPL-1002"}) {
		t.Errorf("unapplied search narrowed results: %v", got)
	}

	f.Applied = true
	if got := idsMatching(f); !equalIDs(got, []string{"SMPL-1002"}) {
		t.Errorf("applied batch search: got %v, want [SMPL-1002]", got)
	}
}

func TestSearchCriteriaAreCaseInsensitiveSubstrings(t *testing.T) {
	byEmail := OrderFilter{Tab: TabActive, ListType: ListAll, Criterion: SearchEmail, Search: "ADA@", Applied: true}
	if got := idsMatching(byEmail); !equalIDs(got, []string{"SMPL-1001"}) {
		t.Errorf("email search: got %v", got)
	}

	byDate := OrderFilter{Tab: TabActive, ListType: ListAll, Criterion: SearchDate, Search: "3/15", Applied: true}
	if got := idsMatching(byDate); !equalIDs(got, []string{"SMPL-1002"}) {
		t.Errorf("date search: got %v", got)
	}

	byBatch := OrderFilter{Tab: TabCompleted, ListType: ListAll, Criterion: SearchBatch, Search: "ord-", Applied: true}
	if got := idsMatching(byBatch); !equalIDs(got, []string{"ORD-2001", "ORD-2002"}) {
		t.Errorf("batch search: got %v", got)
	}
}

func TestCancelledRecordsLeaveActiveViews(t *testing.T) {
	o := model.Order{ID: "SMPL-1100", Status: model.StatusAnalysis}
	active := OrderFilter{Tab: TabActive, ListType: ListAll}
	cancelled := OrderFilter{Tab: TabCancelled, ListType: ListAll}

	if !active.Match(o) || cancelled.Match(o) {
		t.Fatal("fresh record should be active only")
	}
	o.IsCancelled = true
	if active.Match(o) || !cancelled.Match(o) {
		t.Fatal("cancelled record should move to the cancelled tab")
	}
	// Restoring brings it back.
	o.IsCancelled = false
	if !active.Match(o) {
		t.Fatal("restored record should be active again")
	}
}
