package checklist

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ukprop/clearance/internal/model"
)

func TestForServiceTypeShape(t *testing.T) {
	for service := range map[model.ServiceType]struct{}{
		model.ServiceHouseClearance:  {},
		model.ServiceHoarderClearout: {},
		model.ServiceLockChange:      {},
	} {
		items := ForServiceType(service)
		if len(items) < 3 {
			t.Fatalf("%s: checklist too short: %d items", service, len(items))
		}
		if items[0].Order != 1 || !strings.Contains(items[0].Task, "access") {
			t.Errorf("%s: first item = %+v, want verify-access at order 1", service, items[0])
		}
		if items[1].Order != 3 {
			t.Errorf("%s: second item order = %d, want 3 (order 2 is skipped)", service, items[1].Order)
		}
		last := items[len(items)-1]
		if last.Order != 99 || !strings.Contains(last.Task, "sign-off") {
			t.Errorf("%s: last item = %+v, want sign-off at order 99", service, last)
		}
		for i := 1; i < len(items); i++ {
			if items[i].Order <= items[i-1].Order {
				t.Errorf("%s: items out of order at %d: %d then %d",
					service, i, items[i-1].Order, items[i].Order)
			}
		}
	}
}

func TestForServiceTypeUnknownStillWorkable(t *testing.T) {
	items := ForServiceType("window-cleaning")
	if len(items) != 3 {
		t.Fatalf("unknown service checklist = %d items, want prefix + sign-off", len(items))
	}
}

func TestServiceBlocksDiffer(t *testing.T) {
	house := ForServiceType(model.ServiceHouseClearance)
	office := ForServiceType(model.ServiceOfficeMove)

	houseTasks := map[string]struct{}{}
	for _, item := range house {
		houseTasks[item.Task] = struct{}{}
	}
	distinct := false
	for _, item := range office {
		if item.Order < 4 || item.Order == 99 {
			continue
		}
		if _, shared := houseTasks[item.Task]; !shared {
			distinct = true
		}
	}
	if !distinct {
		t.Error("office-move block should differ from house-clearance block")
	}
}

func fixedChecklist() []model.ChecklistItem {
	orders := []int{1, 3, 4, 5, 6, 99}
	items := make([]model.ChecklistItem, 0, len(orders))
	for _, order := range orders {
		items = append(items, model.ChecklistItem{
			ID:    uuid.New(),
			Task:  "step",
			Order: order,
		})
	}
	items[2].Task = "Clear all rooms of contents"
	items[3].Task = "Sweep and tidy cleared areas"
	return items
}

func TestCanCompleteItemStrictOrdering(t *testing.T) {
	items := fixedChecklist()

	// Nothing done yet: only order 1 is completable.
	if check := CanCompleteItem(items, items[0].ID); !check.Allowed {
		t.Errorf("first item should be completable, got %q", check.Reason)
	}
	if check := CanCompleteItem(items, items[4].ID); check.Allowed {
		t.Error("order-6 item must be blocked while earlier items are open")
	}

	// Complete orders 1 and 3; order 6 still blocked by 4 and 5, and the
	// reason names the lowest open blocker.
	items[0].Completed = true
	items[1].Completed = true
	check := CanCompleteItem(items, items[4].ID)
	if check.Allowed {
		t.Fatal("order-6 item must stay blocked while order-4 is open")
	}
	if !strings.Contains(check.Reason, "Clear all rooms") || !strings.Contains(check.Reason, "4") {
		t.Errorf("reason = %q, want it to name the order-4 blocker", check.Reason)
	}

	items[2].Completed = true
	check = CanCompleteItem(items, items[4].ID)
	if check.Allowed {
		t.Fatal("order-6 item must stay blocked while order-5 is open")
	}
	if !strings.Contains(check.Reason, "Sweep and tidy") {
		t.Errorf("reason = %q, want it to name the order-5 blocker", check.Reason)
	}

	items[3].Completed = true
	if check := CanCompleteItem(items, items[4].ID); !check.Allowed {
		t.Errorf("order-6 item should unlock once 1-5 are done, got %q", check.Reason)
	}
}

func TestCanCompleteItemEdgeCases(t *testing.T) {
	items := fixedChecklist()
	if check := CanCompleteItem(items, uuid.New()); check.Allowed {
		t.Error("unknown item id must not be completable")
	}
	items[0].Completed = true
	if check := CanCompleteItem(items, items[0].ID); check.Allowed {
		t.Error("already-completed item must not be completable again")
	}
}

func TestAutoCompleteItem(t *testing.T) {
	now := time.Now()
	crew := uuid.New()
	items := []model.ChecklistItem{
		{ID: uuid.New(), Task: "Verify access arrangements", Order: 1},
		{ID: uuid.New(), Task: "Document property condition on arrival", Order: 3, AutoCompleted: true},
	}

	// Manual items never match, regardless of substring.
	if _, ok := AutoCompleteItem(items, "verify access", crew, now); ok {
		t.Error("manual item must not auto-complete")
	}

	id, ok := AutoCompleteItem(items, "PROPERTY CONDITION", crew, now)
	if !ok || id != items[1].ID {
		t.Fatalf("auto-complete failed: ok=%v id=%s", ok, id)
	}
	if !items[1].Completed || items[1].CompletedAt == nil || items[1].CompletedBy == nil {
		t.Errorf("completed item missing metadata: %+v", items[1])
	}
	if *items[1].CompletedBy != crew {
		t.Errorf("completed_by = %s, want %s", *items[1].CompletedBy, crew)
	}

	// Second call finds nothing left to complete.
	if _, ok := AutoCompleteItem(items, "property condition", crew, now); ok {
		t.Error("already-completed item must not auto-complete again")
	}
}

func TestProgressOf(t *testing.T) {
	if got := ProgressOf(nil); got != (Progress{}) {
		t.Errorf("empty checklist progress = %+v, want all zero", got)
	}

	items := fixedChecklist()
	items[0].Completed = true
	items[1].Completed = true

	got := ProgressOf(items)
	if got.Completed != 2 || got.Total != 6 {
		t.Errorf("progress = %+v, want 2/6", got)
	}
	if got.Percentage != 33 {
		t.Errorf("percentage = %d, want 33 (rounded)", got.Percentage)
	}
}

func TestPhotoTasksDone(t *testing.T) {
	items := []model.ChecklistItem{
		{ID: uuid.New(), Task: "a", Order: 1, RequiresPhoto: true},
		{ID: uuid.New(), Task: "b", Order: 2},
	}
	if PhotoTasksDone(items) {
		t.Error("open photo task should block")
	}
	items[0].Completed = true
	if !PhotoTasksDone(items) {
		t.Error("all photo tasks done, should pass")
	}
}
