// Package checklist builds and polices the ordered task list a crew works
// through on site. Items must be completed strictly in order; selected items
// complete automatically when evidence (for example a photo upload) arrives.
package checklist

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukprop/clearance/internal/model"
)

type taskSpec struct {
	task          string
	order         int
	auto          bool
	requiresPhoto bool
}

// prefixTasks opens every checklist. Order 2 is reserved for a legacy
// key-collection step that was dropped; the gap is kept so historic jobs and
// new ones sort the same way.
var prefixTasks = []taskSpec{
	{task: "Verify access arrangements with client", order: 1},
	{task: "Document property condition on arrival", order: 3, auto: true, requiresPhoto: true},
}

var suffixTasks = []taskSpec{
	{task: "Obtain client sign-off", order: 99},
}

var serviceTasks = map[model.ServiceType][]taskSpec{
	model.ServiceHouseClearance: {
		{task: "Clear all rooms of contents", order: 4},
		{task: "Sweep and tidy cleared areas", order: 5},
		{task: "Photograph cleared rooms", order: 6, auto: true, requiresPhoto: true},
	},
	model.ServiceOfficeMove: {
		{task: "Pack and label office equipment", order: 4},
		{task: "Disconnect and wrap IT hardware", order: 5},
		{task: "Load and secure items for transit", order: 6},
	},
	model.ServiceEmergency: {
		{task: "Assess and isolate hazards", order: 4},
		{task: "Remove priority waste", order: 5},
		{task: "Photograph site made safe", order: 6, auto: true, requiresPhoto: true},
	},
	model.ServicePropertyTurnover: {
		{task: "Remove tenant belongings", order: 4},
		{task: "Deep clean all rooms", order: 5},
		{task: "Photograph rooms ready for re-let", order: 6, auto: true, requiresPhoto: true},
	},
	model.ServiceVoidTurnover: {
		{task: "Clear void property of contents", order: 4},
		{task: "Check and secure all entry points", order: 5},
		{task: "Photograph secured property", order: 6, auto: true, requiresPhoto: true},
	},
	model.ServiceHoarderClearout: {
		{task: "Sort items for disposal and salvage", order: 4},
		{task: "Remove waste in staged loads", order: 5},
		{task: "Sanitise cleared areas", order: 6},
		{task: "Photograph cleared property", order: 7, auto: true, requiresPhoto: true},
	},
	model.ServiceFireFloodMoveout: {
		{task: "Remove damaged contents", order: 4},
		{task: "Separate salvageable items", order: 5},
		{task: "Photograph damage for insurer", order: 6, auto: true, requiresPhoto: true},
	},
	model.ServiceProbateClearance: {
		{task: "Catalogue items of value", order: 4},
		{task: "Set aside documents and valuables", order: 5},
		{task: "Clear remaining contents", order: 6},
	},
	model.ServiceFurnitureRemoval: {
		{task: "Dismantle large furniture items", order: 4},
		{task: "Load furniture for disposal", order: 5},
	},
	model.ServiceLockChange: {
		{task: "Replace locks on all external doors", order: 4},
		{task: "Test and label new keys", order: 5},
	},
	model.ServiceMinorRepairs: {
		{task: "Complete agreed repair list", order: 4},
		{task: "Photograph finished repairs", order: 5, auto: true, requiresPhoto: true},
	},
}

// ForServiceType returns the ordered checklist for a new job. Unknown service
// types still get the shared prefix and sign-off so the job is workable.
func ForServiceType(service model.ServiceType) []model.ChecklistItem {
	specs := make([]taskSpec, 0, len(prefixTasks)+len(suffixTasks)+4)
	specs = append(specs, prefixTasks...)
	specs = append(specs, serviceTasks[service]...)
	specs = append(specs, suffixTasks...)

	items := make([]model.ChecklistItem, 0, len(specs))
	for _, spec := range specs {
		items = append(items, model.ChecklistItem{
			ID:            uuid.New(),
			Task:          spec.task,
			Order:         spec.order,
			AutoCompleted: spec.auto,
			RequiresPhoto: spec.requiresPhoto,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items
}

type CompletionCheck struct {
	Allowed bool
	Reason  string
}

// CanCompleteItem enforces strict ordering: an item is completable only once
// every item with a lower order is done. The reason names the first blocker so
// the crew app can point at it.
func CanCompleteItem(items []model.ChecklistItem, itemID uuid.UUID) CompletionCheck {
	var target *model.ChecklistItem
	for i := range items {
		if items[i].ID == itemID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return CompletionCheck{Reason: "checklist item not found"}
	}
	if target.Completed {
		return CompletionCheck{Reason: "item already completed"}
	}

	var blocker *model.ChecklistItem
	for i := range items {
		item := &items[i]
		if item.Completed || item.Order >= target.Order {
			continue
		}
		if blocker == nil || item.Order < blocker.Order {
			blocker = item
		}
	}
	if blocker != nil {
		return CompletionCheck{
			Reason: fmt.Sprintf("complete %q (step %d) first", blocker.Task, blocker.Order),
		}
	}
	return CompletionCheck{Allowed: true}
}

// AutoCompleteItem completes the first incomplete auto-completable item whose
// task contains the given text, case-insensitively. Items that require manual
// confirmation are never auto-completed.
func AutoCompleteItem(items []model.ChecklistItem, taskSubstring string, completedBy uuid.UUID, now time.Time) (uuid.UUID, bool) {
	needle := strings.ToLower(taskSubstring)
	for i := range items {
		item := &items[i]
		if item.Completed || !item.AutoCompleted {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Task), needle) {
			continue
		}
		item.Completed = true
		item.CompletedAt = &now
		item.CompletedBy = &completedBy
		return item.ID, true
	}
	return uuid.Nil, false
}

type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

func ProgressOf(items []model.ChecklistItem) Progress {
	p := Progress{Total: len(items)}
	for _, item := range items {
		if item.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// PhotoTasksDone reports whether every photo-requiring item is completed.
// Jobs cannot be marked work-completed until this holds.
func PhotoTasksDone(items []model.ChecklistItem) bool {
	for _, item := range items {
		if item.RequiresPhoto && !item.Completed {
			return false
		}
	}
	return true
}
