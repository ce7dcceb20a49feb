package service

import (
	"testing"

	"github.com/ukprop/clearance/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  model.JobStatus
		to    model.JobStatus
		allow bool
	}{
		{"request to quoted", model.JobStatusBookingRequest, model.JobStatusQuoted, true},
		{"quoted to confirmed", model.JobStatusQuoted, model.JobStatusBookingConfirmed, true},
		{"quoted back to pending on decline", model.JobStatusQuoted, model.JobStatusPendingReview, true},
		{"confirmed to dispatched", model.JobStatusBookingConfirmed, model.JobStatusCrewDispatched, true},
		{"dispatched to in-progress", model.JobStatusCrewDispatched, model.JobStatusInProgress, true},
		{"in-progress to work-completed", model.JobStatusInProgress, model.JobStatusWorkCompleted, true},
		{"work-completed to verified", model.JobStatusWorkCompleted, model.JobStatusVerified, true},
		{"work-completed to rejected", model.JobStatusWorkCompleted, model.JobStatusAdminRejected, true},
		{"rejected back to in-progress", model.JobStatusAdminRejected, model.JobStatusInProgress, true},
		{"verified to completed", model.JobStatusVerified, model.JobStatusCompleted, true},

		{"skip quoting", model.JobStatusBookingRequest, model.JobStatusBookingConfirmed, false},
		{"skip dispatch", model.JobStatusBookingConfirmed, model.JobStatusInProgress, false},
		{"completed is terminal", model.JobStatusCompleted, model.JobStatusInProgress, false},
		{"cancelled is terminal", model.JobStatusCancelled, model.JobStatusBookingRequest, false},
		{"no cancel once in progress", model.JobStatusInProgress, model.JobStatusCancelled, false},
		{"no backwards from verified", model.JobStatusVerified, model.JobStatusWorkCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allow {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allow)
			}
		})
	}
}

func TestCancellableStates(t *testing.T) {
	cancellable := []model.JobStatus{
		model.JobStatusDraft,
		model.JobStatusBookingRequest,
		model.JobStatusPendingReview,
		model.JobStatusQuoted,
		model.JobStatusBookingConfirmed,
		model.JobStatusCrewDispatched,
	}
	for _, status := range cancellable {
		if !CanTransition(status, model.JobStatusCancelled) {
			t.Errorf("%s should be cancellable", status)
		}
	}

	locked := []model.JobStatus{
		model.JobStatusInProgress,
		model.JobStatusWorkCompleted,
		model.JobStatusVerified,
		model.JobStatusCompleted,
	}
	for _, status := range locked {
		if CanTransition(status, model.JobStatusCancelled) {
			t.Errorf("%s should not be cancellable", status)
		}
	}
}

func TestCrewProgression(t *testing.T) {
	if !crewCanProgress(model.JobStatusAdminRejected, model.JobStatusInProgress) {
		t.Error("crew should be able to resume a rejected job")
	}
	if crewCanProgress(model.JobStatusWorkCompleted, model.JobStatusVerified) {
		t.Error("crew must not verify their own work")
	}
}
