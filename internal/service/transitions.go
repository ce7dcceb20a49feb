package service

import "github.com/ukprop/clearance/internal/model"

// jobTransitions is the full lifecycle table. A job is created as
// client-booking-request (or draft when saved unsubmitted), quoted by an
// admin, confirmed by the client, then driven by the crew to work-completed,
// where the admin either verifies it for payment or rejects it back to the
// crew. Cancellation is one-way and only available before work starts being
// reviewed.
var jobTransitions = map[model.JobStatus][]model.JobStatus{
	model.JobStatusDraft:            {model.JobStatusBookingRequest, model.JobStatusPendingReview, model.JobStatusCancelled},
	model.JobStatusBookingRequest:   {model.JobStatusPendingReview, model.JobStatusQuoted, model.JobStatusCancelled},
	model.JobStatusPendingReview:    {model.JobStatusQuoted, model.JobStatusCancelled},
	model.JobStatusQuoted:           {model.JobStatusBookingConfirmed, model.JobStatusPendingReview, model.JobStatusCancelled},
	model.JobStatusBookingConfirmed: {model.JobStatusCrewDispatched, model.JobStatusCancelled},
	model.JobStatusCrewDispatched:   {model.JobStatusInProgress, model.JobStatusCancelled},
	model.JobStatusInProgress:       {model.JobStatusWorkCompleted},
	model.JobStatusWorkCompleted:    {model.JobStatusVerified, model.JobStatusAdminRejected},
	model.JobStatusAdminRejected:    {model.JobStatusInProgress},
	model.JobStatusVerified:         {model.JobStatusCompleted},
	model.JobStatusCompleted:        {},
	model.JobStatusCancelled:        {},
}

func CanTransition(from, to model.JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// crewProgression is the subset of transitions a crew member may drive.
var crewProgression = map[model.JobStatus]model.JobStatus{
	model.JobStatusBookingConfirmed: model.JobStatusCrewDispatched,
	model.JobStatusCrewDispatched:   model.JobStatusInProgress,
	model.JobStatusInProgress:       model.JobStatusWorkCompleted,
	model.JobStatusAdminRejected:    model.JobStatusInProgress,
}

func crewCanProgress(from, to model.JobStatus) bool {
	return crewProgression[from] == to
}
