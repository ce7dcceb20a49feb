package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ukprop/clearance/internal/model"
)

// fakeJobStore keeps jobs in memory and mirrors the repository's guarded
// update semantics so conflict paths are exercisable without a database.
type fakeJobStore struct {
	jobs map[uuid.UUID]*model.Job
	seq  int64
	// afterGet, when set, runs once after the next read returns its
	// snapshot, simulating a concurrent writer landing behind a stale read.
	afterGet func()
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[uuid.UUID]*model.Job)}
}

func (f *fakeJobStore) CreateJob(_ context.Context, job *model.Job) error {
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStore) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *job
	if f.afterGet != nil {
		hook := f.afterGet
		f.afterGet = nil
		hook()
	}
	return &copied, nil
}

func (f *fakeJobStore) ListJobs(_ context.Context, filter model.JobFilter) ([]model.Job, error) {
	var out []model.Job
	for _, job := range f.jobs {
		if filter.ClientID != nil && job.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		if filter.CrewID != nil {
			if !memberOf(job.CrewIDs, *filter.CrewID) {
				continue
			}
		}
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeJobStore) NextReferenceSeq(context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeJobStore) UpdateJobStatus(_ context.Context, id uuid.UUID, from []model.JobStatus, to model.JobStatus) (bool, error) {
	job, ok := f.jobs[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if job.Status == status {
			job.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobStore) AssignCrew(_ context.Context, jobID uuid.UUID, crewIDs []uuid.UUID) (bool, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.Status != model.JobStatusBookingConfirmed || len(job.CrewIDs) > 0 {
		return false, nil
	}
	job.CrewIDs = append([]uuid.UUID(nil), crewIDs...)
	return true, nil
}

func (f *fakeJobStore) SaveChecklistItem(_ context.Context, item model.ChecklistItem) error {
	job, ok := f.jobs[item.JobID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range job.Checklist {
		if job.Checklist[i].ID == item.ID {
			job.Checklist[i] = item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeJobStore) AddPhoto(_ context.Context, photo model.Photo) error {
	job, ok := f.jobs[photo.JobID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	job.Photos = append(job.Photos, photo)
	return nil
}

func (f *fakeJobStore) RecordDeposit(_ context.Context, jobID uuid.UUID, amount float64) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	job.DepositPaid = amount
	job.PaymentStatus = model.PaymentStatusDepositPaid
	return nil
}

func (f *fakeJobStore) VerifyJob(_ context.Context, jobID uuid.UUID, final model.FinalQuote) (bool, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.Status != model.JobStatusWorkCompleted {
		return false, nil
	}
	job.Status = model.JobStatusVerified
	job.PaymentStatus = model.PaymentStatusRequested
	job.FinalQuote = &final
	return true, nil
}

func (f *fakeJobStore) RejectJob(_ context.Context, jobID uuid.UUID, reason string, rejectedAt time.Time) (bool, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.Status != model.JobStatusWorkCompleted {
		return false, nil
	}
	job.Status = model.JobStatusAdminRejected
	job.RejectionReason = &reason
	job.RejectedAt = &rejectedAt
	return true, nil
}

func (f *fakeJobStore) CompleteJobPayment(_ context.Context, jobID uuid.UUID) (bool, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.Status != model.JobStatusVerified {
		return false, nil
	}
	job.Status = model.JobStatusCompleted
	job.PaymentStatus = model.PaymentStatusPaid
	return true, nil
}

type fakeQuoteStore struct {
	quotes map[uuid.UUID]*model.Quote
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: make(map[uuid.UUID]*model.Quote)}
}

func (f *fakeQuoteStore) CreateQuote(_ context.Context, quote *model.Quote) error {
	copied := *quote
	f.quotes[quote.ID] = &copied
	return nil
}

func (f *fakeQuoteStore) GetQuote(_ context.Context, id uuid.UUID) (*model.Quote, error) {
	quote, ok := f.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quote
	return &copied, nil
}

func (f *fakeQuoteStore) ListQuotesByJob(_ context.Context, jobID uuid.UUID) ([]model.Quote, error) {
	var out []model.Quote
	for _, quote := range f.quotes {
		if quote.JobID == jobID {
			out = append(out, *quote)
		}
	}
	return out, nil
}

func (f *fakeQuoteStore) UpdateQuoteStatus(_ context.Context, id uuid.UUID, from, to model.QuoteStatus, declineReason *string) (bool, error) {
	quote, ok := f.quotes[id]
	if !ok || quote.Status != from {
		return false, nil
	}
	quote.Status = to
	quote.DeclineReason = declineReason
	return true, nil
}

func (f *fakeQuoteStore) ExpireQuotes(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, quote := range f.quotes {
		if quote.Status == model.QuoteStatusAwaitingApproval && cutoff.After(quote.ValidUntil) {
			quote.Status = model.QuoteStatusExpired
			n++
		}
	}
	return n, nil
}

type fakeReportGenerator struct{}

func (fakeReportGenerator) Generate([]model.Job, time.Time) ([]byte, error) {
	return []byte("xlsx"), nil
}

type fakeDocumentGenerator struct{}

func (fakeDocumentGenerator) Generate(model.Quote, model.Job) ([]byte, error) {
	return []byte("pdf"), nil
}
