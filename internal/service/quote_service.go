package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ukprop/clearance/internal/config"
	"github.com/ukprop/clearance/internal/model"
)

type QuoteStore interface {
	CreateQuote(ctx context.Context, quote *model.Quote) error
	GetQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	ListQuotesByJob(ctx context.Context, jobID uuid.UUID) ([]model.Quote, error)
	// UpdateQuoteStatus only matches quotes currently in the given status.
	UpdateQuoteStatus(ctx context.Context, id uuid.UUID, from, to model.QuoteStatus, declineReason *string) (bool, error)
	ExpireQuotes(ctx context.Context, cutoff time.Time) (int64, error)
}

type DocumentGenerator interface {
	Generate(quote model.Quote, job model.Job) ([]byte, error)
}

type QuoteService struct {
	quotes           QuoteStore
	jobs             JobStore
	docs             DocumentGenerator
	defaultValidDays int
	now              func() time.Time
}

func NewQuoteService(quotes QuoteStore, jobs JobStore, docs DocumentGenerator, cfg *config.Config) *QuoteService {
	return &QuoteService{
		quotes:           quotes,
		jobs:             jobs,
		docs:             docs,
		defaultValidDays: cfg.Quotes.ValidDays,
		now:              time.Now,
	}
}

type CreateQuoteInput struct {
	Principal     model.Principal
	JobID         uuid.UUID
	QuoteAmount   float64
	DepositAmount float64
	Notes         string
	ValidDays     int
}

// CreateQuote attaches an admin quote to a pending booking and moves the job
// to admin-quoted. The status update is guarded, so two admins quoting the
// same job at once resolve to one quote.
func (s *QuoteService) CreateQuote(ctx context.Context, input CreateQuoteInput) (*model.Quote, error) {
	if !input.Principal.IsAdmin() && !input.Principal.IsSales() {
		return nil, ErrPermissionDenied
	}
	if input.QuoteAmount <= 0 {
		return nil, fmt.Errorf("%w: quote amount must be positive", ErrInvalidInput)
	}
	if input.DepositAmount < 0 {
		return nil, fmt.Errorf("%w: deposit cannot be negative", ErrInvalidInput)
	}
	if input.DepositAmount > input.QuoteAmount {
		return nil, fmt.Errorf("%w: deposit %.2f exceeds quote amount %.2f", ErrInvalidInput, input.DepositAmount, input.QuoteAmount)
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanTransition(job.Status, model.JobStatusQuoted) {
		return nil, fmt.Errorf("%w: a %s job cannot be quoted", ErrInvalidInput, job.Status)
	}

	ok, err := s.jobs.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobStatusBookingRequest, model.JobStatusPendingReview},
		model.JobStatusQuoted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job was quoted by another admin", ErrConflict)
	}

	validDays := input.ValidDays
	if validDays <= 0 {
		validDays = s.defaultValidDays
	}
	if validDays <= 0 {
		validDays = 14
	}

	now := s.now()
	quote := &model.Quote{
		ID:              uuid.New(),
		JobID:           job.ID,
		PropertyAddress: job.PropertyAddress,
		ServiceType:     job.ServiceType,
		PreferredDate:   job.ScheduledAt,
		QuoteAmount:     input.QuoteAmount,
		DepositAmount:   input.DepositAmount,
		QuoteNotes:      strings.TrimSpace(input.Notes),
		Status:          model.QuoteStatusAwaitingApproval,
		QuotedBy:        input.Principal.UserID,
		CreatedAt:       now,
		ValidUntil:      now.AddDate(0, 0, validDays),
	}
	if err := s.quotes.CreateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// AcceptQuote confirms the booking: the quote is marked accepted, the deposit
// recorded and the job moved to booking-confirmed.
func (s *QuoteService) AcceptQuote(ctx context.Context, principal model.Principal, quoteID uuid.UUID) (*model.Quote, error) {
	quote, job, err := s.quoteForClient(ctx, principal, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != model.QuoteStatusAwaitingApproval {
		return nil, fmt.Errorf("%w: quote is %s", ErrInvalidInput, quote.Status)
	}
	if quote.Expired(s.now()) {
		return nil, fmt.Errorf("%w: quote expired on %s", ErrInvalidInput, quote.ValidUntil.Format("2006-01-02"))
	}

	// The job moves first: if it is no longer admin-quoted (cancelled, or
	// resolved by a racing request) nothing else may happen.
	ok, err := s.jobs.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobStatusQuoted}, model.JobStatusBookingConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job is no longer awaiting this quote", ErrConflict)
	}

	ok, err = s.quotes.UpdateQuoteStatus(ctx, quote.ID, model.QuoteStatusAwaitingApproval, model.QuoteStatusAccepted, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another request resolved the quote first; release the job again.
		if _, revertErr := s.jobs.UpdateJobStatus(ctx, job.ID,
			[]model.JobStatus{model.JobStatusBookingConfirmed}, model.JobStatusQuoted); revertErr != nil {
			return nil, revertErr
		}
		return nil, fmt.Errorf("%w: quote was resolved by another request", ErrConflict)
	}

	if err := s.jobs.RecordDeposit(ctx, job.ID, quote.DepositAmount); err != nil {
		return nil, err
	}

	quote.Status = model.QuoteStatusAccepted
	return quote, nil
}

// DeclineQuote closes the quote cycle with a mandatory reason. The job drops
// back to pending-admin-review so it can be re-quoted.
func (s *QuoteService) DeclineQuote(ctx context.Context, principal model.Principal, quoteID uuid.UUID, reason string) (*model.Quote, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a decline reason is required", ErrInvalidInput)
	}

	quote, job, err := s.quoteForClient(ctx, principal, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != model.QuoteStatusAwaitingApproval {
		return nil, fmt.Errorf("%w: quote is %s", ErrInvalidInput, quote.Status)
	}

	ok, err := s.jobs.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobStatusQuoted}, model.JobStatusPendingReview)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job is no longer awaiting this quote", ErrConflict)
	}

	ok, err = s.quotes.UpdateQuoteStatus(ctx, quote.ID, model.QuoteStatusAwaitingApproval, model.QuoteStatusDeclined, &reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, revertErr := s.jobs.UpdateJobStatus(ctx, job.ID,
			[]model.JobStatus{model.JobStatusPendingReview}, model.JobStatusQuoted); revertErr != nil {
			return nil, revertErr
		}
		return nil, fmt.Errorf("%w: quote was resolved by another request", ErrConflict)
	}

	quote.Status = model.QuoteStatusDeclined
	quote.DeclineReason = &reason
	return quote, nil
}

// ListQuotesForJob returns the quote history of a job, newest cycles last.
// Clients only see quotes on their own jobs.
func (s *QuoteService) ListQuotesForJob(ctx context.Context, principal model.Principal, jobID uuid.UUID) ([]model.Quote, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsStaff() && job.ClientID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return s.quotes.ListQuotesByJob(ctx, jobID)
}

// SweepExpired marks awaiting-approval quotes whose valid_until has passed.
// Called periodically from the worker.
func (s *QuoteService) SweepExpired(ctx context.Context) (int64, error) {
	return s.quotes.ExpireQuotes(ctx, s.now())
}

type QuoteDocumentResult struct {
	FileName string
	Content  []byte
}

func (s *QuoteService) QuoteDocument(ctx context.Context, principal model.Principal, quoteID uuid.UUID) (*QuoteDocumentResult, error) {
	quote, job, err := s.quoteForClient(ctx, principal, quoteID)
	if err != nil {
		return nil, err
	}

	content, err := s.docs.Generate(*quote, *job)
	if err != nil {
		return nil, err
	}
	return &QuoteDocumentResult{
		FileName: fmt.Sprintf("quote-%s.pdf", job.ReferenceID),
		Content:  content,
	}, nil
}

func (s *QuoteService) quoteForClient(ctx context.Context, principal model.Principal, quoteID uuid.UUID) (*model.Quote, *model.Job, error) {
	quote, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	job, err := s.jobs.GetJob(ctx, quote.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if !principal.IsStaff() && job.ClientID != principal.UserID {
		return nil, nil, ErrPermissionDenied
	}
	return quote, job, nil
}
