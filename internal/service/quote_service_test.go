package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ukprop/clearance/internal/config"
	"github.com/ukprop/clearance/internal/model"
)

func newTestQuoteService(quotes *fakeQuoteStore, jobs *fakeJobStore) *QuoteService {
	svc := NewQuoteService(quotes, jobs, fakeDocumentGenerator{}, &config.Config{
		Quotes: config.QuotesConfig{ValidDays: 14},
	})
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateQuote(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID,
		QuoteAmount: 1200, DepositAmount: 300, Notes: "includes garden waste",
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	if quote.Status != model.QuoteStatusAwaitingApproval {
		t.Errorf("status = %s, want awaiting-approval", quote.Status)
	}
	if quote.PropertyAddress != job.PropertyAddress || quote.ServiceType != job.ServiceType {
		t.Error("quote should snapshot the job's address and service")
	}
	if got := quote.ValidUntil.Sub(quote.CreatedAt); got != 14*24*time.Hour {
		t.Errorf("validity window = %v, want default 14 days", got)
	}
	if jobs.jobs[job.ID].Status != model.JobStatusQuoted {
		t.Errorf("job status = %s, want admin-quoted", jobs.jobs[job.ID].Status)
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	tests := []struct {
		name  string
		input CreateQuoteInput
		want  error
	}{
		{"client cannot quote", CreateQuoteInput{Principal: testClient, JobID: job.ID, QuoteAmount: 100}, ErrPermissionDenied},
		{"zero amount", CreateQuoteInput{Principal: testAdmin, JobID: job.ID}, ErrInvalidInput},
		{"deposit above amount", CreateQuoteInput{Principal: testAdmin, JobID: job.ID, QuoteAmount: 100, DepositAmount: 150}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateQuote(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	// A job already being worked cannot be re-quoted.
	working := seedJob(t, jobSvc, jobs, model.JobStatusInProgress)
	_, err := svc.CreateQuote(context.Background(), CreateQuoteInput{Principal: testAdmin, JobID: working.ID, QuoteAmount: 500})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("in-progress quote err = %v, want ErrInvalidInput", err)
	}
}

func TestAcceptQuote(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000, DepositAmount: 250,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	accepted, err := svc.AcceptQuote(context.Background(), testClient, quote.ID)
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}
	if accepted.Status != model.QuoteStatusAccepted {
		t.Errorf("quote status = %s, want accepted", accepted.Status)
	}

	stored := jobs.jobs[job.ID]
	if stored.Status != model.JobStatusBookingConfirmed {
		t.Errorf("job status = %s, want booking-confirmed", stored.Status)
	}
	if stored.DepositPaid != 250 || stored.PaymentStatus != model.PaymentStatusDepositPaid {
		t.Errorf("deposit = %v/%s, want 250/deposit-paid", stored.DepositPaid, stored.PaymentStatus)
	}

	// Accepting twice is a conflict error, not a second confirmation.
	if _, err := svc.AcceptQuote(context.Background(), testClient, quote.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("double accept err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateQuoteConcurrentAdmins(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	// Another admin quotes the job between this request's read and its
	// guarded update; the stale snapshot still says pending-admin-review.
	jobs.afterGet = func() { jobs.jobs[job.ID].Status = model.JobStatusQuoted }

	_, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1200,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("racing quote err = %v, want ErrConflict", err)
	}
	if len(quotes.quotes) != 0 {
		t.Errorf("quotes = %d, want none from the losing admin", len(quotes.quotes))
	}
	if jobs.jobs[job.ID].Status != model.JobStatusQuoted {
		t.Errorf("job status = %s, want the winner's admin-quoted", jobs.jobs[job.ID].Status)
	}
}

func TestAcceptQuoteJobConflict(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000, DepositAmount: 250,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	// The client cancels the quoted job, then tries to accept anyway.
	if err := jobSvc.CancelJob(context.Background(), testClient, job.ID); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if _, err := svc.AcceptQuote(context.Background(), testClient, quote.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("accept on cancelled job err = %v, want ErrConflict", err)
	}

	// Nothing may have moved: no deposit, quote untouched, job cancelled.
	stored := jobs.jobs[job.ID]
	if stored.Status != model.JobStatusCancelled {
		t.Errorf("job status = %s, want cancelled", stored.Status)
	}
	if stored.DepositPaid != 0 || stored.PaymentStatus != model.PaymentStatusNone {
		t.Errorf("deposit = %v/%s, want no deposit on a cancelled job", stored.DepositPaid, stored.PaymentStatus)
	}
	if quotes.quotes[quote.ID].Status != model.QuoteStatusAwaitingApproval {
		t.Errorf("quote status = %s, want awaiting-approval", quotes.quotes[quote.ID].Status)
	}
}

func TestDeclineQuoteJobConflict(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	if err := jobSvc.CancelJob(context.Background(), testClient, job.ID); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if _, err := svc.DeclineQuote(context.Background(), testClient, quote.ID, "changed my mind"); !errors.Is(err, ErrConflict) {
		t.Fatalf("decline on cancelled job err = %v, want ErrConflict", err)
	}

	stored := quotes.quotes[quote.ID]
	if stored.Status != model.QuoteStatusAwaitingApproval || stored.DeclineReason != nil {
		t.Errorf("quote = %s/%v, want untouched awaiting-approval", stored.Status, stored.DeclineReason)
	}
	if jobs.jobs[job.ID].Status != model.JobStatusCancelled {
		t.Errorf("job status = %s, want cancelled", jobs.jobs[job.ID].Status)
	}
}

func TestAcceptQuoteExpired(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000, ValidDays: 7,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	svc.now = func() time.Time { return quote.ValidUntil.Add(time.Hour) }
	if _, err := svc.AcceptQuote(context.Background(), testClient, quote.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expired accept err = %v, want ErrInvalidInput", err)
	}
}

func TestDeclineQuote(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	if _, err := svc.DeclineQuote(context.Background(), testClient, quote.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank reason err = %v, want ErrInvalidInput", err)
	}

	declined, err := svc.DeclineQuote(context.Background(), testClient, quote.ID, "too expensive")
	if err != nil {
		t.Fatalf("DeclineQuote: %v", err)
	}
	if declined.Status != model.QuoteStatusDeclined {
		t.Errorf("status = %s, want declined", declined.Status)
	}
	if declined.DeclineReason == nil || *declined.DeclineReason != "too expensive" {
		t.Errorf("reason = %v, want recorded", declined.DeclineReason)
	}

	// The job drops back for re-quoting.
	if jobs.jobs[job.ID].Status != model.JobStatusPendingReview {
		t.Errorf("job status = %s, want pending-admin-review", jobs.jobs[job.ID].Status)
	}
	if _, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 800,
	}); err != nil {
		t.Errorf("re-quote after decline: %v", err)
	}
}

func TestListQuotesForJob(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if _, err := svc.DeclineQuote(context.Background(), testClient, quote.ID, "too expensive"); err != nil {
		t.Fatalf("DeclineQuote: %v", err)
	}
	if _, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 900,
	}); err != nil {
		t.Fatalf("re-quote: %v", err)
	}

	listed, err := svc.ListQuotesForJob(context.Background(), testClient, job.ID)
	if err != nil {
		t.Fatalf("ListQuotesForJob: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("quotes = %d, want 2", len(listed))
	}

	stranger := model.Principal{UserID: uuid.New(), Role: model.RoleClient}
	if _, err := svc.ListQuotesForJob(context.Background(), stranger, job.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("stranger err = %v, want ErrPermissionDenied", err)
	}
}

func TestSweepExpired(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000, ValidDays: 3,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	// Before the deadline nothing expires.
	n, err := svc.SweepExpired(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("early sweep = %d, %v; want 0, nil", n, err)
	}

	svc.now = func() time.Time { return quote.ValidUntil.Add(time.Minute) }
	n, err = svc.SweepExpired(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("sweep = %d, %v; want 1, nil", n, err)
	}
	if quotes.quotes[quote.ID].Status != model.QuoteStatusExpired {
		t.Errorf("quote status = %s, want expired", quotes.quotes[quote.ID].Status)
	}
}

func TestQuoteDocument(t *testing.T) {
	jobs := newFakeJobStore()
	quotes := newFakeQuoteStore()
	jobSvc := newTestJobService(jobs)
	svc := newTestQuoteService(quotes, jobs)
	job := seedJob(t, jobSvc, jobs, model.JobStatusPendingReview)

	quote, err := svc.CreateQuote(context.Background(), CreateQuoteInput{
		Principal: testAdmin, JobID: job.ID, QuoteAmount: 1000,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	doc, err := svc.QuoteDocument(context.Background(), testClient, quote.ID)
	if err != nil {
		t.Fatalf("QuoteDocument: %v", err)
	}
	if doc.FileName != "quote-"+job.ReferenceID+".pdf" {
		t.Errorf("file name = %s", doc.FileName)
	}
	if len(doc.Content) == 0 {
		t.Error("document content is empty")
	}
}
