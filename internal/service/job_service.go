package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ukprop/clearance/internal/checklist"
	"github.com/ukprop/clearance/internal/model"
	"github.com/ukprop/clearance/internal/pricing"
)

// JobStore is the persistence surface the job service depends on. Mutating
// methods that return a bool report whether the guarded update matched a row;
// false means another caller changed the job first.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	NextReferenceSeq(ctx context.Context) (int64, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, from []model.JobStatus, to model.JobStatus) (bool, error)
	AssignCrew(ctx context.Context, jobID uuid.UUID, crewIDs []uuid.UUID) (bool, error)
	SaveChecklistItem(ctx context.Context, item model.ChecklistItem) error
	AddPhoto(ctx context.Context, photo model.Photo) error
	RecordDeposit(ctx context.Context, jobID uuid.UUID, amount float64) error
	VerifyJob(ctx context.Context, jobID uuid.UUID, final model.FinalQuote) (bool, error)
	RejectJob(ctx context.Context, jobID uuid.UUID, reason string, rejectedAt time.Time) (bool, error)
	CompleteJobPayment(ctx context.Context, jobID uuid.UUID) (bool, error)
}

// ReportGenerator renders the admin jobs report; see internal/excel.
type ReportGenerator interface {
	Generate(jobs []model.Job, now time.Time) ([]byte, error)
}

type JobService struct {
	jobs    JobStore
	reports ReportGenerator
	now     func() time.Time
}

func NewJobService(jobs JobStore, reports ReportGenerator) *JobService {
	return &JobService{jobs: jobs, reports: reports, now: time.Now}
}

type CreateBookingInput struct {
	Principal       model.Principal
	ServiceType     model.ServiceType
	PropertyAddress string
	ScheduledAt     time.Time
	SLAType         model.SLAType
	Pricing         pricing.Options
	Draft           bool
}

// CreateBooking registers a client booking request, prices it from the survey
// options and attaches the service checklist.
func (s *JobService) CreateBooking(ctx context.Context, input CreateBookingInput) (*model.Job, error) {
	if !input.Principal.IsClient() && !input.Principal.IsSales() {
		return nil, ErrPermissionDenied
	}
	if _, ok := model.ParseServiceType(string(input.ServiceType)); !ok {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, input.ServiceType)
	}
	if strings.TrimSpace(input.PropertyAddress) == "" {
		return nil, fmt.Errorf("%w: property address is required", ErrInvalidInput)
	}
	if input.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date is required", ErrInvalidInput)
	}
	if _, ok := model.ParseSLAType(string(input.SLAType)); !ok {
		return nil, fmt.Errorf("%w: unknown sla type %q", ErrInvalidInput, input.SLAType)
	}

	seq, err := s.jobs.NextReferenceSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := model.JobStatusBookingRequest
	if input.Draft {
		status = model.JobStatusDraft
	}

	estimate := pricing.CalculateDetailedPrice(input.Pricing)
	job := &model.Job{
		ID:              uuid.New(),
		ReferenceID:     model.BuildReferenceID(now.Year(), seq, input.ServiceType),
		ServiceType:     input.ServiceType,
		PropertyAddress: strings.TrimSpace(input.PropertyAddress),
		ScheduledAt:     input.ScheduledAt,
		SLAType:         input.SLAType,
		Status:          status,
		ClientID:        input.Principal.UserID,
		PaymentStatus:   model.PaymentStatusNone,
		EstimatedValue:  estimate.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job.Checklist = checklist.ForServiceType(input.ServiceType)
	for i := range job.Checklist {
		job.Checklist[i].JobID = job.ID
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// SubmitBooking sends a draft booking for review. Only the owning client (or
// staff) may submit, and only while the job is still a draft.
func (s *JobService) SubmitBooking(ctx context.Context, principal model.Principal, jobID uuid.UUID) (*model.Job, error) {
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
	if job.Status != model.JobStatusDraft {
		return nil, fmt.Errorf("%w: only draft bookings can be submitted", ErrInvalidInput)
	}

	ok, err := s.jobs.UpdateJobStatus(ctx, job.ID,
		[]model.JobStatus{model.JobStatusDraft}, model.JobStatusBookingRequest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}
	job.Status = model.JobStatusBookingRequest
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Job, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsStaff() && job.ClientID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, principal model.Principal, filter model.JobFilter) ([]model.Job, error) {
	if !principal.IsStaff() {
		filter.ClientID = &principal.UserID
	}
	if principal.IsCrew() {
		filter.CrewID = &principal.UserID
	}
	return s.jobs.ListJobs(ctx, filter)
}

type AssignCrewInput struct {
	Principal model.Principal
	JobID     uuid.UUID
	CrewIDs   []uuid.UUID
}

// AssignCrew attaches a crew to a confirmed booking. The store enforces that
// the job is still booking-confirmed with no crew, so two admins racing to
// assign resolve to exactly one winner.
func (s *JobService) AssignCrew(ctx context.Context, input AssignCrewInput) error {
	if !input.Principal.IsAdmin() && !input.Principal.IsManagement() {
		return ErrPermissionDenied
	}
	if len(input.CrewIDs) == 0 {
		return fmt.Errorf("%w: at least one crew member is required", ErrInvalidInput)
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if job.Status != model.JobStatusBookingConfirmed {
		return fmt.Errorf("%w: job is %s, crew can only be assigned to a confirmed booking", ErrConflict, job.Status)
	}
	if len(job.CrewIDs) > 0 {
		return fmt.Errorf("%w: job already has a crew assigned", ErrConflict)
	}

	ok, err := s.jobs.AssignCrew(ctx, input.JobID, input.CrewIDs)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: job was updated by another admin", ErrConflict)
	}
	return nil
}

type ProgressJobInput struct {
	Principal model.Principal
	JobID     uuid.UUID
	To        model.JobStatus
}

// ProgressJob advances a job along the crew-driven part of the lifecycle.
// Marking a job work-completed additionally requires every photo-requiring
// checklist item to be done.
func (s *JobService) ProgressJob(ctx context.Context, input ProgressJobInput) (*model.Job, error) {
	if !input.Principal.IsCrew() && !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Principal.IsCrew() {
		if !memberOf(job.CrewIDs, input.Principal.UserID) {
			return nil, ErrPermissionDenied
		}
		if !crewCanProgress(job.Status, input.To) {
			return nil, fmt.Errorf("%w: cannot move %s job to %s", ErrInvalidInput, job.Status, input.To)
		}
	} else if !CanTransition(job.Status, input.To) {
		return nil, fmt.Errorf("%w: cannot move %s job to %s", ErrInvalidInput, job.Status, input.To)
	}

	if input.To == model.JobStatusWorkCompleted && !checklist.PhotoTasksDone(job.Checklist) {
		return nil, fmt.Errorf("%w: photo checklist items must be completed first", ErrInvalidInput)
	}

	ok, err := s.jobs.UpdateJobStatus(ctx, job.ID, []model.JobStatus{job.Status}, input.To)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}
	job.Status = input.To
	return job, nil
}

type CompleteChecklistItemInput struct {
	Principal model.Principal
	JobID     uuid.UUID
	ItemID    uuid.UUID
}

func (s *JobService) CompleteChecklistItem(ctx context.Context, input CompleteChecklistItemInput) (*model.ChecklistItem, error) {
	if !input.Principal.IsCrew() {
		return nil, ErrPermissionDenied
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !memberOf(job.CrewIDs, input.Principal.UserID) {
		return nil, ErrPermissionDenied
	}

	check := checklist.CanCompleteItem(job.Checklist, input.ItemID)
	if !check.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, check.Reason)
	}

	now := s.now()
	for i := range job.Checklist {
		if job.Checklist[i].ID != input.ItemID {
			continue
		}
		item := &job.Checklist[i]
		item.Completed = true
		item.CompletedAt = &now
		item.CompletedBy = &input.Principal.UserID
		if err := s.jobs.SaveChecklistItem(ctx, *item); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, ErrNotFound
}

type AddPhotoInput struct {
	Principal model.Principal
	JobID     uuid.UUID
	URL       string
	Type      model.PhotoType
}

// AddPhoto records photo metadata against the job and auto-completes the
// matching evidence task: before-photos document the arrival condition,
// after-photos satisfy the photograph task for the service block.
func (s *JobService) AddPhoto(ctx context.Context, input AddPhotoInput) (*model.Photo, error) {
	if !input.Principal.IsCrew() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, fmt.Errorf("%w: photo url is required", ErrInvalidInput)
	}
	if input.Type != model.PhotoBefore && input.Type != model.PhotoAfter {
		return nil, fmt.Errorf("%w: photo type must be before or after", ErrInvalidInput)
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !memberOf(job.CrewIDs, input.Principal.UserID) {
		return nil, ErrPermissionDenied
	}

	now := s.now()
	photo := model.Photo{
		ID:         uuid.New(),
		JobID:      job.ID,
		URL:        strings.TrimSpace(input.URL),
		Type:       input.Type,
		UploadedAt: now,
		UploadedBy: input.Principal.UserID,
	}
	if err := s.jobs.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}

	task := "photograph"
	if input.Type == model.PhotoBefore {
		task = "condition"
	}
	if itemID, done := checklist.AutoCompleteItem(job.Checklist, task, input.Principal.UserID, now); done {
		for _, item := range job.Checklist {
			if item.ID == itemID {
				if err := s.jobs.SaveChecklistItem(ctx, item); err != nil {
					return nil, err
				}
				break
			}
		}
	}
	return &photo, nil
}

type VerifyJobInput struct {
	Principal  model.Principal
	JobID      uuid.UUID
	FinalPrice float64
	Notes      string
}

// VerifyJob approves completed work and issues the payment request. The
// remaining amount is the final price minus the deposit already paid; a final
// price below the deposit is a validation error and leaves the job untouched.
func (s *JobService) VerifyJob(ctx context.Context, input VerifyJobInput) (*model.Job, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.FinalPrice <= 0 {
		return nil, fmt.Errorf("%w: final price is required", ErrInvalidInput)
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if job.Status != model.JobStatusWorkCompleted {
		return nil, fmt.Errorf("%w: only work-completed jobs can be verified", ErrInvalidInput)
	}

	deposit := job.DepositPaid
	if input.FinalPrice < deposit {
		return nil, fmt.Errorf("%w: deposit %.2f exceeds final price %.2f", ErrInvalidInput, deposit, input.FinalPrice)
	}

	final := model.FinalQuote{
		FixedPrice:    input.FinalPrice,
		DepositAmount: deposit,
		QuotedBy:      input.Principal.UserID,
		QuotedAt:      s.now(),
		Notes:         strings.TrimSpace(input.Notes),
	}
	ok, err := s.jobs.VerifyJob(ctx, job.ID, final)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}

	job.Status = model.JobStatusVerified
	job.PaymentStatus = model.PaymentStatusRequested
	job.FinalQuote = &final
	return job, nil
}

type RejectJobInput struct {
	Principal model.Principal
	JobID     uuid.UUID
	Reason    string
}

// RejectJob sends completed work back to the crew. The job lands in
// admin-rejected with the reason recorded; the crew resumes it explicitly
// through ProgressJob rather than the status reverting on its own.
func (s *JobService) RejectJob(ctx context.Context, input RejectJobInput) error {
	if !input.Principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(input.Reason) == "" {
		return fmt.Errorf("%w: a rejection reason is required", ErrInvalidInput)
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if job.Status != model.JobStatusWorkCompleted {
		return fmt.Errorf("%w: only work-completed jobs can be rejected", ErrInvalidInput)
	}

	ok, err := s.jobs.RejectJob(ctx, job.ID, strings.TrimSpace(input.Reason), s.now())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}
	return nil
}

// CompleteFinalPayment records the client's closing payment and finishes the
// job.
func (s *JobService) CompleteFinalPayment(ctx context.Context, principal model.Principal, jobID uuid.UUID) error {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if !principal.IsStaff() && job.ClientID != principal.UserID {
		return ErrPermissionDenied
	}
	if job.Status != model.JobStatusVerified {
		return fmt.Errorf("%w: payment is only due on verified jobs", ErrInvalidInput)
	}

	ok, err := s.jobs.CompleteJobPayment(ctx, jobID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}
	return nil
}

// CancelJob is a one-way transition available to the client (own jobs) and
// staff before review of completed work begins.
func (s *JobService) CancelJob(ctx context.Context, principal model.Principal, jobID uuid.UUID) error {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if !principal.IsStaff() && job.ClientID != principal.UserID {
		return ErrPermissionDenied
	}
	if !CanTransition(job.Status, model.JobStatusCancelled) {
		return fmt.Errorf("%w: a %s job can no longer be cancelled", ErrInvalidInput, job.Status)
	}

	ok, err := s.jobs.UpdateJobStatus(ctx, jobID, []model.JobStatus{job.Status}, model.JobStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: job status changed underneath this update", ErrConflict)
	}
	return nil
}

type ExportJobsInput struct {
	Principal model.Principal
	Filter    model.JobFilter
}

type ExportJobsResult struct {
	FileName string
	Content  []byte
}

func (s *JobService) ExportJobs(ctx context.Context, input ExportJobsInput) (*ExportJobsResult, error) {
	if !input.Principal.IsAdmin() && !input.Principal.IsManagement() {
		return nil, ErrPermissionDenied
	}

	jobs, err := s.jobs.ListJobs(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	content, err := s.reports.Generate(jobs, now)
	if err != nil {
		return nil, err
	}
	return &ExportJobsResult{
		FileName: fmt.Sprintf("jobs-%s.xlsx", now.Format("20060102-150405")),
		Content:  content,
	}, nil
}

func memberOf(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
