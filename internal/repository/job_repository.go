package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ukprop/clearance/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) NextReferenceSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.WithContext(ctx).Raw(`SELECT nextval('job_reference_seq')`).Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO jobs (
				id,
				reference_id,
				service_type,
				property_address,
				scheduled_at,
				sla_type,
				status,
				client_id,
				payment_status,
				deposit_paid,
				estimated_value,
				created_at,
				updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			job.ID,
			job.ReferenceID,
			job.ServiceType,
			job.PropertyAddress,
			job.ScheduledAt,
			job.SLAType,
			job.Status,
			job.ClientID,
			job.PaymentStatus,
			job.DepositPaid,
			job.EstimatedValue,
			job.CreatedAt,
			job.UpdatedAt,
		).Error; err != nil {
			return err
		}

		for _, item := range job.Checklist {
			if err := tx.Exec(`
				INSERT INTO checklist_items (
					id, job_id, task, item_order, completed, auto_completed, requires_photo
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`, item.ID, job.ID, item.Task, item.Order, item.Completed, item.AutoCompleted, item.RequiresPhoto).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type jobRow struct {
	ID              uuid.UUID
	ReferenceID     string
	ServiceType     model.ServiceType
	PropertyAddress string
	ScheduledAt     time.Time
	SLAType         model.SLAType
	Status          model.JobStatus
	ClientID        uuid.UUID
	PaymentStatus   model.PaymentStatus
	DepositPaid     float64
	EstimatedValue  float64
	FinalPrice      *float64
	FinalDeposit    *float64
	QuotedBy        *uuid.UUID
	QuotedAt        *time.Time
	FinalNotes      *string
	RejectionReason *string
	RejectedAt      *time.Time
	VerifiedBy      *uuid.UUID
	VerifiedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const jobColumns = `
	id,
	reference_id,
	service_type,
	property_address,
	scheduled_at,
	sla_type,
	status,
	client_id,
	payment_status,
	deposit_paid,
	estimated_value,
	final_price,
	final_deposit,
	quoted_by,
	quoted_at,
	final_notes,
	rejection_reason,
	rejected_at,
	verified_by,
	verified_at,
	created_at,
	updated_at
`

func (r *JobRepository) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var row jobRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+jobColumns+` FROM jobs WHERE id = ?
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	job := rowToJob(row)

	if err := r.db.WithContext(ctx).Raw(`
		SELECT crew_id FROM job_crew WHERE job_id = ? ORDER BY assigned_at
	`, id).Scan(&job.CrewIDs).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			job_id,
			task,
			item_order AS "order",
			completed,
			auto_completed,
			requires_photo,
			completed_at,
			completed_by
		FROM checklist_items
		WHERE job_id = ?
		ORDER BY item_order
	`, id).Scan(&job.Checklist).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, job_id, url, type, uploaded_at, uploaded_by
		FROM job_photos
		WHERE job_id = ?
		ORDER BY uploaded_at
	`, id).Scan(&job.Photos).Error; err != nil {
		return nil, err
	}

	return job, nil
}

func (r *JobRepository) ListJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var (
		conditions []string
		args       []interface{}
	)
	if filter.ClientID != nil {
		conditions = append(conditions, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.CrewID != nil {
		conditions = append(conditions, "id IN (SELECT job_id FROM job_crew WHERE crew_id = ?)")
		args = append(args, *filter.CrewID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Service != nil {
		conditions = append(conditions, "service_type = ?")
		args = append(args, *filter.Service)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []jobRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, *rowToJob(row))
	}
	return jobs, nil
}

func (r *JobRepository) UpdateJobStatus(ctx context.Context, id uuid.UUID, from []model.JobStatus, to model.JobStatus) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("at least one expected status is required")
	}
	placeholders := make([]string, len(from))
	args := []interface{}{to, id}
	for i, status := range from {
		placeholders[i] = "?"
		args = append(args, status)
	}

	res := r.db.WithContext(ctx).Exec(fmt.Sprintf(`
		UPDATE jobs SET status = ?, updated_at = NOW()
		WHERE id = ? AND status IN (%s)
	`, strings.Join(placeholders, ",")), args...)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AssignCrew claims the job for a crew. The guarded update keeps two admins
// from both attaching a crew: only the first matching update wins.
func (r *JobRepository) AssignCrew(ctx context.Context, jobID uuid.UUID, crewIDs []uuid.UUID) (bool, error) {
	assigned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE jobs SET updated_at = NOW()
			WHERE id = ?
				AND status = ?
				AND NOT EXISTS (SELECT 1 FROM job_crew WHERE job_id = ?)
		`, jobID, model.JobStatusBookingConfirmed, jobID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		for _, crewID := range crewIDs {
			if err := tx.Exec(`
				INSERT INTO job_crew (job_id, crew_id, assigned_at)
				VALUES (?, ?, NOW())
			`, jobID, crewID).Error; err != nil {
				return err
			}
		}
		assigned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

func (r *JobRepository) SaveChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE checklist_items
		SET completed = ?, completed_at = ?, completed_by = ?
		WHERE id = ? AND job_id = ?
	`, item.Completed, item.CompletedAt, item.CompletedBy, item.ID, item.JobID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *JobRepository) AddPhoto(ctx context.Context, photo model.Photo) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO job_photos (id, job_id, url, type, uploaded_at, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, photo.ID, photo.JobID, photo.URL, photo.Type, photo.UploadedAt, photo.UploadedBy).Error
}

func (r *JobRepository) RecordDeposit(ctx context.Context, jobID uuid.UUID, amount float64) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE jobs
		SET deposit_paid = ?, payment_status = ?, updated_at = NOW()
		WHERE id = ?
	`, amount, model.PaymentStatusDepositPaid, jobID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *JobRepository) VerifyJob(ctx context.Context, jobID uuid.UUID, final model.FinalQuote) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE jobs
		SET status = ?,
			payment_status = ?,
			final_price = ?,
			final_deposit = ?,
			quoted_by = ?,
			quoted_at = ?,
			final_notes = ?,
			verified_by = ?,
			verified_at = ?,
			updated_at = NOW()
		WHERE id = ? AND status = ?
	`,
		model.JobStatusVerified,
		model.PaymentStatusRequested,
		final.FixedPrice,
		final.DepositAmount,
		final.QuotedBy,
		final.QuotedAt,
		final.Notes,
		final.QuotedBy,
		final.QuotedAt,
		jobID,
		model.JobStatusWorkCompleted,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *JobRepository) RejectJob(ctx context.Context, jobID uuid.UUID, reason string, rejectedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE jobs
		SET status = ?, rejection_reason = ?, rejected_at = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, model.JobStatusAdminRejected, reason, rejectedAt, jobID, model.JobStatusWorkCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *JobRepository) CompleteJobPayment(ctx context.Context, jobID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE jobs
		SET status = ?, payment_status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, model.JobStatusCompleted, model.PaymentStatusPaid, jobID, model.JobStatusVerified)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func rowToJob(row jobRow) *model.Job {
	job := &model.Job{
		ID:              row.ID,
		ReferenceID:     row.ReferenceID,
		ServiceType:     row.ServiceType,
		PropertyAddress: row.PropertyAddress,
		ScheduledAt:     row.ScheduledAt,
		SLAType:         row.SLAType,
		Status:          row.Status,
		ClientID:        row.ClientID,
		PaymentStatus:   row.PaymentStatus,
		DepositPaid:     row.DepositPaid,
		EstimatedValue:  row.EstimatedValue,
		RejectionReason: row.RejectionReason,
		RejectedAt:      row.RejectedAt,
		VerifiedBy:      row.VerifiedBy,
		VerifiedAt:      row.VerifiedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.FinalPrice != nil {
		final := model.FinalQuote{FixedPrice: *row.FinalPrice}
		if row.FinalDeposit != nil {
			final.DepositAmount = *row.FinalDeposit
		}
		if row.QuotedBy != nil {
			final.QuotedBy = *row.QuotedBy
		}
		if row.QuotedAt != nil {
			final.QuotedAt = *row.QuotedAt
		}
		if row.FinalNotes != nil {
			final.Notes = *row.FinalNotes
		}
		job.FinalQuote = &final
	}
	return job
}
