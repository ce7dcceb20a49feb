package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ukprop/clearance/internal/model"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = `
	id,
	job_id,
	property_address,
	service_type,
	preferred_date,
	quote_amount,
	deposit_amount,
	quote_notes,
	status,
	decline_reason,
	quoted_by,
	created_at,
	valid_until
`

func (r *QuoteRepository) CreateQuote(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO quotes (
			id,
			job_id,
			property_address,
			service_type,
			preferred_date,
			quote_amount,
			deposit_amount,
			quote_notes,
			status,
			quoted_by,
			created_at,
			valid_until
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		quote.ID,
		quote.JobID,
		quote.PropertyAddress,
		quote.ServiceType,
		quote.PreferredDate,
		quote.QuoteAmount,
		quote.DepositAmount,
		quote.QuoteNotes,
		quote.Status,
		quote.QuotedBy,
		quote.CreatedAt,
		quote.ValidUntil,
	).Error
}

func (r *QuoteRepository) GetQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+` FROM quotes WHERE id = ?
	`, id).Scan(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &quote, nil
}

func (r *QuoteRepository) ListQuotesByJob(ctx context.Context, jobID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+` FROM quotes WHERE job_id = ? ORDER BY created_at DESC
	`, jobID).Scan(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepository) UpdateQuoteStatus(ctx context.Context, id uuid.UUID, from, to model.QuoteStatus, declineReason *string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE quotes SET status = ?, decline_reason = ?
		WHERE id = ? AND status = ?
	`, to, declineReason, id, from)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpireQuotes closes every awaiting-approval quote whose validity window has
// passed. Runs from the periodic sweep.
func (r *QuoteRepository) ExpireQuotes(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE quotes SET status = ?
		WHERE status = ? AND valid_until < ?
	`, model.QuoteStatusExpired, model.QuoteStatusAwaitingApproval, cutoff)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
