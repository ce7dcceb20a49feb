package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE SEQUENCE IF NOT EXISTS job_reference_seq;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'job_status') THEN
			CREATE TYPE job_status AS ENUM (
				'draft',
				'pending-admin-review',
				'client-booking-request',
				'admin-quoted',
				'booking-confirmed',
				'crew-dispatched',
				'in-progress',
				'work-completed',
				'verified',
				'admin-rejected',
				'completed',
				'cancelled'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'quote_status') THEN
			CREATE TYPE quote_status AS ENUM (
				'awaiting-approval',
				'accepted',
				'declined',
				'expired'
			);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN
			CREATE TYPE payment_status AS ENUM (
				'none',
				'deposit-paid',
				'payment-requested',
				'paid'
			);
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reference_id VARCHAR(64) NOT NULL,
		service_type VARCHAR(32) NOT NULL,
		property_address TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		sla_type VARCHAR(16) NOT NULL,
		status job_status NOT NULL DEFAULT 'client-booking-request',
		client_id UUID NOT NULL,
		payment_status payment_status NOT NULL DEFAULT 'none',
		deposit_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		estimated_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		final_price NUMERIC(12,2),
		final_deposit NUMERIC(12,2),
		quoted_by UUID,
		quoted_at TIMESTAMPTZ,
		final_notes TEXT,
		rejection_reason TEXT,
		rejected_at TIMESTAMPTZ,
		verified_by UUID,
		verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_jobs_reference_id ON jobs (reference_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_client_id ON jobs (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status);`,
	`CREATE TABLE IF NOT EXISTS job_crew (
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		crew_id UUID NOT NULL,
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (job_id, crew_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_job_crew_crew_id ON job_crew (crew_id);`,
	`CREATE TABLE IF NOT EXISTS checklist_items (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		task TEXT NOT NULL,
		item_order INT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		auto_completed BOOLEAN NOT NULL DEFAULT FALSE,
		requires_photo BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		completed_by UUID
	);`,
	`CREATE INDEX IF NOT EXISTS idx_checklist_items_job_id ON checklist_items (job_id, item_order);`,
	`CREATE TABLE IF NOT EXISTS job_photos (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		type VARCHAR(8) NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		uploaded_by UUID NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_job_photos_job_id ON job_photos (job_id);`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		property_address TEXT NOT NULL,
		service_type VARCHAR(32) NOT NULL,
		preferred_date TIMESTAMPTZ NOT NULL,
		quote_amount NUMERIC(12,2) NOT NULL,
		deposit_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		quote_notes TEXT,
		status quote_status NOT NULL DEFAULT 'awaiting-approval',
		decline_reason TEXT,
		quoted_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		valid_until TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_job_id ON quotes (job_id);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_status_valid_until ON quotes (status, valid_until);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
