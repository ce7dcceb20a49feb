package model

import (
	"time"

	"github.com/google/uuid"
)

type ChecklistItem struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	Task          string
	Order         int
	Completed     bool
	AutoCompleted bool
	RequiresPhoto bool
	CompletedAt   *time.Time
	CompletedBy   *uuid.UUID
}
