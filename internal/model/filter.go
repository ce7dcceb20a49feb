package model

import "github.com/google/uuid"

// JobFilter narrows job listings. Nil fields are ignored.
type JobFilter struct {
	ClientID *uuid.UUID
	CrewID   *uuid.UUID
	Status   *JobStatus
	Service  *ServiceType
}
