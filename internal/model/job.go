package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusDraft            JobStatus = "draft"
	JobStatusPendingReview    JobStatus = "pending-admin-review"
	JobStatusBookingRequest   JobStatus = "client-booking-request"
	JobStatusQuoted           JobStatus = "admin-quoted"
	JobStatusBookingConfirmed JobStatus = "booking-confirmed"
	JobStatusCrewDispatched   JobStatus = "crew-dispatched"
	JobStatusInProgress       JobStatus = "in-progress"
	JobStatusWorkCompleted    JobStatus = "work-completed"
	JobStatusVerified         JobStatus = "verified"
	JobStatusAdminRejected    JobStatus = "admin-rejected"
	JobStatusCompleted        JobStatus = "completed"
	JobStatusCancelled        JobStatus = "cancelled"
)

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

type ServiceType string

const (
	ServiceHouseClearance    ServiceType = "house-clearance"
	ServiceOfficeMove        ServiceType = "office-move"
	ServiceEmergency         ServiceType = "emergency-clearance"
	ServicePropertyTurnover  ServiceType = "property-turnover"
	ServiceVoidTurnover      ServiceType = "void-turnover"
	ServiceHoarderClearout   ServiceType = "hoarder-clearout"
	ServiceFireFloodMoveout  ServiceType = "fire-flood-moveout"
	ServiceProbateClearance  ServiceType = "probate-clearance"
	ServiceFurnitureRemoval  ServiceType = "furniture-removal"
	ServiceLockChange        ServiceType = "lock-change"
	ServiceMinorRepairs      ServiceType = "minor-repairs"
)

var serviceTypes = map[ServiceType]struct{}{
	ServiceHouseClearance:   {},
	ServiceOfficeMove:       {},
	ServiceEmergency:        {},
	ServicePropertyTurnover: {},
	ServiceVoidTurnover:     {},
	ServiceHoarderClearout:  {},
	ServiceFireFloodMoveout: {},
	ServiceProbateClearance: {},
	ServiceFurnitureRemoval: {},
	ServiceLockChange:       {},
	ServiceMinorRepairs:     {},
}

func ParseServiceType(raw string) (ServiceType, bool) {
	st := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := serviceTypes[st]
	return st, ok
}

type SLAType string

const (
	SLA24h      SLAType = "24h"
	SLA48h      SLAType = "48h"
	SLA72h      SLAType = "72h"
	SLAStandard SLAType = "standard"
)

// SLAHours maps each SLA tier to its deadline window. Standard bookings get a
// working week.
func SLAHours(sla SLAType) int {
	switch sla {
	case SLA24h:
		return 24
	case SLA48h:
		return 48
	case SLA72h:
		return 72
	default:
		return 168
	}
}

func ParseSLAType(raw string) (SLAType, bool) {
	switch SLAType(strings.ToLower(strings.TrimSpace(raw))) {
	case SLA24h:
		return SLA24h, true
	case SLA48h:
		return SLA48h, true
	case SLA72h:
		return SLA72h, true
	case SLAStandard:
		return SLAStandard, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentStatusNone        PaymentStatus = "none"
	PaymentStatusDepositPaid PaymentStatus = "deposit-paid"
	PaymentStatusRequested   PaymentStatus = "payment-requested"
	PaymentStatusPaid        PaymentStatus = "paid"
)

type PhotoType string

const (
	PhotoBefore PhotoType = "before"
	PhotoAfter  PhotoType = "after"
)

type Photo struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	URL        string
	Type       PhotoType
	UploadedAt time.Time
	UploadedBy uuid.UUID
}

type FinalQuote struct {
	FixedPrice    float64
	DepositAmount float64
	QuotedBy      uuid.UUID
	QuotedAt      time.Time
	Notes         string
}

func (q FinalQuote) RemainingAmount() float64 {
	return q.FixedPrice - q.DepositAmount
}

type Job struct {
	ID              uuid.UUID
	ReferenceID     string
	ServiceType     ServiceType
	PropertyAddress string
	ScheduledAt     time.Time
	SLAType         SLAType
	Status          JobStatus
	ClientID        uuid.UUID
	CrewIDs         []uuid.UUID     `gorm:"-"`
	Checklist       []ChecklistItem `gorm:"-"`
	Photos          []Photo         `gorm:"-"`
	FinalQuote      *FinalQuote     `gorm:"-"`
	PaymentStatus   PaymentStatus
	DepositPaid     float64
	EstimatedValue  float64
	RejectionReason *string
	RejectedAt      *time.Time
	VerifiedBy      *uuid.UUID
	VerifiedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SLADeadline derives the deadline from the scheduled slot and the SLA tier.
func (j *Job) SLADeadline() time.Time {
	return j.ScheduledAt.Add(time.Duration(SLAHours(j.SLAType)) * time.Hour)
}

func (j *Job) SLABreached(now time.Time) bool {
	return !j.Status.Terminal() && now.After(j.SLADeadline())
}

// BuildReferenceID formats the immutable booking reference, e.g.
// UK-PROP-2026-000041-HOUS for the 41st booking of a house clearance.
func BuildReferenceID(year int, seq int64, service ServiceType) string {
	tag := strings.ToUpper(strings.ReplaceAll(string(service), "-", ""))
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return fmt.Sprintf("UK-PROP-%d-%06d-%s", year, seq, tag)
}
