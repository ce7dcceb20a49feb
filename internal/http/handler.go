package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ukprop/clearance/internal/model"
	"github.com/ukprop/clearance/internal/pricing"
	"github.com/ukprop/clearance/internal/service"
)

type Handler struct {
	jobs   *service.JobService
	quotes *service.QuoteService
	log    zerolog.Logger
}

func NewHandler(jobs *service.JobService, quotes *service.QuoteService, log zerolog.Logger) *Handler {
	return &Handler{jobs: jobs, quotes: quotes, log: log}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

type pricingRequest struct {
	PropertySize       string   `json:"property_size"`
	VolumeLoads        int      `json:"volume_loads"`
	WasteTypes         []string `json:"waste_types"`
	FurnitureItems     int      `json:"furniture_items"`
	AccessDifficulties []string `json:"access_difficulties"`
	Urgency            string   `json:"urgency"`
	ComplianceAddOns   []string `json:"compliance_add_ons"`
}

func (r pricingRequest) options() pricing.Options {
	return pricing.Options{
		PropertySize:       pricing.PropertySize(r.PropertySize),
		VolumeLoads:        r.VolumeLoads,
		WasteTypes:         r.WasteTypes,
		FurnitureItems:     r.FurnitureItems,
		AccessDifficulties: r.AccessDifficulties,
		Urgency:            pricing.Urgency(r.Urgency),
		ComplianceAddOns:   r.ComplianceAddOns,
	}
}

type pricingResponse struct {
	BaseCallOut      float64 `json:"base_call_out"`
	PropertySize     float64 `json:"property_size"`
	VolumeLoad       float64 `json:"volume_load"`
	WasteType        float64 `json:"waste_type"`
	AccessDifficulty float64 `json:"access_difficulty"`
	Urgency          float64 `json:"urgency"`
	ComplianceAddOns float64 `json:"compliance_add_ons"`
	Subtotal         float64 `json:"subtotal"`
	Total            float64 `json:"total"`
}

// estimatePrice is the public pricing endpoint the booking wizard calls
// before an account exists.
func (h *Handler) estimatePrice(c *gin.Context) {
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	components := pricing.CalculateDetailedPrice(req.options())
	c.JSON(http.StatusOK, pricingResponse{
		BaseCallOut:      components.BaseCallOut,
		PropertySize:     components.PropertySize,
		VolumeLoad:       components.VolumeLoad,
		WasteType:        components.WasteType,
		AccessDifficulty: components.AccessDifficulty,
		Urgency:          components.Urgency,
		ComplianceAddOns: components.ComplianceAddOns,
		Subtotal:         components.Subtotal,
		Total:            components.Total,
	})
}

type quickPricingRequest struct {
	ServiceType   string  `json:"service_type"`
	SLAType       string  `json:"sla_type"`
	DistanceMiles float64 `json:"distance_miles"`
	VehicleType   string  `json:"vehicle_type"`
}

// quickEstimate keeps the legacy single-number estimate used by older
// clients. Only the urgency tier affects the result.
func (h *Handler) quickEstimate(c *gin.Context) {
	var req quickPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total := pricing.CalculateQuickPrice(req.ServiceType, req.SLAType, req.DistanceMiles, req.VehicleType)
	c.JSON(http.StatusOK, gin.H{"total": total})
}

type checklistItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	Task          string     `json:"task"`
	Order         int        `json:"order"`
	Completed     bool       `json:"completed"`
	AutoCompleted bool       `json:"auto_completed"`
	RequiresPhoto bool       `json:"requires_photo"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   *uuid.UUID `json:"completed_by,omitempty"`
}

type photoResponse struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
}

type finalQuoteResponse struct {
	FixedPrice      float64   `json:"fixed_price"`
	DepositAmount   float64   `json:"deposit_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	QuotedBy        uuid.UUID `json:"quoted_by"`
	QuotedAt        time.Time `json:"quoted_at"`
	Notes           string    `json:"notes,omitempty"`
}

type jobResponse struct {
	ID              uuid.UUID               `json:"id"`
	ReferenceID     string                  `json:"reference_id"`
	ServiceType     string                  `json:"service_type"`
	PropertyAddress string                  `json:"property_address"`
	ScheduledAt     time.Time               `json:"scheduled_at"`
	SLAType         string                  `json:"sla_type"`
	SLADeadline     time.Time               `json:"sla_deadline"`
	SLABreached     bool                    `json:"sla_breached"`
	Status          string                  `json:"status"`
	ClientID        uuid.UUID               `json:"client_id"`
	CrewIDs         []uuid.UUID             `json:"crew_ids,omitempty"`
	Checklist       []checklistItemResponse `json:"checklist,omitempty"`
	Photos          []photoResponse         `json:"photos,omitempty"`
	FinalQuote      *finalQuoteResponse     `json:"final_quote,omitempty"`
	PaymentStatus   string                  `json:"payment_status"`
	DepositPaid     float64                 `json:"deposit_paid"`
	EstimatedValue  float64                 `json:"estimated_value"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func toJobResponse(job *model.Job, now time.Time) jobResponse {
	resp := jobResponse{
		ID:              job.ID,
		ReferenceID:     job.ReferenceID,
		ServiceType:     string(job.ServiceType),
		PropertyAddress: job.PropertyAddress,
		ScheduledAt:     job.ScheduledAt,
		SLAType:         string(job.SLAType),
		SLADeadline:     job.SLADeadline(),
		SLABreached:     job.SLABreached(now),
		Status:          string(job.Status),
		ClientID:        job.ClientID,
		CrewIDs:         job.CrewIDs,
		PaymentStatus:   string(job.PaymentStatus),
		DepositPaid:     job.DepositPaid,
		EstimatedValue:  job.EstimatedValue,
		RejectionReason: job.RejectionReason,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
	for _, item := range job.Checklist {
		resp.Checklist = append(resp.Checklist, checklistItemResponse{
			ID:            item.ID,
			Task:          item.Task,
			Order:         item.Order,
			Completed:     item.Completed,
			AutoCompleted: item.AutoCompleted,
			RequiresPhoto: item.RequiresPhoto,
			CompletedAt:   item.CompletedAt,
			CompletedBy:   item.CompletedBy,
		})
	}
	for _, photo := range job.Photos {
		resp.Photos = append(resp.Photos, photoResponse{
			ID:         photo.ID,
			URL:        photo.URL,
			Type:       string(photo.Type),
			UploadedAt: photo.UploadedAt,
			UploadedBy: photo.UploadedBy,
		})
	}
	if job.FinalQuote != nil {
		resp.FinalQuote = &finalQuoteResponse{
			FixedPrice:      job.FinalQuote.FixedPrice,
			DepositAmount:   job.FinalQuote.DepositAmount,
			RemainingAmount: job.FinalQuote.RemainingAmount(),
			QuotedBy:        job.FinalQuote.QuotedBy,
			QuotedAt:        job.FinalQuote.QuotedAt,
			Notes:           job.FinalQuote.Notes,
		}
	}
	return resp
}

type quoteResponse struct {
	ID              uuid.UUID `json:"id"`
	JobID           uuid.UUID `json:"job_id"`
	PropertyAddress string    `json:"property_address"`
	ServiceType     string    `json:"service_type"`
	PreferredDate   time.Time `json:"preferred_date"`
	QuoteAmount     float64   `json:"quote_amount"`
	DepositAmount   float64   `json:"deposit_amount"`
	QuoteNotes      string    `json:"quote_notes,omitempty"`
	Status          string    `json:"status"`
	DeclineReason   *string   `json:"decline_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ValidUntil      time.Time `json:"valid_until"`
}

func toQuoteResponse(quote *model.Quote) quoteResponse {
	return quoteResponse{
		ID:              quote.ID,
		JobID:           quote.JobID,
		PropertyAddress: quote.PropertyAddress,
		ServiceType:     string(quote.ServiceType),
		PreferredDate:   quote.PreferredDate,
		QuoteAmount:     quote.QuoteAmount,
		DepositAmount:   quote.DepositAmount,
		QuoteNotes:      quote.QuoteNotes,
		Status:          string(quote.Status),
		DeclineReason:   quote.DeclineReason,
		CreatedAt:       quote.CreatedAt,
		ValidUntil:      quote.ValidUntil,
	}
}
