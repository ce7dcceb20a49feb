package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ukprop/clearance/internal/http/middleware"
	"github.com/ukprop/clearance/internal/model"
	"github.com/ukprop/clearance/internal/service"
)

type createBookingRequest struct {
	ServiceType     string         `json:"service_type" binding:"required"`
	PropertyAddress string         `json:"property_address" binding:"required"`
	ScheduledAt     string         `json:"scheduled_at" binding:"required"`
	SLAType         string         `json:"sla_type" binding:"required"`
	Pricing         pricingRequest `json:"pricing"`
	Draft           bool           `json:"draft"`
}

func (h *Handler) createBooking(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := parseDate(req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at"})
		return
	}

	job, err := h.jobs.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		Principal:       principal,
		ServiceType:     model.ServiceType(req.ServiceType),
		PropertyAddress: req.PropertyAddress,
		ScheduledAt:     scheduledAt,
		SLAType:         model.SLAType(req.SLAType),
		Pricing:         req.Pricing.options(),
		Draft:           req.Draft,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toJobResponse(job, time.Now()))
}

func (h *Handler) submitBooking(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.SubmitBooking(c.Request.Context(), principal, jobID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job, time.Now()))
}

func (h *Handler) getJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job, time.Now()))
}

func (h *Handler) listJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter model.JobFilter
	if raw := c.Query("status"); raw != "" {
		status := model.JobStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("service_type"); raw != "" {
		serviceType, valid := model.ParseServiceType(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_type"})
			return
		}
		filter.Service = &serviceType
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	now := time.Now()
	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i], now))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

type assignCrewRequest struct {
	CrewIDs []string `json:"crew_ids" binding:"required"`
}

func (h *Handler) assignCrew(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req assignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crewIDs := make([]uuid.UUID, 0, len(req.CrewIDs))
	for _, raw := range req.CrewIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid crew id " + raw})
			return
		}
		crewIDs = append(crewIDs, id)
	}

	if err := h.jobs.AssignCrew(c.Request.Context(), service.AssignCrewInput{
		Principal: principal,
		JobID:     jobID,
		CrewIDs:   crewIDs,
	}); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "crew assigned"})
}

type progressJobRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) progressJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req progressJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.ProgressJob(c.Request.Context(), service.ProgressJobInput{
		Principal: principal,
		JobID:     jobID,
		To:        model.JobStatus(req.Status),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job, time.Now()))
}

func (h *Handler) completeChecklistItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	item, err := h.jobs.CompleteChecklistItem(c.Request.Context(), service.CompleteChecklistItemInput{
		Principal: principal,
		JobID:     jobID,
		ItemID:    itemID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklistItemResponse{
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

type addPhotoRequest struct {
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (h *Handler) addPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := h.jobs.AddPhoto(c.Request.Context(), service.AddPhotoInput{
		Principal: principal,
		JobID:     jobID,
		URL:       req.URL,
		Type:      model.PhotoType(req.Type),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photoResponse{
		ID:         photo.ID,
		URL:        photo.URL,
		Type:       string(photo.Type),
		UploadedAt: photo.UploadedAt,
		UploadedBy: photo.UploadedBy,
	})
}

type verifyJobRequest struct {
	FinalPrice float64 `json:"final_price" binding:"required"`
	Notes      string  `json:"notes"`
}

func (h *Handler) verifyJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req verifyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.VerifyJob(c.Request.Context(), service.VerifyJobInput{
		Principal:  principal,
		JobID:      jobID,
		FinalPrice: req.FinalPrice,
		Notes:      req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job, time.Now()))
}

type rejectJobRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) rejectJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req rejectJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.jobs.RejectJob(c.Request.Context(), service.RejectJobInput{
		Principal: principal,
		JobID:     jobID,
		Reason:    req.Reason,
	}); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "work rejected"})
}

func (h *Handler) completePayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.jobs.CompleteFinalPayment(c.Request.Context(), principal, jobID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "payment recorded"})
}

func (h *Handler) cancelJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.jobs.CancelJob(c.Request.Context(), principal, jobID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "job cancelled"})
}

func (h *Handler) exportJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter model.JobFilter
	if raw := c.Query("status"); raw != "" {
		status := model.JobStatus(raw)
		filter.Status = &status
	}

	result, err := h.jobs.ExportJobs(c.Request.Context(), service.ExportJobsInput{
		Principal: principal,
		Filter:    filter,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}
