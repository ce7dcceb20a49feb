package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ukprop/clearance/internal/http/middleware"
	"github.com/ukprop/clearance/internal/service"
)

type createQuoteRequest struct {
	QuoteAmount   float64 `json:"quote_amount" binding:"required"`
	DepositAmount float64 `json:"deposit_amount"`
	QuoteNotes    string  `json:"quote_notes"`
	ValidDays     int     `json:"valid_days"`
}

func (h *Handler) createQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.quotes.CreateQuote(c.Request.Context(), service.CreateQuoteInput{
		Principal:     principal,
		JobID:         jobID,
		QuoteAmount:   req.QuoteAmount,
		DepositAmount: req.DepositAmount,
		Notes:         req.QuoteNotes,
		ValidDays:     req.ValidDays,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

func (h *Handler) listJobQuotes(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	quotes, err := h.quotes.ListQuotesForJob(c.Request.Context(), principal, jobID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]quoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, toQuoteResponse(&quotes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"quotes": out})
}

func (h *Handler) acceptQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quoteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotes.AcceptQuote(c.Request.Context(), principal, quoteID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

type declineQuoteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) declineQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quoteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req declineQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.quotes.DeclineQuote(c.Request.Context(), principal, quoteID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func (h *Handler) quoteDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	quoteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.quotes.QuoteDocument(c.Request.Context(), principal, quoteID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
