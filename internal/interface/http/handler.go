package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/smartfaq/internal/domain/faq"
	apperrors "github.com/yanqian/smartfaq/pkg/errors"
)

// Handler wires the HTTP transport to the FAQ service.
type Handler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.handler"),
	}
}

// SearchFAQ answers a question from the knowledge base.
func (h *Handler) SearchFAQ(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.faqSvc.Answer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TrendingFAQ returns the most common search recommendations.
func (h *Handler) TrendingFAQ(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// ListFAQs returns the knowledge base in insertion order.
func (h *Handler) ListFAQs(c *gin.Context) {
	entries, err := h.faqSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": entries})
}

// GetFAQ returns a single entry.
func (h *Handler) GetFAQ(c *gin.Context) {
	entry, err := h.faqSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CreateFAQ appends an entry to the knowledge base.
func (h *Handler) CreateFAQ(c *gin.Context) {
	var input faq.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	entry, err := h.faqSvc.Create(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateFAQ replaces the question, answer and tags of an entry.
func (h *Handler) UpdateFAQ(c *gin.Context) {
	var input faq.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	entry, err := h.faqSvc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteFAQ removes an entry.
func (h *Handler) DeleteFAQ(c *gin.Context) {
	if err := h.faqSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, faqError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func faqError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case apperrors.IsCode(err, "not_found"):
		return NewHTTPError(http.StatusNotFound, "not_found", errMessage(err), err)
	case apperrors.IsCode(err, "storage_error"):
		return NewHTTPError(http.StatusInternalServerError, "storage_error", "knowledge base unavailable", err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "faq_failed", errMessage(err), err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
