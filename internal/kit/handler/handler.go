package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kitportal/internal/kit/service"
	"kitportal/internal/kit/transport"
	"kitportal/internal/report"
	"kitportal/platform/httpkit"
	"kitportal/platform/validator"
)

// Sessions resolves the controller of the calling subject.
type Sessions interface {
	Acquire(ctx context.Context, subject, token string) *service.Controller
	Close(ctx context.Context, subject string) bool
}

// Reports serves the report state of a session.
type Reports interface {
	Reports(sessionID uuid.UUID) report.Set
	RequestPDF(ctx context.Context, profileID, token string) error
}

// Handler handles HTTP requests for kits, the session and reports.
type Handler struct {
	sessions        Sessions
	reports         Reports
	val             *validator.Validator
	defaultLanguage string
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new kit handler. defaultLanguage is used for replacement
// requests that do not name one.
func New(sessions Sessions, reports Reports, val *validator.Validator, defaultLanguage string) *Handler {
	return &Handler{sessions: sessions, reports: reports, val: val, defaultLanguage: defaultLanguage}
}

func (h *Handler) controller(c *gin.Context) *service.Controller {
	return h.sessions.Acquire(c.Request.Context(), httpkit.Subject(c), httpkit.Token(c))
}

// GetKits returns the kit snapshot of the session.
// GET /api/v1/kits
func (h *Handler) GetKits(c *gin.Context) {
	ctrl := h.controller(c)
	httpkit.OK(c, newSnapshotResponse(ctrl.ID(), ctrl.Snapshot()))
}

// RefreshKits refetches the kit list.
// POST /api/v1/kits/refresh
func (h *Handler) RefreshKits(c *gin.Context) {
	ctrl := h.controller(c)
	if httpkit.HandleError(c, ctrl.RefreshKits(c.Request.Context())) {
		return
	}
	httpkit.OK(c, newSnapshotResponse(ctrl.ID(), ctrl.Snapshot()))
}

// Diagnostics lists the recent degraded queries of the session.
// GET /api/v1/kits/diagnostics
func (h *Handler) Diagnostics(c *gin.Context) {
	httpkit.OK(c, gin.H{"diagnostics": h.controller(c).Diagnostics()})
}

// SetProfile switches the active profile.
// PUT /api/v1/session/profile
func (h *Handler) SetProfile(c *gin.Context) {
	var req transport.SetProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if strings.TrimSpace(req.Profile.ProfileID) == "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "profile.profileId is required")
		return
	}

	ctrl := h.controller(c)
	ctrl.SetProfile(c.Request.Context(), req.Profile)
	httpkit.OK(c, newSnapshotResponse(ctrl.ID(), ctrl.Snapshot()))
}

// EndSession logs the session out.
// DELETE /api/v1/session
func (h *Handler) EndSession(c *gin.Context) {
	h.sessions.Close(c.Request.Context(), httpkit.Subject(c))
	c.Status(http.StatusNoContent)
}

// ActivateBarcode links a kit barcode to a profile.
// POST /api/v1/kits/activate
func (h *Handler) ActivateBarcode(c *gin.Context) {
	var req transport.ActivateBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	activated, err := h.controller(c).ActivateBarcode(c.Request.Context(), req.Barcode, req.ProfileID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activated)
}

// RequestReplacement orders a replacement for a rejected kit.
// POST /api/v1/kits/:kitId/replacement
func (h *Handler) RequestReplacement(c *gin.Context) {
	var req transport.ReplacementBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	language := req.Language
	if language == "" {
		language = h.defaultLanguage
	}

	kitID, err := h.controller(c).RequestReplacement(c.Request.Context(), c.Param("kitId"), req.Customer, language)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ReplacementResponse{KitID: kitID})
}

// AddMetadata attaches metadata to a kit.
// POST /api/v1/kits/:kitId/metadata
func (h *Handler) AddMetadata(c *gin.Context) {
	var req transport.AddMetadataBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.controller(c).AddMetadata(c.Request.Context(), c.Param("kitId"), req.Type, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

// UpgradePricing lists the upgrade offers of a DNA kit.
// GET /api/v1/kits/:kitId/upgrade-pricing
func (h *Handler) UpgradePricing(c *gin.Context) {
	offers, err := h.controller(c).UpgradePricing(c.Request.Context(), c.Param("kitId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"offers": offers})
}

// GetReports returns the reports of the session's default kits.
// GET /api/v1/reports
func (h *Handler) GetReports(c *gin.Context) {
	httpkit.OK(c, h.reports.Reports(h.controller(c).ID()))
}

// RequestReportPDF asks for the PDF of a profile's DNA report.
// POST /api/v1/reports/pdf
func (h *Handler) RequestReportPDF(c *gin.Context) {
	var req transport.PDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.reports.RequestPDF(c.Request.Context(), req.ProfileID, httpkit.Token(c))) {
		return
	}
	c.Status(http.StatusAccepted)
}
