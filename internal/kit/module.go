// Package kit provides the kit bounded context module.
package kit

import (
	apphttp "kitportal/internal/http"
	"kitportal/internal/kit/handler"
	"kitportal/internal/report"
	"kitportal/internal/session"
	"kitportal/platform/config"
	"kitportal/platform/validator"
)

// Module is the kit bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	sessions *session.Registry
}

// NewModule creates the kit module on top of the session registry and the
// report service.
func NewModule(sessions *session.Registry, reports *report.Service, val *validator.Validator, cfg config.ReportConfig) *Module {
	return &Module{
		handler:  handler.New(sessions, reports, val, cfg.GetReportLanguage()),
		sessions: sessions,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "kit"
}

// Sessions returns the registry backing the module.
func (m *Module) Sessions() *session.Registry {
	return m.sessions
}

// RegisterRoutes mounts kit, session and report routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/kits", m.handler.GetKits)
	ctx.Protected.POST("/kits/refresh", m.handler.RefreshKits)
	ctx.Protected.GET("/kits/diagnostics", m.handler.Diagnostics)
	ctx.Protected.POST("/kits/activate", m.handler.ActivateBarcode)
	ctx.Protected.POST("/kits/:kitId/replacement", m.handler.RequestReplacement)
	ctx.Protected.POST("/kits/:kitId/metadata", m.handler.AddMetadata)
	ctx.Protected.GET("/kits/:kitId/upgrade-pricing", m.handler.UpgradePricing)

	ctx.Protected.PUT("/session/profile", m.handler.SetProfile)
	ctx.Protected.DELETE("/session", m.handler.EndSession)

	ctx.Protected.GET("/reports", m.handler.GetReports)
	ctx.Protected.POST("/reports/pdf", m.handler.RequestReportPDF)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
