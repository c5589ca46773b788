package report

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"kitportal/platform/httpkit"
	"kitportal/platform/validator"
)

const (
	reportPath    = "/report/report/:name"
	pdfPresigned  = "/report/pdf/presigned"
	languageParam = "language"
)

// Client reads rendered reports from the report service.
type Client struct {
	api *httpkit.APIClient
	val *validator.Validator
}

// NewClient creates a report client on top of the shared API client.
func NewClient(api *httpkit.APIClient, val *validator.Validator) *Client {
	return &Client{api: api, val: val}
}

type entryDTO struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
	ReportURL   *string `json:"reportUrl" validate:"required"`
	ReportName  *string `json:"reportName" validate:"required"`
}

type sectionDTO struct {
	Title    *string    `json:"title" validate:"required"`
	Subtitle *string    `json:"subtitle" validate:"required"`
	Layout   string     `json:"layout" validate:"oneof=scroll grid"`
	Reports  []entryDTO `json:"reports" validate:"required,dive"`
}

type overviewDTO struct {
	ID         *string      `json:"id" validate:"required"`
	BasePath   *string      `json:"basePath" validate:"required"`
	Language   *string      `json:"language" validate:"required"`
	ViewTitle  *string      `json:"viewTitle" validate:"required"`
	ReportURL  *string      `json:"reportUrl" validate:"required"`
	ReportName string       `json:"reportName" validate:"eq=home"`
	Sections   []sectionDTO `json:"sections" validate:"required,dive"`
	Maximal    *bool        `json:"maximal" validate:"required"`
}

func (d overviewDTO) toOverview() Overview {
	out := Overview{
		Base: Base{
			ID:         *d.ID,
			BasePath:   *d.BasePath,
			Language:   *d.Language,
			ViewTitle:  *d.ViewTitle,
			ReportURL:  *d.ReportURL,
			ReportName: d.ReportName,
		},
		Sections: make([]Section, 0, len(d.Sections)),
		Maximal:  *d.Maximal,
	}
	for _, s := range d.Sections {
		section := Section{Title: *s.Title, Subtitle: *s.Subtitle, Layout: s.Layout, Reports: make([]Entry, 0, len(s.Reports))}
		for _, e := range s.Reports {
			entry := Entry{Title: *e.Title, ReportURL: *e.ReportURL, ReportName: *e.ReportName}
			if e.Description != nil {
				entry.Description = *e.Description
			}
			section.Reports = append(section.Reports, entry)
		}
		out.Sections = append(out.Sections, section)
	}
	return out
}

// GetHome returns the DNA home report of a profile. The payload is checked
// field by field and rejected as a whole when anything is missing.
func (c *Client) GetHome(ctx context.Context, profileID, language, token string) (Overview, error) {
	var dto overviewDTO
	if err := c.get(ctx, "report.GetHome", NameHome, url.Values{"profileId": {profileID}, languageParam: {language}}, token, &dto); err != nil {
		return Overview{}, err
	}
	if err := c.val.Struct(dto); err != nil {
		return Overview{}, fmt.Errorf("report.GetHome: invalid payload: %w", err)
	}
	return dto.toOverview(), nil
}

// GetAntibody returns the antibody report of a kit.
func (c *Client) GetAntibody(ctx context.Context, kitID, token string) (Antibody, error) {
	var out Antibody
	if err := c.get(ctx, "report.GetAntibody", NameAntibody, url.Values{"kitId": {kitID}, languageParam: {SnapshotLanguage}}, token, &out); err != nil {
		return Antibody{}, err
	}
	if out.ReportName != string(NameAntibody) {
		return Antibody{}, fmt.Errorf("report.GetAntibody: unexpected report %q", out.ReportName)
	}
	return out, nil
}

// GetHeartHealth returns the heart health report of a kit.
func (c *Client) GetHeartHealth(ctx context.Context, kitID, token string) (HeartHealth, error) {
	var out HeartHealth
	if err := c.get(ctx, "report.GetHeartHealth", NameHeartHealth, url.Values{"kitId": {kitID}, languageParam: {SnapshotLanguage}}, token, &out); err != nil {
		return HeartHealth{}, err
	}
	if out.ReportName != string(NameHeartHealth) {
		return HeartHealth{}, fmt.Errorf("report.GetHeartHealth: unexpected report %q", out.ReportName)
	}
	return out, nil
}

// RequestPDF asks the report service to render and mail the PDF of a profile.
func (c *Client) RequestPDF(ctx context.Context, profileID, token string) error {
	return c.api.Do(ctx, httpkit.Request{
		Op:     "report.RequestPDF",
		Method: http.MethodPost,
		Path:   pdfPresigned,
		Token:  token,
		Body:   map[string]string{"profileId": profileID},
	}, nil)
}

func (c *Client) get(ctx context.Context, op string, name Name, query url.Values, token string, out interface{}) error {
	return c.api.Do(ctx, httpkit.Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   reportPath,
		Params: map[string]string{"name": string(name)},
		Query:  query,
		Token:  token,
	}, out)
}
