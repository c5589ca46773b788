// Package report fetches the rendered reports of a session's default kits.
package report

import "kitportal/internal/kit/domain"

// Name identifies a report view on the report service.
type Name string

const (
	NameHome        Name = "home"
	NameAntibody    Name = "snapshot-antibody"
	NameHeartHealth Name = "snapshot-heart-health"
)

// SnapshotLanguage is the only language snapshot reports are rendered in.
const SnapshotLanguage = "en-HK"

// Base holds the fields every report view carries.
type Base struct {
	ID         string `json:"id"`
	BasePath   string `json:"basePath"`
	Language   string `json:"language"`
	ViewTitle  string `json:"viewTitle"`
	ReportURL  string `json:"reportUrl"`
	ReportName string `json:"reportName"`
}

// Entry links to one report page.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ReportURL   string `json:"reportUrl"`
	ReportName  string `json:"reportName"`
}

// Section groups entries on the DNA home report.
type Section struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Layout   string  `json:"layout"`
	Reports  []Entry `json:"reports"`
}

// Overview is the DNA home report.
type Overview struct {
	Base
	Sections []Section `json:"sections"`
	Maximal  bool      `json:"maximal"`
}

// AntibodyResult is the single antibody reading.
type AntibodyResult struct {
	Value             string  `json:"value"`
	Report            string  `json:"report"`
	Operator          string  `json:"operator"`
	ReferenceBoundary float64 `json:"referenceBoundary"`
}

// Antibody is the snapshot antibody report.
type Antibody struct {
	Base
	Antibody AntibodyResult `json:"antibody"`
}

// Derived holds the numeric bounds of a reference range.
type Derived struct {
	LessThan             *float64 `json:"lessThan,omitempty"`
	GreaterThan          *float64 `json:"greaterThan,omitempty"`
	LessThanInclusive    *float64 `json:"lessThanInclusive,omitempty"`
	GreaterThanInclusive *float64 `json:"greaterThanInclusive,omitempty"`
}

type Reference struct {
	Actual  string   `json:"actual"`
	Derived *Derived `json:"derived,omitempty"`
}

type Biomarker struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Value     float64    `json:"value"`
	Result    string     `json:"result"`
	Unit      string     `json:"unit"`
	Reference *Reference `json:"reference,omitempty"`
}

type Panel struct {
	Name      string      `json:"name"`
	Biomarker []Biomarker `json:"biomarker"`
}

type ResultSet struct {
	Panel []Panel `json:"panel"`
}

type HeartHealthResult struct {
	ResultSet ResultSet `json:"resultset"`
}

// DoctorComment is the reviewing doctor's note on a heart health report.
type DoctorComment struct {
	Approver struct {
		ProfileID string `json:"profileId"`
	} `json:"approver"`
	Comment string `json:"comment"`
}

// HeartHealth is the snapshot heart health report.
type HeartHealth struct {
	Base
	HeartHealth   HeartHealthResult `json:"heartHealth"`
	DoctorComment *DoctorComment    `json:"doctorComment,omitempty"`
}

// DNAReport pairs the home report with the kit it was fetched for.
type DNAReport struct {
	KitID      string                `json:"kitId"`
	ProfileID  string                `json:"profileId"`
	Definition domain.TestDefinition `json:"definition"`
	Report     Overview              `json:"report"`
}

type AntibodyReport struct {
	KitID  string   `json:"kitId"`
	Report Antibody `json:"report"`
}

type HeartHealthReport struct {
	KitID  string      `json:"kitId"`
	Report HeartHealth `json:"report"`
}

// Set is the report state of a session. A Ready flag is set once the fetch
// for the current default kit settled, whether or not it produced a report.
type Set struct {
	Generation       uint64             `json:"generation"`
	DNA              *DNAReport         `json:"dna,omitempty"`
	Antibody         *AntibodyReport    `json:"antibody,omitempty"`
	HeartHealth      *HeartHealthReport `json:"heartHealth,omitempty"`
	DNAReady         bool               `json:"dnaReady"`
	AntibodyReady    bool               `json:"antibodyReady"`
	HeartHealthReady bool               `json:"heartHealthReady"`
}
