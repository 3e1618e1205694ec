// ==============================================================================
// CANONICAL PROFILE MODEL - internal/domain/profile.go
// ==============================================================================
// The merged, normalized view the dashboards render. Sections are populated
// incrementally as each dependent verification call settles.
// ==============================================================================

package domain

// Section identifies one named block of the canonical profile.
type Section string

const (
	SectionPersonal   Section = "personal"
	SectionContact    Section = "contact"
	SectionDigital    Section = "digital"
	SectionEmployment Section = "employment"
	SectionBusiness   Section = "business"
	SectionCredit     Section = "credit"
	SectionLicense    Section = "license"
	SectionVehicle    Section = "vehicle"
	SectionCourtCases Section = "court_cases"
)

// BaseSections are the ones parsed directly from the primary response.
var BaseSections = []Section{
	SectionPersonal,
	SectionContact,
	SectionDigital,
	SectionEmployment,
	SectionBusiness,
	SectionCredit,
}

// Status of one populated section.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// FailureKind classifies why a step of the verification flow failed.
type FailureKind string

const (
	FailureValidation    FailureKind = "validation_error"
	FailurePrimary       FailureKind = "primary_failure"
	FailureIDNotFound    FailureKind = "id_not_found"
	FailureNetwork       FailureKind = "network_failure"
	FailureSupplementary FailureKind = "supplementary_failure"
)

// SectionData is the canonical field set of one section. Fields genuinely
// absent from every source stay absent from the map; the "Not Available"
// sentinel belongs to the presentation layer, never to storage.
type SectionData struct {
	Status       Status              `json:"status"`
	Failure      FailureKind         `json:"failure,omitempty"`
	IDNumber     string              `json:"id_number,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Fields       map[string]string   `json:"fields,omitempty"`
	Rows         []map[string]string `json:"rows,omitempty"`
}

// Field returns a canonical field value and whether it is present.
func (s *SectionData) Field(key string) (string, bool) {
	if s == nil || s.Fields == nil {
		return "", false
	}
	v, ok := s.Fields[key]
	return v, ok
}

// CourtCaseData is the supplementary court-case block. A failed lookup is
// represented as the explicit empty state, never as an error.
type CourtCaseData struct {
	Cases      []map[string]string `json:"cases"`
	CasesFound int                 `json:"cases_found"`
	Statistics map[string]string   `json:"statistics,omitempty"`
}

// EmptyCourtCases is the degraded state used when the lookup fails.
func EmptyCourtCases() *CourtCaseData {
	return &CourtCaseData{Cases: []map[string]string{}, CasesFound: 0}
}

// CanonicalProfile is the full display model. A nil section means its
// verification was never attempted (distinct from an attempted failure).
type CanonicalProfile struct {
	Personal   *SectionData   `json:"personal,omitempty"`
	Contact    *SectionData   `json:"contact,omitempty"`
	Digital    *SectionData   `json:"digital,omitempty"`
	Employment *SectionData   `json:"employment,omitempty"`
	Business   *SectionData   `json:"business,omitempty"`
	Credit     *SectionData   `json:"credit,omitempty"`
	License    *SectionData   `json:"license,omitempty"`
	Vehicle    *SectionData   `json:"vehicle,omitempty"`
	CourtCases *CourtCaseData `json:"court_cases,omitempty"`
}

// Section returns the named section, or nil if absent.
func (p *CanonicalProfile) Section(s Section) *SectionData {
	switch s {
	case SectionPersonal:
		return p.Personal
	case SectionContact:
		return p.Contact
	case SectionDigital:
		return p.Digital
	case SectionEmployment:
		return p.Employment
	case SectionBusiness:
		return p.Business
	case SectionCredit:
		return p.Credit
	case SectionLicense:
		return p.License
	case SectionVehicle:
		return p.Vehicle
	}
	return nil
}

// SetSection stores data for the named section. Last write wins per section;
// the orchestrator applies writes in step order.
func (p *CanonicalProfile) SetSection(s Section, data *SectionData) {
	switch s {
	case SectionPersonal:
		p.Personal = data
	case SectionContact:
		p.Contact = data
	case SectionDigital:
		p.Digital = data
	case SectionEmployment:
		p.Employment = data
	case SectionBusiness:
		p.Business = data
	case SectionCredit:
		p.Credit = data
	case SectionLicense:
		p.License = data
	case SectionVehicle:
		p.Vehicle = data
	}
}

// PartialResult is the typed outcome of one backend call. Each result is
// independent; failure of one never invalidates others.
type PartialResult struct {
	Section Section      `json:"section"`
	Status  Status       `json:"status"`
	Failure FailureKind  `json:"failure,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    *SectionData `json:"data,omitempty"`
}

// Toast is the user-facing notification emitted when a run settles.
type Toast struct {
	Severity string `json:"severity"` // success, error, info
	Message  string `json:"message"`
}

// Outcome is what a settled verification run hands back to the transport
// layer: the merged profile plus the toast to display.
type Outcome struct {
	Profile  *CanonicalProfile `json:"profile,omitempty"`
	Toast    Toast             `json:"toast"`
	Failure  FailureKind       `json:"failure,omitempty"`
	Partials []PartialResult   `json:"partials,omitempty"`
}
