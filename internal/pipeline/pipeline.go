// ==============================================================================
// VERIFICATION PIPELINE - internal/pipeline/pipeline.go
// ==============================================================================
// Drives the ordered, partially-dependent sequence of verification calls and
// merges each outcome into the canonical profile. One parameterized pipeline
// serves all three tiers; the tier only selects the primary endpoint and
// whether the supplementary steps run.
// ==============================================================================

package pipeline

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"verid/internal/builder"
	"verid/internal/domain"
	"verid/internal/normalize"
	"verid/internal/session"
	"verid/pkg/logger"
)

// User-facing toast messages. The DL network-failure text is part of the
// dashboard contract; do not reword casually.
const (
	msgPrimaryFailed = "Verification failed. Please try again later."
	msgDLNotFound    = "Driving license details not found. Please verify the DL number."
	msgDLNetwork     = "Failed to verify driving license. Please try again later."
	msgRCNotFound    = "Vehicle registration details not found. Please verify the RC number."
	msgRCNetwork     = "Failed to verify vehicle registration. Please try again later."

	msgSuccess            = "Profile generated successfully."
	msgSuccessNoEmail     = "Profile generated successfully. (No email configured)"
	msgSuccessEmailedPDF  = "Profile generated successfully. PDF report emailed."
	msgSuccessEmailNoPDF  = "Profile generated successfully. Report emailed. (PDF generation failed)"
	msgSuccessEmailFailed = "Profile generated successfully. (Email delivery failed)"
	msgSuccessNoDelivery  = "Profile generated successfully. (Email and PDF delivery failed)"
)

// Gateway is the outbound surface the pipeline drives. Satisfied by
// gateway.Client; mocked in tests.
type Gateway interface {
	GenerateProfile(ctx context.Context, tier domain.Tier, payload map[string]interface{}) (map[string]interface{}, error)
	VerifyDL(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
	VerifyRC(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
	CourtCases(ctx context.Context, name string, profile *domain.CanonicalProfile) (map[string]interface{}, error)
	GeneratePDF(ctx context.Context, profile *domain.CanonicalProfile) ([]byte, error)
}

// PDFRenderer produces the local report bytes for the auto-email step.
type PDFRenderer interface {
	Render(profile *domain.CanonicalProfile, draft *domain.Draft) ([]byte, error)
}

// EmailSender delivers the generated report to the session's stored email.
type EmailSender interface {
	SendReport(ctx context.Context, sess session.Context, profile *domain.CanonicalProfile, draft *domain.Draft, pdf []byte) error
}

// Recorder persists the audit trail of settled runs. May be nil.
type Recorder interface {
	Record(ctx context.Context, run *domain.VerificationRun) error
}

// Sink receives each partial result as it settles, so callers can surface
// progressive updates instead of waiting for the slowest step.
type Sink interface {
	Publish(result domain.PartialResult)
}

type SinkFunc func(result domain.PartialResult)

func (f SinkFunc) Publish(result domain.PartialResult) { f(result) }

// NopSink discards progressive updates.
var NopSink = SinkFunc(func(domain.PartialResult) {})

type Pipeline struct {
	gw     Gateway
	pdf    PDFRenderer
	email  EmailSender
	audit  Recorder
	logger logger.Logger
}

func New(gw Gateway, pdf PDFRenderer, email EmailSender, audit Recorder, log logger.Logger) *Pipeline {
	return &Pipeline{
		gw:     gw,
		pdf:    pdf,
		email:  email,
		audit:  audit,
		logger: log,
	}
}

// Run executes the full verification sequence for one validated draft and
// returns the settled outcome. It never returns an error: every failure mode
// maps to a taxonomy entry carried on the outcome.
func (p *Pipeline) Run(ctx context.Context, sessionID string, tier domain.Tier, draft *domain.Draft, sess session.Context, sink Sink) *domain.Outcome {
	if sink == nil {
		sink = NopSink
	}
	started := time.Now()
	outcome := &domain.Outcome{}

	// Step 1: primary verification. Its failure aborts the whole flow and no
	// dependent call is issued.
	raw, err := p.gw.GenerateProfile(ctx, tier, builder.PrimaryPayload(draft))
	if err != nil {
		p.logger.Error("Primary verification failed", map[string]interface{}{
			"tier":  string(tier),
			"error": err.Error(),
		})
		outcome.Failure = domain.FailurePrimary
		outcome.Toast = domain.Toast{Severity: "error", Message: msgPrimaryFailed}
		p.record(ctx, sessionID, tier, draft, outcome, started)
		return outcome
	}

	profile := &domain.CanonicalProfile{}
	outcome.Profile = profile

	flat := normalize.Flattened(raw)
	for _, sec := range domain.BaseSections {
		if data := normalize.Section(flat, sec, draft); data != nil {
			profile.SetSection(sec, data)
			partial := domain.PartialResult{Section: sec, Status: domain.StatusOK, Data: data}
			outcome.Partials = append(outcome.Partials, partial)
			sink.Publish(partial)
		}
	}

	// Steps 2 and 3: DL and RC lookups. Mutually independent, run
	// concurrently; each failure is isolated to its own section.
	var wg sync.WaitGroup
	var mu sync.Mutex
	merge := func(partial domain.PartialResult) {
		mu.Lock()
		defer mu.Unlock()
		if partial.Section == domain.SectionLicense {
			profile.License = partial.Data
		} else {
			profile.Vehicle = partial.Data
		}
		outcome.Partials = append(outcome.Partials, partial)
		sink.Publish(partial)
	}

	if draft.DLNumber != "" {
		dob := primaryDOB(profile, draft)
		if dob == "" {
			// No DOB from either source: skip silently, section stays absent.
			p.logger.Debug("DL lookup skipped, no date of birth available", map[string]interface{}{
				"dl_number": domain.MaskIdentifier(draft.DLNumber),
			})
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				merge(p.verifyDL(ctx, draft, dob))
			}()
		}
	}
	if draft.RCNumber != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			merge(p.verifyRC(ctx, draft))
		}()
	}
	wg.Wait()

	if tier == domain.TierAdvanced {
		// Step 4: supplementary court-case lookup over the merged profile.
		p.courtCases(ctx, profile, draft, sink)

		// Step 5: fire-and-forget report delivery. Only the toast changes.
		outcome.Toast = p.deliverReport(ctx, profile, draft, sess)
	} else {
		outcome.Toast = domain.Toast{Severity: "success", Message: msgSuccess}
	}

	p.record(ctx, sessionID, tier, draft, outcome, started)
	return outcome
}

func primaryDOB(profile *domain.CanonicalProfile, draft *domain.Draft) string {
	if v, ok := profile.Personal.Field("dob"); ok {
		return v
	}
	return draft.DOB
}

func (p *Pipeline) verifyDL(ctx context.Context, draft *domain.Draft, dob string) domain.PartialResult {
	raw, err := p.gw.VerifyDL(ctx, builder.DLPayload(draft, dob))
	if err != nil {
		p.logger.Warn("DL verification transport failure", map[string]interface{}{"error": err.Error()})
		return errorPartial(domain.SectionLicense, domain.FailureNetwork, msgDLNetwork, draft.DLNumber)
	}
	if notFound(raw, dlPresenceKeys) {
		return errorPartial(domain.SectionLicense, domain.FailureIDNotFound, msgDLNotFound, draft.DLNumber)
	}

	data := normalize.Section(raw, domain.SectionLicense, draft)
	if data == nil {
		data = &domain.SectionData{Status: domain.StatusOK, Fields: map[string]string{}}
	}
	data.IDNumber = draft.DLNumber
	return domain.PartialResult{Section: domain.SectionLicense, Status: domain.StatusOK, Data: data}
}

func (p *Pipeline) verifyRC(ctx context.Context, draft *domain.Draft) domain.PartialResult {
	raw, err := p.gw.VerifyRC(ctx, builder.RCPayload(draft))
	if err != nil {
		p.logger.Warn("RC verification transport failure", map[string]interface{}{"error": err.Error()})
		return errorPartial(domain.SectionVehicle, domain.FailureNetwork, msgRCNetwork, draft.RCNumber)
	}
	if notFound(raw, rcPresenceKeys) {
		return errorPartial(domain.SectionVehicle, domain.FailureIDNotFound, msgRCNotFound, draft.RCNumber)
	}

	data := normalize.Section(raw, domain.SectionVehicle, draft)
	if data == nil {
		data = &domain.SectionData{Status: domain.StatusOK, Fields: map[string]string{}}
	}
	data.IDNumber = draft.RCNumber
	return domain.PartialResult{Section: domain.SectionVehicle, Status: domain.StatusOK, Data: data}
}

func (p *Pipeline) courtCases(ctx context.Context, profile *domain.CanonicalProfile, draft *domain.Draft, sink Sink) {
	name := draft.FullName
	if v, ok := profile.Personal.Field("full_name"); ok {
		name = v
	}

	raw, err := p.gw.CourtCases(ctx, name, profile)
	if err != nil {
		// Supplementary data: degrade to the explicit empty state, never an
		// error surfaced to the user.
		p.logger.Warn("Court-case lookup failed", map[string]interface{}{"error": err.Error()})
		profile.CourtCases = domain.EmptyCourtCases()
	} else {
		profile.CourtCases = normalize.CourtCases(raw)
	}
	sink.Publish(domain.PartialResult{Section: domain.SectionCourtCases, Status: domain.StatusOK})
}

// deliverReport implements step 5. The verification outcome is already
// success at this point; delivery problems only change the toast wording.
func (p *Pipeline) deliverReport(ctx context.Context, profile *domain.CanonicalProfile, draft *domain.Draft, sess session.Context) domain.Toast {
	if sess.Email == "" {
		return domain.Toast{Severity: "success", Message: msgSuccessNoEmail}
	}
	if p.email == nil {
		return domain.Toast{Severity: "success", Message: msgSuccess}
	}

	var pdf []byte
	var pdfErr error
	if p.pdf != nil {
		pdf, pdfErr = p.pdf.Render(profile, draft)
	}
	if (pdfErr != nil || p.pdf == nil) && p.gw != nil {
		// Remote rendering fallback.
		if remote, err := p.gw.GeneratePDF(ctx, profile); err == nil {
			pdf, pdfErr = remote, nil
		} else if pdfErr == nil {
			pdfErr = err
		}
	}
	if pdfErr != nil {
		p.logger.Warn("PDF generation failed", map[string]interface{}{"error": pdfErr.Error()})
		pdf = nil
	}

	emailErr := p.email.SendReport(ctx, sess, profile, draft, pdf)
	if emailErr != nil {
		p.logger.Warn("Report email delivery failed", map[string]interface{}{
			"error": emailErr.Error(),
			"email": maskEmail(sess.Email),
		})
	}

	switch {
	case pdfErr == nil && emailErr == nil:
		return domain.Toast{Severity: "success", Message: msgSuccessEmailedPDF}
	case pdfErr != nil && emailErr == nil:
		return domain.Toast{Severity: "success", Message: msgSuccessEmailNoPDF}
	case pdfErr == nil && emailErr != nil:
		return domain.Toast{Severity: "success", Message: msgSuccessEmailFailed}
	default:
		return domain.Toast{Severity: "success", Message: msgSuccessNoDelivery}
	}
}

func (p *Pipeline) record(ctx context.Context, sessionID string, tier domain.Tier, draft *domain.Draft, outcome *domain.Outcome, started time.Time) {
	if p.audit == nil {
		return
	}
	run := &domain.VerificationRun{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Tier:          tier,
		SubjectName:   draft.FullName,
		MaskedMobile:  domain.MaskIdentifier(draft.Mobile),
		MaskedAadhaar: domain.MaskIdentifier(draft.Aadhaar),
		MaskedPAN:     domain.MaskIdentifier(draft.PAN),
		Failure:       string(outcome.Failure),
		DurationMS:    time.Since(started).Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	for _, partial := range outcome.Partials {
		if partial.Status == domain.StatusOK {
			run.SectionsOK++
		} else {
			run.SectionsFailed++
		}
	}
	if err := p.audit.Record(ctx, run); err != nil {
		p.logger.Warn("Failed to record verification run", map[string]interface{}{"error": err.Error()})
	}
}

// Keys whose simultaneous absence marks a dependent response as "not found"
// even without an explicit status.
var (
	dlPresenceKeys = []string{"holder_name", "address", "issuing_rto", "valid_to"}
	rcPresenceKeys = []string{"owner_name", "registration_date", "maker_model", "chassis_number"}
)

// notFound applies the two-tier semantic check: an explicit not-found status,
// or every identifying field absent at once.
func notFound(raw map[string]interface{}, presenceKeys []string) bool {
	if v, ok := normalize.Lookup(raw, "status"); ok {
		if s, ok := v.(string); ok {
			switch strings.ToLower(s) {
			case "not_found", "id_not_found", "record_not_found":
				return true
			}
		}
	}

	section := domain.SectionLicense
	if presenceKeys[0] == "owner_name" {
		section = domain.SectionVehicle
	}
	specs := normalize.SectionSpecs(section)
	for _, key := range presenceKeys {
		for _, spec := range specs {
			if spec.Key != key {
				continue
			}
			// Form fallback intentionally excluded: only backend-sourced
			// fields count as evidence the subject was found.
			if _, ok := normalize.Resolve(raw, normalize.FieldSpec{Key: spec.Key, Aliases: spec.Aliases}, nil); ok {
				return false
			}
		}
	}
	return true
}

func errorPartial(sec domain.Section, failure domain.FailureKind, message, idNumber string) domain.PartialResult {
	return domain.PartialResult{
		Section: sec,
		Status:  domain.StatusError,
		Failure: failure,
		Message: message,
		Data: &domain.SectionData{
			Status:       domain.StatusError,
			Failure:      failure,
			IDNumber:     idNumber,
			ErrorMessage: message,
		},
	}
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// base64Attachment is reused by email sender implementations.
func base64Attachment(pdf []byte) string {
	return base64.StdEncoding.EncodeToString(pdf)
}
