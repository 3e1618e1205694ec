// ==============================================================================
// VERIFICATION PIPELINE TESTS - internal/pipeline/pipeline_test.go
// ==============================================================================
package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"verid/internal/domain"
	"verid/internal/session"
	"verid/pkg/logger"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GenerateProfile(ctx context.Context, tier domain.Tier, payload map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, tier, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *mockGateway) VerifyDL(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *mockGateway) VerifyRC(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *mockGateway) CourtCases(ctx context.Context, name string, profile *domain.CanonicalProfile) (map[string]interface{}, error) {
	args := m.Called(ctx, name, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *mockGateway) GeneratePDF(ctx context.Context, profile *domain.CanonicalProfile) ([]byte, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type stubPDF struct {
	data []byte
	err  error
}

func (s *stubPDF) Render(*domain.CanonicalProfile, *domain.Draft) ([]byte, error) {
	return s.data, s.err
}

type stubEmail struct {
	err   error
	calls int
	pdf   []byte
}

func (s *stubEmail) SendReport(ctx context.Context, sess session.Context, profile *domain.CanonicalProfile, draft *domain.Draft, pdf []byte) error {
	s.calls++
	s.pdf = pdf
	return s.err
}

func liteDraft() *domain.Draft {
	return &domain.Draft{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Aadhaar:  "123456789012",
		PAN:      "ABCDE1234F",
		Kinds:    []domain.Kind{domain.KindMobile, domain.KindAadhaar, domain.KindPAN},
	}
}

func primaryResponse() map[string]interface{} {
	return map[string]interface{}{
		"personalInfo": map[string]interface{}{
			"fullName": "Asha Rao",
			"dob":      "1990-01-01",
		},
		"contactInfo": map[string]interface{}{
			"mobile": "9876543210",
		},
	}
}

func TestRunPrimaryFailureAborts(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(nil, errors.New("upstream returned status 500"))

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)

	assert.Equal(t, domain.FailurePrimary, outcome.Failure)
	assert.Equal(t, "error", outcome.Toast.Severity)
	assert.Equal(t, "Verification failed. Please try again later.", outcome.Toast.Message)
	assert.Nil(t, outcome.Profile)

	// No dependent call may be issued after a primary failure.
	gw.AssertNotCalled(t, "VerifyDL", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "VerifyRC", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "CourtCases", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunLiteSuccess(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(primaryResponse(), nil)

	var published []domain.PartialResult
	sink := SinkFunc(func(r domain.PartialResult) { published = append(published, r) })

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, sink)

	require.NotNil(t, outcome.Profile)
	assert.Empty(t, outcome.Failure)
	assert.Equal(t, "Profile generated successfully.", outcome.Toast.Message)

	v, ok := outcome.Profile.Personal.Field("full_name")
	assert.True(t, ok)
	assert.Equal(t, "Asha Rao", v)

	// Form fallback filled Aadhaar even though the backend omitted it.
	v, ok = outcome.Profile.Personal.Field("aadhaar_number")
	assert.True(t, ok)
	assert.Equal(t, "123456789012", v)

	assert.NotEmpty(t, published)
	gw.AssertNotCalled(t, "CourtCases", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunDLSkippedWithoutDOB(t *testing.T) {
	draft := liteDraft()
	draft.DLNumber = "KA0120201234567"

	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(map[string]interface{}{
			"personalInfo": map[string]interface{}{"fullName": "Asha Rao"},
		}, nil)

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, draft, session.Context{}, nil)

	// No DOB from the primary response or the form: silent skip.
	assert.Nil(t, outcome.Profile.License)
	gw.AssertNotCalled(t, "VerifyDL", mock.Anything, mock.Anything)
}

func TestRunDLUsesPrimaryDOBOverForm(t *testing.T) {
	draft := liteDraft()
	draft.DLNumber = "KA0120201234567"
	draft.DOB = "1991-05-05"

	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(primaryResponse(), nil)
	gw.On("VerifyDL", mock.Anything, map[string]interface{}{
		"dl_number": "KA0120201234567",
		"dob":       "1990-01-01", // from primary response, not the form
	}).Return(map[string]interface{}{
		"holder_name": "Asha Rao",
		"issuing_rto": "Bangalore RTO",
	}, nil)

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, draft, session.Context{}, nil)

	require.NotNil(t, outcome.Profile.License)
	assert.Equal(t, domain.StatusOK, outcome.Profile.License.Status)
	assert.Equal(t, "KA0120201234567", outcome.Profile.License.IDNumber)
	gw.AssertExpectations(t)
}

func TestRunDLNotFoundClassification(t *testing.T) {
	draft := liteDraft()
	draft.DLNumber = "KA0120201234567"
	draft.DOB = "1990-01-01"

	cases := []struct {
		name     string
		response map[string]interface{}
	}{
		{"explicit status", map[string]interface{}{"status": "not_found"}},
		{"all identifying fields absent", map[string]interface{}{"request_id": "abc123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
				Return(map[string]interface{}{
					"personalInfo": map[string]interface{}{"fullName": "Asha Rao", "dob": "1990-01-01"},
				}, nil)
			gw.On("VerifyDL", mock.Anything, mock.Anything).Return(tc.response, nil)

			pipe := New(gw, nil, nil, nil, logger.NewNop())
			outcome := pipe.Run(context.Background(), "s1", domain.TierLite, draft, session.Context{}, nil)

			lic := outcome.Profile.License
			require.NotNil(t, lic)
			assert.Equal(t, domain.StatusError, lic.Status)
			assert.Equal(t, domain.FailureIDNotFound, lic.Failure)
			assert.Equal(t, "KA0120201234567", lic.IDNumber)
			assert.Equal(t, "Driving license details not found. Please verify the DL number.", lic.ErrorMessage)
		})
	}
}

func TestRunDLNetworkFailureMessage(t *testing.T) {
	draft := liteDraft()
	draft.DLNumber = "KA0120201234567"
	draft.DOB = "1990-01-01"

	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(primaryResponse(), nil)
	gw.On("VerifyDL", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, draft, session.Context{}, nil)

	lic := outcome.Profile.License
	require.NotNil(t, lic)
	assert.Equal(t, domain.StatusError, lic.Status)
	assert.Equal(t, domain.FailureNetwork, lic.Failure)
	assert.Equal(t, "Failed to verify driving license. Please try again later.", lic.ErrorMessage)
}

func TestRunDLAndRCIndependent(t *testing.T) {
	draft := liteDraft()
	draft.DLNumber = "KA0120201234567"
	draft.DOB = "1990-01-01"
	draft.RCNumber = "KA01AB1234"

	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(primaryResponse(), nil)
	gw.On("VerifyDL", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	gw.On("VerifyRC", mock.Anything, map[string]interface{}{
		"service":   "vehicle-rc",
		"rc_number": "KA01AB1234",
	}).Return(map[string]interface{}{
		"owner_name":  "Asha Rao",
		"maker_model": "Maruti Swift",
	}, nil)

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierLite, draft, session.Context{}, nil)

	assert.Equal(t, domain.StatusError, outcome.Profile.License.Status)
	require.NotNil(t, outcome.Profile.Vehicle)
	assert.Equal(t, domain.StatusOK, outcome.Profile.Vehicle.Status)
	assert.Equal(t, "KA01AB1234", outcome.Profile.Vehicle.IDNumber)
}

func TestRunAdvancedCourtCaseFailureDegrades(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierAdvanced, mock.Anything).
		Return(primaryResponse(), nil)
	gw.On("CourtCases", mock.Anything, "Asha Rao", mock.Anything).
		Return(nil, errors.New("upstream returned status 500"))

	pipe := New(gw, nil, nil, nil, logger.NewNop())
	outcome := pipe.Run(context.Background(), "s1", domain.TierAdvanced, liteDraft(), session.Context{}, nil)

	require.NotNil(t, outcome.Profile.CourtCases)
	assert.Empty(t, outcome.Profile.CourtCases.Cases)
	assert.Equal(t, 0, outcome.Profile.CourtCases.CasesFound)

	// Supplementary failure never downgrades the success toast.
	assert.Equal(t, "success", outcome.Toast.Severity)
}

func TestRunAdvancedToastVariants(t *testing.T) {
	cases := []struct {
		name    string
		email   string
		pdfErr  error
		sendErr error
		message string
	}{
		{"no stored email", "", nil, nil, "Profile generated successfully. (No email configured)"},
		{"pdf and email ok", "asha@example.com", nil, nil, "Profile generated successfully. PDF report emailed."},
		{"pdf failed, email ok", "asha@example.com", errors.New("render failed"), nil, "Profile generated successfully. Report emailed. (PDF generation failed)"},
		{"email failed", "asha@example.com", nil, errors.New("smtp refused"), "Profile generated successfully. (Email delivery failed)"},
		{"both failed", "asha@example.com", errors.New("render failed"), errors.New("smtp refused"), "Profile generated successfully. (Email and PDF delivery failed)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("GenerateProfile", mock.Anything, domain.TierAdvanced, mock.Anything).
				Return(primaryResponse(), nil)
			gw.On("CourtCases", mock.Anything, mock.Anything, mock.Anything).
				Return(map[string]interface{}{"cases": []interface{}{}}, nil)
			// Remote rendering fallback also fails when local rendering does.
			gw.On("GeneratePDF", mock.Anything, mock.Anything).
				Return(nil, errors.New("puppeteer unavailable")).Maybe()

			pdf := &stubPDF{data: []byte("%PDF-stub"), err: tc.pdfErr}
			email := &stubEmail{err: tc.sendErr}

			pipe := New(gw, pdf, email, nil, logger.NewNop())
			outcome := pipe.Run(context.Background(), "s1", domain.TierAdvanced, liteDraft(),
				session.Context{Email: tc.email}, nil)

			assert.Equal(t, "success", outcome.Toast.Severity)
			assert.Equal(t, tc.message, outcome.Toast.Message)

			if tc.email == "" {
				assert.Zero(t, email.calls, "no delivery attempt without a stored email")
			} else {
				assert.Equal(t, 1, email.calls)
			}
		})
	}
}

func TestRunRecordsAudit(t *testing.T) {
	gw := new(mockGateway)
	gw.On("GenerateProfile", mock.Anything, domain.TierLite, mock.Anything).
		Return(primaryResponse(), nil)

	var recorded *domain.VerificationRun
	rec := recorderFunc(func(ctx context.Context, run *domain.VerificationRun) error {
		recorded = run
		return nil
	})

	pipe := New(gw, nil, nil, rec, logger.NewNop())
	pipe.Run(context.Background(), "s1", domain.TierLite, liteDraft(), session.Context{}, nil)

	require.NotNil(t, recorded)
	assert.Equal(t, "s1", recorded.SessionID)
	assert.Equal(t, domain.TierLite, recorded.Tier)
	// Identifiers reach the audit trail masked only.
	assert.Equal(t, "XXXXXXXX9012", recorded.MaskedAadhaar)
	assert.Positive(t, recorded.SectionsOK)
}

type recorderFunc func(ctx context.Context, run *domain.VerificationRun) error

func (f recorderFunc) Record(ctx context.Context, run *domain.VerificationRun) error {
	return f(ctx, run)
}
