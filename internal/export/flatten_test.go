// ==============================================================================
// EXPORT FLATTENING TESTS - internal/export/flatten_test.go
// ==============================================================================
package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verid/internal/domain"
)

func sampleProfile() *domain.CanonicalProfile {
	return &domain.CanonicalProfile{
		Personal: &domain.SectionData{
			Status: domain.StatusOK,
			Fields: map[string]string{
				"full_name":      "Asha Rao",
				"dob":            "1990-01-01",
				"aadhaar_number": "XXXX-XXXX-9012",
			},
		},
		Employment: &domain.SectionData{
			Status: domain.StatusOK,
			Fields: map[string]string{"uan": "100200300400"},
			Rows: []map[string]string{
				{"company": "Infosys", "date_of_joining": "2015-06-01"},
				{"company": "Wipro", "date_of_joining": "2019-02-01"},
			},
		},
		License: &domain.SectionData{
			Status:       domain.StatusError,
			Failure:      domain.FailureIDNotFound,
			IDNumber:     "KA0120201234567",
			ErrorMessage: "Driving license details not found. Please verify the DL number.",
		},
		CourtCases: &domain.CourtCaseData{
			Cases:      []map[string]string{{"court": "High Court", "status": "Disposed"}},
			CasesFound: 1,
			Statistics: map[string]string{"riskScore": "0.12"},
		},
	}
}

func sampleDraft() *domain.Draft {
	return &domain.Draft{FullName: "Asha Rao", Aadhaar: "123456789012"}
}

func findBlock(t *testing.T, blocks []Block, title string) Block {
	t.Helper()
	for _, b := range blocks {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("block %q not found", title)
	return Block{}
}

func pairValue(pairs []KV, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func TestFlattenSectionOrderIsFixed(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())

	titles := make([]string, 0, len(blocks))
	for _, b := range blocks {
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"Personal Information", "Employment", "Driving License", "Court Cases"}, titles)
}

func TestFlattenIsDeterministic(t *testing.T) {
	profile := sampleProfile()
	draft := sampleDraft()

	assert.Equal(t, Flatten(profile, draft), Flatten(profile, draft))
}

func TestFlattenAbsentFieldsGetSentinel(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())
	personal := findBlock(t, blocks, "Personal Information")

	v, ok := pairValue(personal.Pairs, "Gender")
	require.True(t, ok)
	assert.Equal(t, NotAvailable, v)
}

func TestFlattenAadhaarComesFromFormInput(t *testing.T) {
	// The backend returned a masked value; the owner's export carries the
	// number as entered.
	blocks := Flatten(sampleProfile(), sampleDraft())
	personal := findBlock(t, blocks, "Personal Information")

	v, ok := pairValue(personal.Pairs, "Aadhaar Number")
	require.True(t, ok)
	assert.Equal(t, "123456789012", v)
}

func TestFlattenErrorSectionRendersFailureState(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())
	license := findBlock(t, blocks, "Driving License")

	v, _ := pairValue(license.Pairs, "ID Number")
	assert.Equal(t, "KA0120201234567", v)
	v, _ = pairValue(license.Pairs, "Status")
	assert.Equal(t, "Not Found", v)
	v, _ = pairValue(license.Pairs, "Error")
	assert.Equal(t, "Driving license details not found. Please verify the DL number.", v)

	// No canonical field labels leak into the failure block.
	_, ok := pairValue(license.Pairs, "Holder Name")
	assert.False(t, ok)
}

func TestFlattenNetworkFailureStatus(t *testing.T) {
	profile := &domain.CanonicalProfile{
		Vehicle: &domain.SectionData{
			Status:   domain.StatusError,
			Failure:  domain.FailureNetwork,
			IDNumber: "KA01AB1234",
		},
	}

	blocks := Flatten(profile, nil)
	vehicle := findBlock(t, blocks, "Vehicle Registration")

	v, _ := pairValue(vehicle.Pairs, "Status")
	assert.Equal(t, "Verification Failed", v)
}

func TestFlattenEmploymentCompanyColumns(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())
	employment := findBlock(t, blocks, "Employment")

	v, ok := pairValue(employment.Pairs, "Company 1")
	require.True(t, ok)
	assert.Equal(t, "Infosys", v)
	v, ok = pairValue(employment.Pairs, "Company 2")
	require.True(t, ok)
	assert.Equal(t, "Wipro", v)

	require.NotNil(t, employment.Table)
	assert.Equal(t, "Employment History", employment.Table.Title)
}

func TestFlattenCourtCaseBlock(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())
	courts := findBlock(t, blocks, "Court Cases")

	v, _ := pairValue(courts.Pairs, "Cases Found")
	assert.Equal(t, "1", v)
	v, _ = pairValue(courts.Pairs, "riskScore")
	assert.Equal(t, "0.12", v)

	require.NotNil(t, courts.Table)
	// Column set is the sorted union of case keys.
	assert.Equal(t, []string{"court", "status"}, courts.Table.Columns)
}

func TestSummaryPrefixesSectionTitles(t *testing.T) {
	blocks := Flatten(sampleProfile(), sampleDraft())
	summary := Summary(blocks)

	v, ok := pairValue(summary, "Personal Information - Full Name")
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", v)

	v, ok = pairValue(summary, "Court Cases - Cases Found")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestWritersProduceOutput(t *testing.T) {
	profile := sampleProfile()
	draft := sampleDraft()

	t.Run("xlsx", func(t *testing.T) {
		data, err := NewExcelWriter().Write(profile, draft)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("pdf", func(t *testing.T) {
		data, err := NewPDFWriter().Render(profile, draft)
		require.NoError(t, err)
		require.True(t, len(data) > 4)
		assert.Equal(t, "%PDF", string(data[:4]))
	})
}
