// ==============================================================================
// RESULT NORMALIZER TESTS - internal/normalize/normalize_test.go
// ==============================================================================
package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verid/internal/domain"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestLookupDotPath(t *testing.T) {
	raw := decode(t, `{"personalInfo":{"fullName":"Asha Rao","nested":{"deep":"v"}}}`)

	v, ok := Lookup(raw, "personalInfo.fullName")
	assert.True(t, ok)
	assert.Equal(t, "Asha Rao", v)

	v, ok = Lookup(raw, "personalInfo.nested.deep")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = Lookup(raw, "personalInfo.missing")
	assert.False(t, ok)

	_, ok = Lookup(raw, "personalInfo.fullName.tooDeep")
	assert.False(t, ok)

	_, ok = Lookup(nil, "anything")
	assert.False(t, ok)
}

func TestResolveAliasPriorityOrder(t *testing.T) {
	spec := FieldSpec{Key: "full_name", Aliases: []string{"full_name", "fullName"}}
	raw := decode(t, `{"full_name":"Snake Case","fullName":"Camel Case"}`)

	v, ok := Resolve(raw, spec, nil)
	assert.True(t, ok)
	assert.Equal(t, "Snake Case", v)
}

func TestResolveFormFallback(t *testing.T) {
	spec := FieldSpec{Key: "aadhaar_number", Aliases: []string{"aadhaar_number"}, FormField: "aadhaar"}
	draft := &domain.Draft{Aadhaar: "123456789012"}

	v, ok := Resolve(map[string]interface{}{}, spec, draft)
	assert.True(t, ok)
	assert.Equal(t, "123456789012", v)

	_, ok = Resolve(map[string]interface{}{}, spec, &domain.Draft{})
	assert.False(t, ok)
}

func TestSectionPrimaryResponseWithFormFallback(t *testing.T) {
	draft := &domain.Draft{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Aadhaar:  "123456789012",
		PAN:      "ABCDE1234F",
	}
	raw := decode(t, `{"personalInfo":{"fullName":"Asha Rao","dob":"1990-01-01"}}`)

	data := Section(raw, domain.SectionPersonal, draft)
	require.NotNil(t, data)

	assert.Equal(t, domain.StatusOK, data.Status)
	assert.Equal(t, "Asha Rao", data.Fields["full_name"])
	assert.Equal(t, "1990-01-01", data.Fields["dob"])
	// Backend omitted the Aadhaar number, so the form value fills in.
	assert.Equal(t, "123456789012", data.Fields["aadhaar_number"])
	assert.Equal(t, "ABCDE1234F", data.Fields["pan_number"])
	// Never supplied anywhere: genuinely absent, no sentinel stored.
	assert.NotContains(t, data.Fields, "gender")
}

func TestSectionNilWhenNothingResolves(t *testing.T) {
	raw := decode(t, `{"unrelated":"value"}`)

	assert.Nil(t, Section(raw, domain.SectionBusiness, &domain.Draft{}))
}

func TestSectionNumericPassthrough(t *testing.T) {
	raw := decode(t, `{"creditInfo":{"creditScore":767,"totalOutstanding":150000.5}}`)

	data := Section(raw, domain.SectionCredit, nil)
	require.NotNil(t, data)

	assert.Equal(t, "767", data.Fields["credit_score"])
	assert.Equal(t, "150000.5", data.Fields["total_balance"])
}

func TestSectionCreditAccountRows(t *testing.T) {
	raw := decode(t, `{"creditInfo":{"creditScore":767,"accounts":[
		{"lenderName":"HDFC Bank","accountType":"Credit Card","accountStatus":"Active","currentBalance":45000},
		{"member_name":"SBI","account_type":"Personal Loan","status":"Closed"}
	]}}`)

	data := Section(raw, domain.SectionCredit, nil)
	require.NotNil(t, data)
	require.Len(t, data.Rows, 2)

	assert.Equal(t, "HDFC Bank", data.Rows[0]["lender"])
	assert.Equal(t, "45000", data.Rows[0]["balance"])
	assert.Equal(t, "SBI", data.Rows[1]["lender"])
	assert.Equal(t, "Closed", data.Rows[1]["status"])
}

func TestSectionVehicleCategoriesFromBareStrings(t *testing.T) {
	raw := decode(t, `{"dl_number":"KA0120201234567","holder_name":"Asha Rao","cov_details":["LMV","MCWG"]}`)

	data := Section(raw, domain.SectionLicense, nil)
	require.NotNil(t, data)
	require.Len(t, data.Rows, 2)

	assert.Equal(t, "LMV", data.Rows[0]["category"])
	assert.Equal(t, "MCWG", data.Rows[1]["category"])
}

func TestFlattenedMergesMiniResults(t *testing.T) {
	raw := decode(t, `{
		"results": {
			"mobile": {"operator":"Jio","circle":"Karnataka"},
			"pan": {"pan_number":"ABCDE1234F"}
		},
		"full_name": "Asha Rao"
	}`)

	flat := Flattened(raw)

	assert.Equal(t, "Jio", flat["operator"])
	assert.Equal(t, "ABCDE1234F", flat["pan_number"])
	// Top-level keys win over merged per-kind ones.
	assert.Equal(t, "Asha Rao", flat["full_name"])
}

func TestFlattenedNoResultsIsIdentity(t *testing.T) {
	raw := decode(t, `{"full_name":"Asha Rao"}`)

	assert.Equal(t, raw, Flattened(raw))
}

func TestCourtCasesDecoding(t *testing.T) {
	raw := decode(t, `{
		"cases":[{"court":"High Court","caseNumber":"CRL 123/2020","status":"Disposed"}],
		"casesFound": 1,
		"advancedAnalysis": {"statistics": {"riskScore": 0.12, "totalSearched": 40000}}
	}`)

	data := CourtCases(raw)

	assert.Equal(t, 1, data.CasesFound)
	require.Len(t, data.Cases, 1)
	assert.Equal(t, "High Court", data.Cases[0]["court"])
	assert.Equal(t, "0.12", data.Statistics["riskScore"])
	assert.Equal(t, "40000", data.Statistics["totalSearched"])
}

func TestCourtCasesDegradesToEmpty(t *testing.T) {
	assert.Equal(t, domain.EmptyCourtCases(), CourtCases(nil))

	data := CourtCases(decode(t, `{"unexpected":"shape"}`))
	assert.Equal(t, 0, data.CasesFound)
	assert.Empty(t, data.Cases)
}

func TestStringifyShapes(t *testing.T) {
	raw := decode(t, `{"verified": true, "tags": ["a","b"], "amount": 1500.25, "count": 3}`)

	spec := func(key string, numeric bool) FieldSpec {
		return FieldSpec{Key: key, Aliases: []string{key}, Numeric: numeric}
	}

	v, _ := Resolve(raw, spec("verified", false), nil)
	assert.Equal(t, "true", v)

	v, _ = Resolve(raw, spec("tags", false), nil)
	assert.Equal(t, "a, b", v)

	v, _ = Resolve(raw, spec("amount", true), nil)
	assert.Equal(t, "1500.25", v)

	v, _ = Resolve(raw, spec("count", false), nil)
	assert.Equal(t, "3", v)
}
