// ==============================================================================
// EXPORT FLATTENING - internal/export/flatten.go
// ==============================================================================
// Deterministic flattening of the canonical profile into ordered key/value
// blocks. Both the spreadsheet and the PDF derive from this shape, and it is
// recomputed fresh on every export. The field-to-column mapping is fixed for
// compatibility with downstream spreadsheet consumers.
// ==============================================================================

package export

import (
	"fmt"
	"sort"
	"strconv"

	"verid/internal/domain"
	"verid/internal/normalize"
)

// NotAvailable is the presentation sentinel for absent fields. It is applied
// here, at render time, never stored in the canonical model.
const NotAvailable = "Not Available"

type KV struct {
	Key   string
	Value string
}

// Table is a list-shaped value rendered as its own sheet or bullet rows.
type Table struct {
	Title   string
	Keys    []string
	Columns []string
	Rows    []map[string]string
}

// Block is one titled section of the export document.
type Block struct {
	Section domain.Section
	Title   string
	Pairs   []KV
	Table   *Table
}

var sectionTitles = []struct {
	Section domain.Section
	Title   string
}{
	{domain.SectionPersonal, "Personal Information"},
	{domain.SectionContact, "Contact Information"},
	{domain.SectionDigital, "Digital Presence"},
	{domain.SectionEmployment, "Employment"},
	{domain.SectionBusiness, "Business"},
	{domain.SectionCredit, "Credit Summary"},
	{domain.SectionLicense, "Driving License"},
	{domain.SectionVehicle, "Vehicle Registration"},
}

var tableTitles = map[domain.Section]string{
	domain.SectionCredit:     "Credit Accounts",
	domain.SectionLicense:    "Vehicle Categories",
	domain.SectionEmployment: "Employment History",
}

// Flatten renders the profile into ordered blocks. Calling it twice on the
// same unmutated profile yields identical output.
func Flatten(p *domain.CanonicalProfile, d *domain.Draft) []Block {
	var blocks []Block
	for _, st := range sectionTitles {
		data := p.Section(st.Section)
		if data == nil {
			continue
		}
		blocks = append(blocks, sectionBlock(st.Section, st.Title, data, d))
	}
	if p.CourtCases != nil {
		blocks = append(blocks, courtCaseBlock(p.CourtCases))
	}
	return blocks
}

// Summary merges every block's pairs into the single "Profile Summary" list.
// Keys are prefixed with the section title so a field present in two
// sections (address, for instance) stays unambiguous.
func Summary(blocks []Block) []KV {
	var out []KV
	for _, block := range blocks {
		for _, pair := range block.Pairs {
			out = append(out, KV{Key: block.Title + " - " + pair.Key, Value: pair.Value})
		}
	}
	return out
}

func sectionBlock(sec domain.Section, title string, data *domain.SectionData, d *domain.Draft) Block {
	block := Block{Section: sec, Title: title}

	if data.Status == domain.StatusError {
		if data.IDNumber != "" {
			block.Pairs = append(block.Pairs, KV{Key: "ID Number", Value: data.IDNumber})
		}
		status := "Verification Failed"
		if data.Failure == domain.FailureIDNotFound {
			status = "Not Found"
		}
		block.Pairs = append(block.Pairs, KV{Key: "Status", Value: status})
		if data.ErrorMessage != "" {
			block.Pairs = append(block.Pairs, KV{Key: "Error", Value: data.ErrorMessage})
		}
		return block
	}

	for _, spec := range normalize.SectionSpecs(sec) {
		value, ok := data.Field(spec.Key)
		if !ok {
			value = NotAvailable
		}
		// The owner's export always carries the Aadhaar number as entered,
		// overriding any masked value the backend returned.
		if sec == domain.SectionPersonal && spec.Key == "aadhaar_number" && d != nil && d.Aadhaar != "" {
			value = d.Aadhaar
		}
		block.Pairs = append(block.Pairs, KV{Key: spec.Label, Value: value})
	}

	if sec == domain.SectionEmployment {
		// Company history is exploded into numbered columns.
		for i, row := range data.Rows {
			if company, ok := row["company"]; ok {
				block.Pairs = append(block.Pairs, KV{Key: fmt.Sprintf("Company %d", i+1), Value: company})
			}
		}
	}

	if ls, ok := normalize.SectionListSpec(sec); ok && len(data.Rows) > 0 {
		table := &Table{Title: tableTitles[sec], Rows: data.Rows}
		for _, col := range ls.Columns {
			table.Keys = append(table.Keys, col.Key)
			table.Columns = append(table.Columns, col.Label)
		}
		block.Table = table
	}

	return block
}

func courtCaseBlock(cc *domain.CourtCaseData) Block {
	block := Block{
		Section: domain.SectionCourtCases,
		Title:   "Court Cases",
		Pairs: []KV{
			{Key: "Cases Found", Value: strconv.Itoa(cc.CasesFound)},
		},
	}

	statKeys := make([]string, 0, len(cc.Statistics))
	for k := range cc.Statistics {
		statKeys = append(statKeys, k)
	}
	sort.Strings(statKeys)
	for _, k := range statKeys {
		block.Pairs = append(block.Pairs, KV{Key: k, Value: cc.Statistics[k]})
	}

	if len(cc.Cases) > 0 {
		keySet := make(map[string]struct{})
		for _, row := range cc.Cases {
			for k := range row {
				keySet[k] = struct{}{}
			}
		}
		keys := make([]string, 0, len(keySet))
		for k := range keySet {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		block.Table = &Table{Title: "Court Case List", Keys: keys, Columns: keys, Rows: cc.Cases}
	}

	return block
}
