// ==============================================================================
// FIELD ALIAS TABLES - internal/normalize/aliases.go
// ==============================================================================
// The backends disagree on naming (snake_case vs camelCase) and on nesting
// (top-level vs source_output vs rawProfileData). Every canonical field is
// resolved through an ordered alias list, then through the form input, so a
// value the user actually supplied is never lost. Each alias rule here is
// independently testable.
// ==============================================================================

package normalize

import "verid/internal/domain"

// FieldSpec declares one canonical field of a section.
type FieldSpec struct {
	Key       string   // canonical key stored in SectionData.Fields
	Label     string   // display/export label
	Aliases   []string // dot paths into the raw payload, in priority order
	FormField string   // draft field used as final fallback, if any
	Numeric   bool     // currency/score values passed through unformatted
}

// ListSpec declares a list-shaped value of a section (credit accounts,
// license vehicle categories). Columns fix the flattened shape for export.
type ListSpec struct {
	Aliases []string
	Columns []FieldSpec
}

var sectionSpecs = map[domain.Section][]FieldSpec{
	domain.SectionPersonal: {
		{Key: "full_name", Label: "Full Name", FormField: "full_name", Aliases: []string{
			"full_name", "fullName", "name",
			"personalInfo.fullName", "personalInfo.full_name", "personal_info.full_name",
			"rawProfileData.personalInfo.fullName", "source_output.full_name",
		}},
		{Key: "dob", Label: "Date of Birth", FormField: "dob", Aliases: []string{
			"dob", "dateOfBirth",
			"personalInfo.dob", "personalInfo.dateOfBirth", "personal_info.dob",
			"rawProfileData.personalInfo.dob", "source_output.dob",
		}},
		{Key: "gender", Label: "Gender", Aliases: []string{
			"gender", "personalInfo.gender", "personal_info.gender", "source_output.gender",
		}},
		{Key: "age", Label: "Age", Numeric: true, Aliases: []string{
			"age", "personalInfo.age",
		}},
		{Key: "father_name", Label: "Father's Name", FormField: "father_name", Aliases: []string{
			"father_name", "fatherName",
			"personalInfo.fatherName", "personal_info.father_name", "source_output.father_name",
		}},
		{Key: "aadhaar_number", Label: "Aadhaar Number", FormField: "aadhaar", Aliases: []string{
			"aadhaar_number", "aadhaarNumber", "maskedAadhaar",
			"personalInfo.aadhaarNumber", "source_output.aadhaar_number",
		}},
		{Key: "pan_number", Label: "PAN", FormField: "pan", Aliases: []string{
			"pan_number", "panNumber", "pan",
			"personalInfo.panNumber", "source_output.pan_number",
		}},
		{Key: "epic_number", Label: "EPIC Number", FormField: "epic_number", Aliases: []string{
			"epic_number", "epicNumber", "voterId", "personalInfo.epicNumber",
		}},
		{Key: "passport_file_number", Label: "Passport File Number", FormField: "passport_file_number", Aliases: []string{
			"passport_file_number", "passportFileNumber", "personalInfo.passportFileNumber",
		}},
		{Key: "address", Label: "Address", Aliases: []string{
			"address", "personalInfo.address", "addressInfo.fullAddress",
			"address_info.full_address", "source_output.address",
		}},
	},

	domain.SectionContact: {
		{Key: "mobile", Label: "Mobile Number", FormField: "mobile", Aliases: []string{
			"mobile", "mobileNumber", "phone",
			"contactInfo.mobile", "contact_info.mobile", "source_output.mobile",
		}},
		{Key: "alternate_mobile", Label: "Alternate Mobile", Aliases: []string{
			"alternate_mobile", "alternateMobile", "contactInfo.alternateMobile",
		}},
		{Key: "email", Label: "Email", Aliases: []string{
			"email", "emailAddress", "contactInfo.email", "contact_info.email",
		}},
		{Key: "operator", Label: "Telecom Operator", Aliases: []string{
			"operator", "telecomOperator", "contactInfo.operator",
		}},
		{Key: "circle", Label: "Telecom Circle", Aliases: []string{
			"circle", "telecomCircle", "contactInfo.circle",
		}},
	},

	domain.SectionDigital: {
		{Key: "upi_id", Label: "UPI ID", FormField: "upi_id", Aliases: []string{
			"upi_id", "upiId", "digitalInfo.upiId", "digital_info.upi_id",
		}},
		{Key: "upi_name", Label: "UPI Registered Name", Aliases: []string{
			"upi_name", "upiName", "digitalInfo.upiName",
		}},
		{Key: "digital_age", Label: "Digital Footprint Age", Aliases: []string{
			"digital_age", "digitalAge", "digitalInfo.digitalAge",
		}},
		{Key: "social_profiles", Label: "Social Profiles", Aliases: []string{
			"social_profiles", "socialProfiles", "digitalInfo.socialProfiles",
		}},
	},

	domain.SectionEmployment: {
		{Key: "uan", Label: "UAN", Aliases: []string{
			"uan", "employmentInfo.uan", "employment_info.uan",
		}},
		{Key: "employer_name", Label: "Current Employer", Aliases: []string{
			"employer_name", "employerName",
			"employmentInfo.employerName", "employmentInfo.recentEmployerData.establishmentName",
			"employment_info.employer_name",
		}},
		{Key: "designation", Label: "Designation", Aliases: []string{
			"designation", "employmentInfo.designation",
		}},
		{Key: "date_of_joining", Label: "Date of Joining", Aliases: []string{
			"date_of_joining", "dateOfJoining", "employmentInfo.dateOfJoining",
		}},
	},

	domain.SectionBusiness: {
		{Key: "gstin", Label: "GSTIN", FormField: "gstin", Aliases: []string{
			"gstin", "businessInfo.gstin", "business_info.gstin",
		}},
		{Key: "legal_name", Label: "Legal Name", Aliases: []string{
			"legal_name", "legalName", "businessInfo.legalName",
		}},
		{Key: "trade_name", Label: "Trade Name", Aliases: []string{
			"trade_name", "tradeName", "businessInfo.tradeName",
		}},
		{Key: "business_type", Label: "Business Type", Aliases: []string{
			"business_type", "businessType", "businessInfo.businessType",
		}},
		{Key: "registration_date", Label: "Registration Date", Aliases: []string{
			"registration_date", "registrationDate", "businessInfo.registrationDate",
		}},
		{Key: "gst_status", Label: "GST Status", Aliases: []string{
			"gst_status", "gstStatus", "businessInfo.gstStatus",
		}},
	},

	domain.SectionCredit: {
		{Key: "credit_score", Label: "Credit Score", Numeric: true, Aliases: []string{
			"credit_score", "creditScore",
			"creditInfo.creditScore", "credit_report.score", "rawProfileData.creditData.score",
		}},
		{Key: "total_accounts", Label: "Total Accounts", Numeric: true, Aliases: []string{
			"total_accounts", "totalAccounts", "creditInfo.totalAccounts", "credit_report.total_accounts",
		}},
		{Key: "active_accounts", Label: "Active Accounts", Numeric: true, Aliases: []string{
			"active_accounts", "activeAccounts", "creditInfo.activeAccounts",
		}},
		{Key: "total_balance", Label: "Outstanding Balance", Numeric: true, Aliases: []string{
			"total_balance", "totalBalance", "creditInfo.totalOutstanding", "credit_report.total_balance",
		}},
		{Key: "overdue_amount", Label: "Overdue Amount", Numeric: true, Aliases: []string{
			"overdue_amount", "overdueAmount", "creditInfo.overdueAmount",
		}},
		{Key: "recent_enquiries", Label: "Recent Enquiries", Numeric: true, Aliases: []string{
			"recent_enquiries", "recentEnquiries", "creditInfo.recentEnquiries",
		}},
	},

	domain.SectionLicense: {
		{Key: "dl_number", Label: "DL Number", FormField: "dl_number", Aliases: []string{
			"dl_number", "dlNumber", "license_number",
		}},
		{Key: "holder_name", Label: "Holder Name", Aliases: []string{
			"holder_name", "holderName", "name", "user_full_name",
		}},
		{Key: "address", Label: "Address", Aliases: []string{
			"address", "permanent_address", "permanentAddress",
		}},
		{Key: "issuing_rto", Label: "Issuing RTO", Aliases: []string{
			"issuing_rto", "issuingRto", "rto", "issuing_authority",
		}},
		{Key: "valid_from", Label: "Valid From", Aliases: []string{
			"valid_from", "validFrom", "nt_validity_from",
		}},
		{Key: "valid_to", Label: "Valid To", Aliases: []string{
			"valid_to", "validTo", "nt_validity_to", "validity",
		}},
		{Key: "challan_amount", Label: "Pending Challan Amount", Numeric: true, Aliases: []string{
			"challan_amount", "challanAmount", "pending_challan_amount",
		}},
	},

	domain.SectionVehicle: {
		{Key: "rc_number", Label: "RC Number", FormField: "rc_number", Aliases: []string{
			"rc_number", "rcNumber", "registration_number",
		}},
		{Key: "owner_name", Label: "Owner Name", Aliases: []string{
			"owner_name", "ownerName", "owner",
		}},
		{Key: "registration_date", Label: "Registration Date", Aliases: []string{
			"registration_date", "registrationDate",
		}},
		{Key: "maker_model", Label: "Maker / Model", Aliases: []string{
			"maker_model", "makerModel", "vehicle_model", "model",
		}},
		{Key: "fuel_type", Label: "Fuel Type", Aliases: []string{
			"fuel_type", "fuelType",
		}},
		{Key: "chassis_number", Label: "Chassis Number", Aliases: []string{
			"chassis_number", "chassisNumber",
		}},
		{Key: "engine_number", Label: "Engine Number", Aliases: []string{
			"engine_number", "engineNumber",
		}},
		{Key: "insurance_upto", Label: "Insurance Valid Upto", Aliases: []string{
			"insurance_upto", "insuranceUpto", "insurance_validity",
		}},
		{Key: "fitness_upto", Label: "Fitness Valid Upto", Aliases: []string{
			"fitness_upto", "fitnessUpto",
		}},
	},
}

var listSpecs = map[domain.Section]ListSpec{
	domain.SectionCredit: {
		Aliases: []string{
			"credit_accounts", "creditInfo.accounts", "credit_report.accounts",
			"rawProfileData.creditData.accounts",
		},
		Columns: []FieldSpec{
			{Key: "lender", Label: "Lender", Aliases: []string{"lender", "lenderName", "member_name"}},
			{Key: "account_type", Label: "Account Type", Aliases: []string{"account_type", "accountType"}},
			{Key: "status", Label: "Status", Aliases: []string{"status", "accountStatus", "account_status"}},
			{Key: "balance", Label: "Balance", Numeric: true, Aliases: []string{"balance", "currentBalance", "current_balance"}},
			{Key: "opened_date", Label: "Opened", Aliases: []string{"opened_date", "openedDate", "date_opened"}},
		},
	},
	domain.SectionLicense: {
		Aliases: []string{"cov_details", "vehicle_categories", "vehicleCategories", "covs"},
		Columns: []FieldSpec{
			{Key: "category", Label: "Category", Aliases: []string{"category", "cov", "class"}},
			{Key: "issue_date", Label: "Issue Date", Aliases: []string{"issue_date", "issueDate"}},
		},
	},
	domain.SectionEmployment: {
		Aliases: []string{
			"employment_history", "employmentHistory.companies", "employmentInfo.companies", "companies",
		},
		Columns: []FieldSpec{
			{Key: "company", Label: "Company", Aliases: []string{"company", "establishment_name", "establishmentName", "name"}},
			{Key: "date_of_joining", Label: "Joined", Aliases: []string{"date_of_joining", "dateOfJoining"}},
			{Key: "date_of_exit", Label: "Exited", Aliases: []string{"date_of_exit", "dateOfExit"}},
		},
	},
}

// SectionSpecs exposes the ordered field specs for a section.
func SectionSpecs(s domain.Section) []FieldSpec {
	return sectionSpecs[s]
}

// SectionListSpec exposes the list spec for a section, if it has one.
func SectionListSpec(s domain.Section) (ListSpec, bool) {
	ls, ok := listSpecs[s]
	return ls, ok
}
