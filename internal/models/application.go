// internal/models/application.go
package models

import (
	"time"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindTimestamp
)

// Field binds one request key to its column, export header and export width.
// Key is empty for columns the server assigns.
type Field struct {
	Key    string
	Column string
	Header string
	Width  float64
	Kind   Kind
}

const (
	ColumnID                  = "id"
	ColumnProfilePictureURL   = "profile_picture_url"
	ColumnProfilePictureName  = "profile_picture_name"
	ColumnSubmissionTimestamp = "submission_timestamp"
)

// MaxTextLength is the longest text value, in characters, that a spreadsheet
// cell holds. Longer values are rejected at intake so exports stay exact.
const MaxTextLength = 32767

// Fields is the canonical column order used by insert, select, export and listing.
var Fields = []Field{
	{"", ColumnID, "ID", 8, KindInteger},
	{"fullName", "full_name", "Full Name", 25, KindText},
	{"nickName", "nick_name", "Nick Name", 15, KindText},
	{"mobileNo", "mobile_no", "Mobile No.", 15, KindText},
	{"emailAdd", "email_add", "Email Address", 30, KindText},
	{"birthDate", "birth_date", "Birth Date", 12, KindText},
	{"civilStatus", "civil_status", "Civil Status", 12, KindText},
	{"age", "age", "Age", 8, KindInteger},
	{"birthPlace", "birth_place", "Birth Place", 20, KindText},
	{"nationality", "nationality", "Nationality", 15, KindText},
	{"religion", "religion", "Religion", 15, KindText},
	{"sssNo", "sss_no", "SSS No.", 15, KindText},
	{"philhealthNo", "philhealth_no", "PhilHealth No.", 15, KindText},
	{"hdmfNo", "hdmf_no", "HDMF No.", 15, KindText},
	{"nationalIdNo", "national_id_no", "National ID No.", 20, KindText},
	{"driversLicense", "drivers_license", "Driver's License", 20, KindText},
	{"tinNo", "tin_no", "TIN No.", 15, KindText},
	{"currentAddress", "current_address", "Current Address", 40, KindText},
	{"provincialAddress", "provincial_address", "Provincial Address", 40, KindText},
	{"fatherName", "father_name", "Father's Name", 25, KindText},
	{"fatherOccupation", "father_occupation", "Father's Occupation", 20, KindText},
	{"fatherAge", "father_age", "Father's Age", 8, KindText},
	{"fatherContactNo", "father_contact_no", "Father's Contact", 15, KindText},
	{"motherName", "mother_name", "Mother's Name", 25, KindText},
	{"motherOccupation", "mother_occupation", "Mother's Occupation", 20, KindText},
	{"motherAge", "mother_age", "Mother's Age", 8, KindText},
	{"motherContactNo", "mother_contact_no", "Mother's Contact", 15, KindText},
	{"prevCompany1", "prev_company_1", "Previous Company 1", 25, KindText},
	{"position1", "position_1", "Position 1", 20, KindText},
	{"datesEmployed1", "dates_employed_1", "Dates Employed 1", 20, KindText},
	{"reasonForLeaving1", "reason_for_leaving_1", "Reason for Leaving 1", 30, KindText},
	{"prevCompany2", "prev_company_2", "Previous Company 2", 25, KindText},
	{"position2", "position_2", "Position 2", 20, KindText},
	{"datesEmployed2", "dates_employed_2", "Dates Employed 2", 20, KindText},
	{"reasonForLeaving2", "reason_for_leaving_2", "Reason for Leaving 2", 30, KindText},
	{"keySkills", "key_skills", "Key Skills", 40, KindText},
	{"certifications", "certifications", "Certifications", 30, KindText},
	{"languages", "languages", "Languages", 20, KindText},
	{"ref1Name", "ref_1_name", "Reference 1 Name", 25, KindText},
	{"ref1Relationship", "ref_1_relationship", "Reference 1 Relationship", 20, KindText},
	{"ref1ContactNo", "ref_1_contact_no", "Reference 1 Contact", 15, KindText},
	{"ref2Name", "ref_2_name", "Reference 2 Name", 25, KindText},
	{"ref2Relationship", "ref_2_relationship", "Reference 2 Relationship", 20, KindText},
	{"ref2ContactNo", "ref_2_contact_no", "Reference 2 Contact", 15, KindText},
	{"pastEmploymentIssues", "past_employment_issues", "Past Employment Issues", 15, KindText},
	{"pastEmploymentIssuesSpecify", "past_employment_issues_specify", "Past Employment Details", 40, KindText},
	{"legalIssues", "legal_issues", "Legal Issues", 15, KindText},
	{"legalIssuesSpecify", "legal_issues_specify", "Legal Issues Details", 40, KindText},
	{"medicalHistory", "medical_history", "Medical History", 15, KindText},
	{"medicalHistorySpecify", "medical_history_specify", "Medical History Details", 40, KindText},
	{"referredBy", "referred_by", "Referred By", 25, KindText},
	{"signatureName", "signature_name", "Signature Name", 25, KindText},
	{"dateAccomplished", "date_accomplished", "Date Accomplished", 15, KindText},
	{"digitalSignature", "digital_signature", "Digital Agreement", 15, KindText},
	{"", ColumnProfilePictureURL, "Profile Picture URL", 50, KindText},
	{"", ColumnSubmissionTimestamp, "Submission Date", 20, KindTimestamp},
}

// ListingColumns is the subset returned to the print view.
var ListingColumns = []string{
	ColumnID,
	"full_name",
	"email_add",
	"mobile_no",
	"birth_date",
	"current_address",
	"signature_name",
	"date_accomplished",
	"digital_signature",
	ColumnProfilePictureURL,
	ColumnSubmissionTimestamp,
}

// FormFields returns the fields a client may submit, in canonical order.
func FormFields() []Field {
	out := make([]Field, 0, len(Fields))
	for _, f := range Fields {
		if f.Key != "" {
			out = append(out, f)
		}
	}
	return out
}

// InsertColumns are written on create; id and submission_timestamp come from the database.
func InsertColumns() []string {
	cols := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if f.Key != "" || f.Column == ColumnProfilePictureURL {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

// FieldByColumn looks up a field definition.
func FieldByColumn(column string) (Field, bool) {
	for _, f := range Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

// Application is one persisted submission. Values holds every stored column
// other than id and submission_timestamp, as string, int64 or nil.
type Application struct {
	ID                  int64
	SubmissionTimestamp time.Time
	Values              map[string]interface{}

	// ProfilePictureName is only populated from rows written by the legacy
	// schema, which stored a file name instead of a hosted URL.
	ProfilePictureName *string
}

func NewApplication() *Application {
	return &Application{Values: make(map[string]interface{}, len(Fields))}
}

func (a *Application) Set(column string, v interface{}) {
	if a.Values == nil {
		a.Values = make(map[string]interface{}, len(Fields))
	}
	a.Values[column] = v
}

// String returns a text column, or "" when it is NULL or not text.
func (a *Application) String(column string) string {
	s, _ := a.Value(column).(string)
	return s
}

// Value returns the stored value of column. A missing profile picture URL
// falls back to the legacy file name.
func (a *Application) Value(column string) interface{} {
	switch column {
	case ColumnID:
		return a.ID
	case ColumnSubmissionTimestamp:
		return a.SubmissionTimestamp
	case ColumnProfilePictureURL:
		if v, ok := a.Values[column]; ok && v != nil {
			return v
		}
		if a.ProfilePictureName != nil {
			return *a.ProfilePictureName
		}
		return nil
	}
	return a.Values[column]
}

// ProfilePictureURL returns the resolved image reference, if any.
func (a *Application) ProfilePictureURL() *string {
	if s, ok := a.Value(ColumnProfilePictureURL).(string); ok {
		return &s
	}
	return nil
}

// ApplicantSummary is one row of the applicant listing.
type ApplicantSummary struct {
	ID                  int64     `json:"id"`
	FullName            *string   `json:"full_name"`
	EmailAdd            *string   `json:"email_add"`
	MobileNo            *string   `json:"mobile_no"`
	BirthDate           *string   `json:"birth_date"`
	CurrentAddress      *string   `json:"current_address"`
	SignatureName       *string   `json:"signature_name"`
	DateAccomplished    *string   `json:"date_accomplished"`
	DigitalSignature    *string   `json:"digital_signature"`
	ProfilePictureURL   *string   `json:"profile_picture_url"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
}

// Summary projects the application onto the listing columns.
func (a *Application) Summary() ApplicantSummary {
	str := func(column string) *string {
		if s, ok := a.Value(column).(string); ok {
			return &s
		}
		return nil
	}
	return ApplicantSummary{
		ID:                  a.ID,
		FullName:            str("full_name"),
		EmailAdd:            str("email_add"),
		MobileNo:            str("mobile_no"),
		BirthDate:           str("birth_date"),
		CurrentAddress:      str("current_address"),
		SignatureName:       str("signature_name"),
		DateAccomplished:    str("date_accomplished"),
		DigitalSignature:    str("digital_signature"),
		ProfilePictureURL:   a.ProfilePictureURL(),
		SubmissionTimestamp: a.SubmissionTimestamp,
	}
}
