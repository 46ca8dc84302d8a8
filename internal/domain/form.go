package domain

import (
	"strings"
	"time"
)

// Gender and room occupancy enums mirror the values the form presents.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	OccupancyJustYou       = "just_you"
	OccupancyYouAndSomeone = "you_and_someone_else"
)

// TenantDetails is section 1 of the accommodation form.
type TenantDetails struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=100"`
	DateOfBirth     string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	PlaceOfBirth    string `json:"place_of_birth" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Telephone       string `json:"telephone" validate:"required,min=10,max=20"`
	EmployersName   string `json:"employers_name" validate:"required,min=2,max=100"`
	Gender          string `json:"gender" validate:"required,oneof=male female other"`
	NINumber        string `json:"ni_number" validate:"required,uk_ni"`
	Car             bool   `json:"car"`
	Bicycle         bool   `json:"bicycle"`
	RightToLiveInUK bool   `json:"right_to_live_in_uk"`
	RoomOccupancy   string `json:"room_occupancy" validate:"required,oneof=just_you you_and_someone_else"`

	OtherNamesHas           bool   `json:"other_names_has"`
	OtherNamesDetails       string `json:"other_names_details,omitempty"`
	MedicalConditionHas     bool   `json:"medical_condition_has"`
	MedicalConditionDetails string `json:"medical_condition_details,omitempty"`
}

// FirstLastName splits the full name into its first and last tokens,
// used for the PDF filename.
func (t TenantDetails) FirstLastName() (string, string) {
	parts := strings.Fields(t.FullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}

// BankDetails is section 2. SortCode is normalised to 12-34-56 during validation.
type BankDetails struct {
	BankName  string `json:"bank_name" validate:"required,min=2,max=100"`
	Postcode  string `json:"postcode" validate:"required,min=5,max=10"`
	AccountNo string `json:"account_no" validate:"required,len=8,numeric"`
	SortCode  string `json:"sort_code" validate:"required,uk_sort_code"`
}

// AddressHistoryEntry is one row of section 3. A nil/empty ToDate marks the
// current address; exactly one entry must be current.
type AddressHistoryEntry struct {
	Address       string `json:"address" validate:"required,min=10,max=200"`
	FromDate      string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate        string `json:"to_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LandlordName  string `json:"landlord_name" validate:"required,min=2,max=100"`
	LandlordTel   string `json:"landlord_tel" validate:"required,min=10,max=20"`
	LandlordEmail string `json:"landlord_email" validate:"required,email"`
}

// Current reports whether this entry is the applicant's current address.
func (a AddressHistoryEntry) Current() bool { return a.ToDate == "" }

// Contacts is section 4 (next of kin).
type Contacts struct {
	NextOfKin     string `json:"next_of_kin" validate:"required,min=2,max=100"`
	Relationship  string `json:"relationship" validate:"required,min=2,max=50"`
	Address       string `json:"address" validate:"required,min=10,max=200"`
	ContactNumber string `json:"contact_number" validate:"required,min=10,max=20"`
}

// MedicalDetails is section 5.
type MedicalDetails struct {
	GPPractice      string `json:"gp_practice" validate:"required,min=2,max=100"`
	DoctorName      string `json:"doctor_name" validate:"required,min=2,max=100"`
	DoctorAddress   string `json:"doctor_address" validate:"required,min=10,max=200"`
	DoctorTelephone string `json:"doctor_telephone" validate:"required,min=10,max=20"`
}

// Employment is section 6.
type Employment struct {
	EmployerNameAddress string  `json:"employer_name_address" validate:"required,min=10,max=200"`
	JobTitle            string  `json:"job_title" validate:"required,min=2,max=100"`
	ManagerName         string  `json:"manager_name" validate:"required,min=2,max=100"`
	ManagerTel          string  `json:"manager_tel" validate:"required,min=10,max=20"`
	ManagerEmail        string  `json:"manager_email" validate:"required,email"`
	DateOfEmployment    string  `json:"date_of_employment" validate:"required,datetime=2006-01-02"`
	PresentSalary       float64 `json:"present_salary" validate:"required,gt=0"`
}

// PassportDetails is section 8.
type PassportDetails struct {
	PassportNumber string `json:"passport_number" validate:"required,min=6,max=15"`
	DateOfIssue    string `json:"date_of_issue" validate:"required,datetime=2006-01-02"`
	PlaceOfIssue   string `json:"place_of_issue" validate:"required,min=2,max=100"`
}

// LandlordContact identifies the current landlord for referencing.
type LandlordContact struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"required,min=10,max=200"`
	Tel     string `json:"tel" validate:"required,min=10,max=20"`
	Email   string `json:"email" validate:"required,email"`
}

// CurrentLivingArrangement is section 9.
type CurrentLivingArrangement struct {
	LandlordKnows     bool            `json:"landlord_knows"`
	NoticeEndDate     string          `json:"notice_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReasonLeaving     string          `json:"reason_leaving" validate:"required,min=10,max=500"`
	LandlordReference bool            `json:"landlord_reference"`
	LandlordContact   LandlordContact `json:"landlord_contact" validate:"required"`
}

// OtherDetails is section 10.
type OtherDetails struct {
	PetsHas         bool   `json:"pets_has"`
	PetsDetails     string `json:"pets_details,omitempty"`
	Smoke           bool   `json:"smoke"`
	ColivingHas     bool   `json:"coliving_has"`
	ColivingDetails string `json:"coliving_details,omitempty"`
}

// OccupationAgreement is section 11. Every term must be accepted.
type OccupationAgreement struct {
	SingleOccupancyAgree bool `json:"single_occupancy_agree"`
	HMOTermsAgree        bool `json:"hmo_terms_agree"`
	NoUnlistedOccupants  bool `json:"no_unlisted_occupants"`
	NoSmoking            bool `json:"no_smoking"`
	KitchenCookingOnly   bool `json:"kitchen_cooking_only"`
}

// AllAccepted reports whether every agreement term is ticked.
func (o OccupationAgreement) AllAccepted() bool {
	return o.SingleOccupancyAgree && o.HMOTermsAgree && o.NoUnlistedOccupants &&
		o.NoSmoking && o.KitchenCookingOnly
}

// Declaration holds the six certification statements.
type Declaration struct {
	MainHome              bool `json:"main_home"`
	EnquiriesPermission   bool `json:"enquiries_permission"`
	CertifyNoJudgements   bool `json:"certify_no_judgements"`
	CertifyNoHousingDebt  bool `json:"certify_no_housing_debt"`
	CertifyNoLandlordDebt bool `json:"certify_no_landlord_debt"`
	CertifyNoAbuse        bool `json:"certify_no_abuse"`
}

// AllConfirmed reports whether every declaration statement is ticked.
func (d Declaration) AllConfirmed() bool {
	return d.MainHome && d.EnquiriesPermission && d.CertifyNoJudgements &&
		d.CertifyNoHousingDebt && d.CertifyNoLandlordDebt && d.CertifyNoAbuse
}

// ConsentAndDeclaration is section 12.
type ConsentAndDeclaration struct {
	ConsentGiven         bool        `json:"consent_given"`
	Signature            string      `json:"signature" validate:"required"`
	Date                 string      `json:"date" validate:"required,datetime=2006-01-02"`
	PrintName            string      `json:"print_name" validate:"required,min=2,max=100"`
	Declaration          Declaration `json:"declaration"`
	DeclarationSignature string      `json:"declaration_signature" validate:"required"`
	DeclarationDate      string      `json:"declaration_date" validate:"required,datetime=2006-01-02"`
	DeclarationPrintName string      `json:"declaration_print_name" validate:"required,min=2,max=100"`
}

// FormSubmission is the complete 12-section accommodation form plus the audit
// metadata the server fills in at submit time.
type FormSubmission struct {
	TenantDetails            TenantDetails            `json:"tenant_details"`
	BankDetails              BankDetails              `json:"bank_details"`
	AddressHistory           []AddressHistoryEntry    `json:"address_history" validate:"required,min=1,max=10,dive"`
	Contacts                 Contacts                 `json:"contacts"`
	MedicalDetails           MedicalDetails           `json:"medical_details"`
	Employment               Employment               `json:"employment"`
	EmploymentChange         string                   `json:"employment_change,omitempty"`
	PassportDetails          PassportDetails          `json:"passport_details"`
	CurrentLivingArrangement CurrentLivingArrangement `json:"current_living_arrangement"`
	OtherDetails             OtherDetails             `json:"other_details"`
	OccupationAgreement      OccupationAgreement      `json:"occupation_agreement"`
	ConsentAndDeclaration    ConsentAndDeclaration    `json:"consent_and_declaration"`

	// Audit metadata, set server-side; any client-supplied value is overwritten.
	ClientIP        string     `json:"client_ip,omitempty"`
	FormOpenedAt    *time.Time `json:"form_opened_at,omitempty"`
	FormSubmittedAt *time.Time `json:"form_submitted_at,omitempty"`

	// SelectedLibraryID optionally references an active external document
	// library chosen on the form.
	SelectedLibraryID string `json:"selected_library_id,omitempty"`
}

// SubmissionReceipt is returned to the caller once the pipeline completes.
type SubmissionReceipt struct {
	SubmissionID string    `json:"submission_id"`
	PDFFilename  string    `json:"pdf_filename"`
	Timestamp    time.Time `json:"timestamp"`
}
