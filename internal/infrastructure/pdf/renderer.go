package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/go-pdf/fpdf"
)

// Renderer turns a validated form submission into the PDF artifact that gets
// stored and emailed.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Filename builds the artifact name: FirstName_LastName_Application_Form_DDMMYYYYHHMM.pdf.
// Name parts are stripped to alphanumerics so the result is safe as a storage key.
func (r *Renderer) Filename(sub *domain.FormSubmission, now time.Time) string {
	first, last := sub.TenantDetails.FirstLastName()
	return fmt.Sprintf("%s_%s_Application_Form_%s.pdf",
		alnumOnly(first), alnumOnly(last), now.UTC().Format("020120061504"))
}

// Render produces the complete application PDF, one section per form section.
func (r *Renderer) Render(sub *domain.FormSubmission) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(19, 25, 19)
	doc.SetAutoPageBreak(true, 25)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(0, 122, 204)
	doc.CellFormat(0, 10, "Accommodation Application Form", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetTextColor(0, 0, 0)
	submitted := "N/A"
	if sub.FormSubmittedAt != nil {
		submitted = sub.FormSubmittedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	}
	r.kv(doc, "Submitted", submitted)
	r.kv(doc, "Client IP", orNA(sub.ClientIP))

	t := sub.TenantDetails
	r.section(doc, "1. Tenant Details")
	r.kv(doc, "Full Name", t.FullName)
	r.kv(doc, "Date of Birth", t.DateOfBirth)
	r.kv(doc, "Place of Birth", t.PlaceOfBirth)
	r.kv(doc, "Email", t.Email)
	r.kv(doc, "Telephone", t.Telephone)
	r.kv(doc, "Employer's Name", t.EmployersName)
	r.kv(doc, "Gender", t.Gender)
	r.kv(doc, "NI Number", t.NINumber)
	r.kv(doc, "Car", yesNo(t.Car))
	r.kv(doc, "Bicycle", yesNo(t.Bicycle))
	r.kv(doc, "Right to Live in UK", yesNo(t.RightToLiveInUK))
	r.kv(doc, "Room Occupancy", strings.ReplaceAll(t.RoomOccupancy, "_", " "))
	if t.OtherNamesHas {
		r.kv(doc, "Other Names", t.OtherNamesDetails)
	}
	if t.MedicalConditionHas {
		r.kv(doc, "Medical Condition", t.MedicalConditionDetails)
	}

	b := sub.BankDetails
	r.section(doc, "2. Bank Details")
	r.kv(doc, "Bank Name", b.BankName)
	r.kv(doc, "Postcode", b.Postcode)
	r.kv(doc, "Account No", b.AccountNo)
	r.kv(doc, "Sort Code", b.SortCode)

	r.section(doc, "3. Address History")
	for i, a := range sub.AddressHistory {
		to := a.ToDate
		if a.Current() {
			to = "present"
		}
		r.kv(doc, fmt.Sprintf("Address %d", i+1), a.Address)
		r.kv(doc, "Period", fmt.Sprintf("%s to %s", a.FromDate, to))
		r.kv(doc, "Landlord", fmt.Sprintf("%s, %s, %s", a.LandlordName, a.LandlordTel, a.LandlordEmail))
	}

	c := sub.Contacts
	r.section(doc, "4. Contacts")
	r.kv(doc, "Next of Kin", c.NextOfKin)
	r.kv(doc, "Relationship", c.Relationship)
	r.kv(doc, "Address", c.Address)
	r.kv(doc, "Contact Number", c.ContactNumber)

	m := sub.MedicalDetails
	r.section(doc, "5. Medical")
	r.kv(doc, "GP Practice", m.GPPractice)
	r.kv(doc, "Doctor", m.DoctorName)
	r.kv(doc, "Doctor Address", m.DoctorAddress)
	r.kv(doc, "Doctor Telephone", m.DoctorTelephone)

	e := sub.Employment
	r.section(doc, "6. Employment")
	r.kv(doc, "Employer", e.EmployerNameAddress)
	r.kv(doc, "Job Title", e.JobTitle)
	r.kv(doc, "Manager", fmt.Sprintf("%s, %s, %s", e.ManagerName, e.ManagerTel, e.ManagerEmail))
	r.kv(doc, "Employed Since", e.DateOfEmployment)
	r.kv(doc, "Present Salary", fmt.Sprintf("%.2f", e.PresentSalary))

	r.section(doc, "7. Employment Change")
	r.kv(doc, "Details", orNA(sub.EmploymentChange))

	p := sub.PassportDetails
	r.section(doc, "8. Passport")
	r.kv(doc, "Passport Number", p.PassportNumber)
	r.kv(doc, "Date of Issue", p.DateOfIssue)
	r.kv(doc, "Place of Issue", p.PlaceOfIssue)

	cl := sub.CurrentLivingArrangement
	r.section(doc, "9. Current Living Arrangement")
	r.kv(doc, "Landlord Knows", yesNo(cl.LandlordKnows))
	r.kv(doc, "Notice End Date", orNA(cl.NoticeEndDate))
	r.kv(doc, "Reason for Leaving", cl.ReasonLeaving)
	r.kv(doc, "Landlord Reference", yesNo(cl.LandlordReference))
	r.kv(doc, "Landlord Contact", fmt.Sprintf("%s, %s, %s, %s",
		cl.LandlordContact.Name, cl.LandlordContact.Address, cl.LandlordContact.Tel, cl.LandlordContact.Email))

	o := sub.OtherDetails
	r.section(doc, "10. Other")
	r.kv(doc, "Pets", detail(o.PetsHas, o.PetsDetails))
	r.kv(doc, "Smoker", yesNo(o.Smoke))
	r.kv(doc, "Co-living", detail(o.ColivingHas, o.ColivingDetails))

	oa := sub.OccupationAgreement
	r.section(doc, "11. Occupation Agreement")
	r.kv(doc, "Single Occupancy", yesNo(oa.SingleOccupancyAgree))
	r.kv(doc, "HMO Terms", yesNo(oa.HMOTermsAgree))
	r.kv(doc, "No Unlisted Occupants", yesNo(oa.NoUnlistedOccupants))
	r.kv(doc, "No Smoking", yesNo(oa.NoSmoking))
	r.kv(doc, "Kitchen Cooking Only", yesNo(oa.KitchenCookingOnly))

	cd := sub.ConsentAndDeclaration
	r.section(doc, "12. Consent & Declaration")
	r.kv(doc, "Consent Given", yesNo(cd.ConsentGiven))
	r.kv(doc, "Signed", fmt.Sprintf("%s on %s", cd.PrintName, cd.Date))
	r.kv(doc, "Declaration Signed", fmt.Sprintf("%s on %s", cd.DeclarationPrintName, cd.DeclarationDate))
	d := cd.Declaration
	r.kv(doc, "Main Home", yesNo(d.MainHome))
	r.kv(doc, "Enquiries Permission", yesNo(d.EnquiriesPermission))
	r.kv(doc, "No Judgements", yesNo(d.CertifyNoJudgements))
	r.kv(doc, "No Housing Debt", yesNo(d.CertifyNoHousingDebt))
	r.kv(doc, "No Landlord Debt", yesNo(d.CertifyNoLandlordDebt))
	r.kv(doc, "No Abuse", yesNo(d.CertifyNoAbuse))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) section(doc *fpdf.Fpdf, title string) {
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 12)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	doc.Ln(1)
}

func (r *Renderer) kv(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(55, 6, label, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, 6, value, "", "L", false)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func detail(has bool, details string) string {
	if !has {
		return "No"
	}
	if details == "" {
		return "Yes"
	}
	return "Yes - " + details
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
