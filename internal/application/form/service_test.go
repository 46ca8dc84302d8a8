package form

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/accommodation-form-api/internal/domain"
)

// --- mocks ---

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Get(token string) (*domain.Session, error) {
	args := m.Called(token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Peek(token string) (*domain.Session, error) {
	args := m.Called(token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) MarkOpened(token string) (*domain.Session, error) {
	args := m.Called(token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Consume(token string) error {
	return m.Called(token).Error(0)
}

type mockSubmissionRepo struct{ mock.Mock }

func (m *mockSubmissionRepo) Put(ctx context.Context, s *domain.SubmissionRecord) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSubmissionRepo) Get(ctx context.Context, submissionID string) (*domain.SubmissionRecord, error) {
	args := m.Called(ctx, submissionID)
	if r, _ := args.Get(0).(*domain.SubmissionRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubmissionRepo) MarkCompleted(ctx context.Context, submissionID, pdfFilename, storageKey, storageURL, localPath string) error {
	return m.Called(ctx, submissionID, pdfFilename, storageKey, storageURL, localPath).Error(0)
}
func (m *mockSubmissionRepo) MarkFailed(ctx context.Context, submissionID string) error {
	return m.Called(ctx, submissionID).Error(0)
}
func (m *mockSubmissionRepo) Delete(ctx context.Context, submissionID string) error {
	return m.Called(ctx, submissionID).Error(0)
}
func (m *mockSubmissionRepo) ListByEmail(ctx context.Context, email string) ([]domain.SubmissionRecord, error) {
	args := m.Called(ctx, email)
	if r, _ := args.Get(0).([]domain.SubmissionRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubmissionRepo) Scan(ctx context.Context) ([]domain.SubmissionRecord, error) {
	args := m.Called(ctx)
	if r, _ := args.Get(0).([]domain.SubmissionRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Filename(sub *domain.FormSubmission, now time.Time) string {
	return m.Called(sub, now).String(0)
}
func (m *mockRenderer) Render(sub *domain.FormSubmission) ([]byte, error) {
	args := m.Called(sub)
	if b, _ := args.Get(0).([]byte); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockLocalStore struct{ mock.Mock }

func (m *mockLocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}
func (m *mockLocalStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, filename)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmailWithAttachment(to, subject, body string, attachment []byte, filename string) error {
	return m.Called(to, subject, body, attachment, filename).Error(0)
}

// --- fixtures ---

func liveSession() *domain.Session {
	opened := time.Now().Add(-5 * time.Minute)
	return &domain.Session{
		Token:        "tok-1",
		Email:        "applicant@example.com",
		ClientIP:     "1.2.3.4",
		IssuedAt:     time.Now().Add(-10 * time.Minute),
		ExpiresAt:    time.Now().Add(2 * time.Hour),
		FormOpenedAt: &opened,
	}
}

func validSubmission() *domain.FormSubmission {
	return &domain.FormSubmission{
		TenantDetails: domain.TenantDetails{
			FullName:        "Jane Smith",
			DateOfBirth:     "1990-01-02",
			PlaceOfBirth:    "London",
			Email:           "applicant@example.com",
			Telephone:       "07123456789",
			EmployersName:   "Acme Ltd",
			Gender:          domain.GenderFemale,
			NINumber:        "AB123456C",
			RightToLiveInUK: true,
			RoomOccupancy:   domain.OccupancyJustYou,
		},
		BankDetails: domain.BankDetails{
			BankName:  "Barclays",
			Postcode:  "SW1A 1AA",
			AccountNo: "12345678",
			SortCode:  "123456",
		},
		AddressHistory: []domain.AddressHistoryEntry{
			{
				Address:       "12 High Street, London",
				FromDate:      "2020-01-01",
				LandlordName:  "John Doe",
				LandlordTel:   "02012345678",
				LandlordEmail: "landlord@example.com",
			},
		},
		Contacts: domain.Contacts{
			NextOfKin:     "John Smith",
			Relationship:  "Brother",
			Address:       "34 Low Street, London",
			ContactNumber: "02098765432",
		},
		MedicalDetails: domain.MedicalDetails{
			GPPractice:      "City Practice",
			DoctorName:      "Dr Brown",
			DoctorAddress:   "56 Mid Street, London",
			DoctorTelephone: "02011122233",
		},
		Employment: domain.Employment{
			EmployerNameAddress: "Acme Ltd, 78 Work Road, London",
			JobTitle:            "Engineer",
			ManagerName:         "Alice Green",
			ManagerTel:          "02044455566",
			ManagerEmail:        "manager@acme.example",
			DateOfEmployment:    "2019-05-01",
			PresentSalary:       32000,
		},
		PassportDetails: domain.PassportDetails{
			PassportNumber: "123456789",
			DateOfIssue:    "2018-01-01",
			PlaceOfIssue:   "London",
		},
		CurrentLivingArrangement: domain.CurrentLivingArrangement{
			LandlordKnows: true,
			ReasonLeaving: "Relocating closer to a new job",
			LandlordContact: domain.LandlordContact{
				Name:    "John Doe",
				Address: "12 High Street, London",
				Tel:     "02012345678",
				Email:   "landlord@example.com",
			},
		},
		OccupationAgreement: domain.OccupationAgreement{
			SingleOccupancyAgree: true,
			HMOTermsAgree:        true,
			NoUnlistedOccupants:  true,
			NoSmoking:            true,
			KitchenCookingOnly:   true,
		},
		ConsentAndDeclaration: domain.ConsentAndDeclaration{
			ConsentGiven: true,
			Signature:    "Jane Smith",
			Date:         "2026-08-29",
			PrintName:    "Jane Smith",
			Declaration: domain.Declaration{
				MainHome:              true,
				EnquiriesPermission:   true,
				CertifyNoJudgements:   true,
				CertifyNoHousingDebt:  true,
				CertifyNoLandlordDebt: true,
				CertifyNoAbuse:        true,
			},
			DeclarationSignature: "Jane Smith",
			DeclarationDate:      "2026-08-29",
			DeclarationPrintName: "Jane Smith",
		},
	}
}

func newTestService(ss *mockSessionStore, sr *mockSubmissionRepo, rd *mockRenderer, os *mockObjectStore, ls LocalStore, ml *mockMailer, dev bool) Service {
	return NewService(ServiceDeps{
		Sessions:      ss,
		Submissions:   sr,
		Renderer:      rd,
		Storage:       os,
		LocalFallback: ls,
		Mailer:        ml,
		CompanyEmail:  "applications@example.com",
		Development:   dev,
	})
}

// --- Submit ---

func TestSubmit_SessionAlreadyUsed(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(nil, domain.ErrSessionAlreadyUsed)

	svc := newTestService(ss, nil, nil, nil, nil, nil, false)
	_, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSessionAlreadyUsed))
}

func TestSubmit_ConsentMissing(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)

	sub := validSubmission()
	sub.ConsentAndDeclaration.ConsentGiven = false

	svc := newTestService(ss, nil, nil, nil, nil, nil, false)
	_, err := svc.Submit(context.Background(), "tok-1", sub, "1.2.3.4")

	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "consent_and_declaration.consent_given: must be true")
}

func TestSubmit_TwoCurrentAddresses(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)

	sub := validSubmission()
	second := sub.AddressHistory[0]
	sub.AddressHistory = append(sub.AddressHistory, second)

	svc := newTestService(ss, nil, nil, nil, nil, nil, false)
	_, err := svc.Submit(context.Background(), "tok-1", sub, "1.2.3.4")

	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "address_history: exactly one entry must have an empty to_date, got 2")
}

func TestSubmit_Success(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)
	ss.On("Consume", "tok-1").Return(nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.SubmissionRecord) bool {
		return r.Email == "applicant@example.com" && r.Status == domain.SubmissionProcessing
	})).Return(nil)
	sr.On("MarkCompleted", mock.Anything, mock.Anything, "Jane_Smith_Application_Form.pdf",
		"submissions/Jane_Smith_Application_Form.pdf", "https://bucket/key", "").Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("Jane_Smith_Application_Form.pdf")
	rd.On("Render", mock.Anything).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, "submissions/Jane_Smith_Application_Form.pdf", mock.Anything, "application/pdf").
		Return("https://bucket/key", nil)

	ml := &mockMailer{}
	ml.On("SendEmailWithAttachment", "applicant@example.com", mock.Anything, mock.Anything, mock.Anything, "Jane_Smith_Application_Form.pdf").Return(nil)
	ml.On("SendEmailWithAttachment", "applications@example.com", mock.Anything, mock.Anything, mock.Anything, "Jane_Smith_Application_Form.pdf").Return(nil)

	svc := newTestService(ss, sr, rd, os, nil, ml, false)
	receipt, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.NoError(t, err)
	assert.NotEmpty(t, receipt.SubmissionID)
	assert.Equal(t, "Jane_Smith_Application_Form.pdf", receipt.PDFFilename)
	ss.AssertExpectations(t)
	sr.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestSubmit_NormalisesSortCode(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)
	ss.On("Consume", "tok-1").Return(nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.Anything).Return(nil)
	sr.On("MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("f.pdf")
	rd.On("Render", mock.MatchedBy(func(s *domain.FormSubmission) bool {
		return s.BankDetails.SortCode == "12-34-56"
	})).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	ml := &mockMailer{}
	ml.On("SendEmailWithAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(ss, sr, rd, os, nil, ml, false)
	_, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.NoError(t, err)
	rd.AssertExpectations(t)
}

func TestSubmit_StorageFailureInProduction(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.Anything).Return(nil)
	sr.On("MarkFailed", mock.Anything, mock.Anything).Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("f.pdf")
	rd.On("Render", mock.Anything).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unreachable"))

	ml := &mockMailer{}

	svc := newTestService(ss, sr, rd, os, nil, ml, false)
	_, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageFailure))
	// No PDF stored means no email goes out.
	ml.AssertNotCalled(t, "SendEmailWithAttachment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ss.AssertNotCalled(t, "Consume", mock.Anything)
	sr.AssertExpectations(t)
}

func TestSubmit_LocalFallbackInDevelopment(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)
	ss.On("Consume", "tok-1").Return(nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.Anything).Return(nil)
	sr.On("MarkCompleted", mock.Anything, mock.Anything, "f.pdf",
		"submissions/f.pdf", "", "/tmp/generated_pdfs/f.pdf").Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("f.pdf")
	rd.On("Render", mock.Anything).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unreachable"))

	ls := &mockLocalStore{}
	ls.On("Save", mock.Anything, "f.pdf", mock.Anything).
		Return("/tmp/generated_pdfs/f.pdf", nil)

	ml := &mockMailer{}
	ml.On("SendEmailWithAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(ss, sr, rd, os, ls, ml, true)
	receipt, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "f.pdf", receipt.PDFFilename)
	ls.AssertExpectations(t)
	sr.AssertExpectations(t)
}

func TestSubmit_EmailFailureIsNotFatal(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)
	ss.On("Consume", "tok-1").Return(nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.Anything).Return(nil)
	sr.On("MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("f.pdf")
	rd.On("Render", mock.Anything).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	ml := &mockMailer{}
	ml.On("SendEmailWithAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	svc := newTestService(ss, sr, rd, os, nil, ml, false)
	receipt, err := svc.Submit(context.Background(), "tok-1", validSubmission(), "1.2.3.4")

	require.NoError(t, err)
	assert.NotEmpty(t, receipt.SubmissionID)
}

func TestSubmit_OverridesPayloadEmailFromSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", "tok-1").Return(liveSession(), nil)
	ss.On("Consume", "tok-1").Return(nil)

	sr := &mockSubmissionRepo{}
	sr.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.SubmissionRecord) bool {
		return r.Email == "applicant@example.com"
	})).Return(nil)
	sr.On("MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rd := &mockRenderer{}
	rd.On("Filename", mock.Anything, mock.Anything).Return("f.pdf")
	rd.On("Render", mock.MatchedBy(func(s *domain.FormSubmission) bool {
		return s.TenantDetails.Email == "applicant@example.com"
	})).Return([]byte("%PDF-1.4"), nil)

	os := &mockObjectStore{}
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	ml := &mockMailer{}
	ml.On("SendEmailWithAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sub := validSubmission()
	sub.TenantDetails.Email = "spoofed@attacker.example"

	svc := newTestService(ss, sr, rd, os, nil, ml, false)
	_, err := svc.Submit(context.Background(), "tok-1", sub, "1.2.3.4")

	require.NoError(t, err)
	rd.AssertExpectations(t)
	sr.AssertExpectations(t)
}

// --- Initialize ---

func TestInitialize_StampsOpenedAt(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("MarkOpened", "tok-1").Return(liveSession(), nil)

	svc := newTestService(ss, nil, nil, nil, nil, nil, false)
	result, err := svc.Initialize(context.Background(), "tok-1", "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "applicant@example.com", result.Email)
	assert.False(t, result.FormOpenedAt.IsZero())
}

// --- Status ---

func TestStatus_ForbiddenForOtherEmail(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Peek", "tok-1").Return(liveSession(), nil)

	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-1").Return(&domain.SubmissionRecord{
		SubmissionID: "sub-1",
		Email:        "someone-else@example.com",
	}, nil)

	svc := newTestService(ss, sr, nil, nil, nil, nil, false)
	_, err := svc.Status(context.Background(), "tok-1", "sub-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestStatus_OwnSubmission(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Peek", "tok-1").Return(liveSession(), nil)

	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-1").Return(&domain.SubmissionRecord{
		SubmissionID: "sub-1",
		Email:        "applicant@example.com",
		Status:       domain.SubmissionCompleted,
	}, nil)

	svc := newTestService(ss, sr, nil, nil, nil, nil, false)
	record, err := svc.Status(context.Background(), "tok-1", "sub-1")

	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionCompleted, record.Status)
}

// --- Download ---

func TestDownload_LocalRecordWithoutFallback(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Peek", "tok-1").Return(liveSession(), nil)

	// A record written by a development run, read back where no local
	// filesystem store is wired.
	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-1").Return(&domain.SubmissionRecord{
		SubmissionID: "sub-1",
		Email:        "applicant@example.com",
		Status:       domain.SubmissionCompleted,
		PDFFilename:  "f.pdf",
		LocalPath:    "/tmp/generated_pdfs/f.pdf",
	}, nil)

	svc := newTestService(ss, sr, nil, nil, nil, nil, false)
	rc, _, err := svc.Download(context.Background(), "tok-1", "sub-1")

	require.Error(t, err)
	assert.Nil(t, rc)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Remove ---

func TestRemove_DeletesStoredPDFAndRecord(t *testing.T) {
	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-1").Return(&domain.SubmissionRecord{
		SubmissionID: "sub-1",
		Status:       domain.SubmissionCompleted,
		StorageKey:   "submissions/f.pdf",
		StorageURL:   "s3://bucket/submissions/f.pdf",
	}, nil)
	sr.On("Delete", mock.Anything, "sub-1").Return(nil)

	os := &mockObjectStore{}
	os.On("Delete", mock.Anything, "submissions/f.pdf").Return(nil)

	svc := newTestService(nil, sr, nil, os, nil, nil, false)
	err := svc.Remove(context.Background(), "sub-1")

	require.NoError(t, err)
	sr.AssertExpectations(t)
	os.AssertExpectations(t)
}

func TestRemove_FailedSubmissionSkipsBlobDelete(t *testing.T) {
	// A failed submission never reached blob storage.
	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-1").Return(&domain.SubmissionRecord{
		SubmissionID: "sub-1",
		Status:       domain.SubmissionFailed,
	}, nil)
	sr.On("Delete", mock.Anything, "sub-1").Return(nil)

	os := &mockObjectStore{}

	svc := newTestService(nil, sr, nil, os, nil, nil, false)
	err := svc.Remove(context.Background(), "sub-1")

	require.NoError(t, err)
	os.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	sr.AssertExpectations(t)
}

func TestRemove_UnknownSubmission(t *testing.T) {
	sr := &mockSubmissionRepo{}
	sr.On("Get", mock.Anything, "sub-x").Return(nil, domain.ErrNotFound)

	svc := newTestService(nil, sr, nil, nil, nil, nil, false)
	err := svc.Remove(context.Background(), "sub-x")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
