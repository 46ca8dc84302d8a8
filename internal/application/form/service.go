package form

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/id"
	"github.com/accommodation-form-api/internal/pkg/validate"
)

// SessionStore is the slice of the session store the pipeline needs.
type SessionStore interface {
	Get(token string) (*domain.Session, error)
	Peek(token string) (*domain.Session, error)
	MarkOpened(token string) (*domain.Session, error)
	Consume(token string) error
}

// SubmissionRepo persists the per-submission audit record.
type SubmissionRepo interface {
	Put(ctx context.Context, s *domain.SubmissionRecord) error
	Get(ctx context.Context, submissionID string) (*domain.SubmissionRecord, error)
	MarkCompleted(ctx context.Context, submissionID, pdfFilename, storageKey, storageURL, localPath string) error
	MarkFailed(ctx context.Context, submissionID string) error
	Delete(ctx context.Context, submissionID string) error
	ListByEmail(ctx context.Context, email string) ([]domain.SubmissionRecord, error)
	Scan(ctx context.Context) ([]domain.SubmissionRecord, error)
}

// Renderer produces the PDF artifact and its filename.
type Renderer interface {
	Filename(sub *domain.FormSubmission, now time.Time) string
	Render(sub *domain.FormSubmission) ([]byte, error)
}

// ObjectStore is the blob-storage backend for PDF artifacts.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore is the development-only filesystem fallback.
type LocalStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Mailer delivers the generated PDF to the applicant and the company.
type Mailer interface {
	SendEmailWithAttachment(to, subject, body string, attachment []byte, filename string) error
}

// Notifier publishes submission-completed events. Optional.
type Notifier interface {
	PublishSubmission(ctx context.Context, submissionID, email, pdfFilename string) error
}

// InitializeResult is returned when a form session is opened.
type InitializeResult struct {
	Email        string    `json:"email"`
	ClientIP     string    `json:"client_ip"`
	FormOpenedAt time.Time `json:"form_opened_at"`
}

type Service interface {
	Initialize(ctx context.Context, sessionToken, clientIP string) (*InitializeResult, error)
	Submit(ctx context.Context, sessionToken string, sub *domain.FormSubmission, clientIP string) (*domain.SubmissionReceipt, error)
	Status(ctx context.Context, sessionToken, submissionID string) (*domain.SubmissionRecord, error)
	Download(ctx context.Context, sessionToken, submissionID string) (io.ReadCloser, *domain.SubmissionRecord, error)
	ListAll(ctx context.Context) ([]domain.SubmissionRecord, error)
	ListByEmail(ctx context.Context, email string) ([]domain.SubmissionRecord, error)
	Remove(ctx context.Context, submissionID string) error
}

// ServiceDeps bundles the dependencies for NewService.
type ServiceDeps struct {
	Sessions      SessionStore
	Submissions   SubmissionRepo
	Renderer      Renderer
	Storage       ObjectStore
	LocalFallback LocalStore
	Mailer        Mailer
	Notifier      Notifier
	CompanyEmail  string
	Development   bool
}

type service struct {
	sessions      SessionStore
	submissions   SubmissionRepo
	renderer      Renderer
	storage       ObjectStore
	localFallback LocalStore
	mailer        Mailer
	notifier      Notifier
	companyEmail  string
	development   bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:      deps.Sessions,
		submissions:   deps.Submissions,
		renderer:      deps.Renderer,
		storage:       deps.Storage,
		localFallback: deps.LocalFallback,
		mailer:        deps.Mailer,
		notifier:      deps.Notifier,
		companyEmail:  deps.CompanyEmail,
		development:   deps.Development,
	}
}

func (s *service) Initialize(_ context.Context, sessionToken, clientIP string) (*InitializeResult, error) {
	sess, err := s.sessions.MarkOpened(sessionToken)
	if err != nil {
		return nil, err
	}
	slog.Info("form session initialized", "client_ip", clientIP)
	return &InitializeResult{
		Email:        sess.Email,
		ClientIP:     clientIP,
		FormOpenedAt: *sess.FormOpenedAt,
	}, nil
}

func (s *service) Submit(ctx context.Context, sessionToken string, sub *domain.FormSubmission, clientIP string) (*domain.SubmissionReceipt, error) {
	sess, err := s.sessions.Get(sessionToken)
	if err != nil {
		return nil, err
	}

	// The verified session is the source of truth for the applicant's email;
	// the payload's copy is never trusted.
	sub.TenantDetails.Email = sess.Email

	if verr := validateForm(sub); verr != nil {
		return nil, verr
	}
	sub.BankDetails.SortCode = validate.NormaliseSortCode(sub.BankDetails.SortCode)

	now := time.Now().UTC()
	sub.ClientIP = clientIP
	sub.FormOpenedAt = sess.FormOpenedAt
	sub.FormSubmittedAt = &now

	submissionID := id.New()
	pdfFilename := s.renderer.Filename(sub, now)

	record := &domain.SubmissionRecord{
		SubmissionID: submissionID,
		Email:        sess.Email,
		FullName:     sub.TenantDetails.FullName,
		ClientIP:     clientIP,
		Status:       domain.SubmissionProcessing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.submissions.Put(ctx, record); err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.Render(sub)
	if err != nil {
		if ferr := s.submissions.MarkFailed(ctx, submissionID); ferr != nil {
			slog.Error("failed to mark submission failed", "submission_id", submissionID, "err", ferr)
		}
		return nil, err
	}

	storageKey := "submissions/" + pdfFilename
	storageURL, localPath, err := s.store(ctx, storageKey, pdfFilename, pdfBytes)
	if err != nil {
		if ferr := s.submissions.MarkFailed(ctx, submissionID); ferr != nil {
			slog.Error("failed to mark submission failed", "submission_id", submissionID, "err", ferr)
		}
		return nil, err
	}

	if err := s.submissions.MarkCompleted(ctx, submissionID, pdfFilename, storageKey, storageURL, localPath); err != nil {
		slog.Error("failed to update submission record", "submission_id", submissionID, "err", err)
	}

	// The PDF is durably stored at this point, so email delivery is
	// best-effort: failures are logged and left to manual follow-up.
	s.sendEmails(sub, pdfBytes, pdfFilename)

	if s.notifier != nil {
		if err := s.notifier.PublishSubmission(ctx, submissionID, sess.Email, pdfFilename); err != nil {
			slog.Warn("failed to publish submission event", "submission_id", submissionID, "err", err)
		}
	}

	if err := s.sessions.Consume(sessionToken); err != nil {
		return nil, err
	}

	slog.Info("form submission completed", "submission_id", submissionID)
	return &domain.SubmissionReceipt{
		SubmissionID: submissionID,
		PDFFilename:  pdfFilename,
		Timestamp:    now,
	}, nil
}

// store uploads the PDF to blob storage. In development a storage failure
// falls back to the local filesystem; in production it fails the submission.
func (s *service) store(ctx context.Context, key, filename string, pdfBytes []byte) (storageURL, localPath string, err error) {
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(pdfBytes), "application/pdf")
	if err == nil {
		return url, "", nil
	}
	if !s.development || s.localFallback == nil {
		return "", "", fmt.Errorf("store pdf: %v: %w", err, domain.ErrStorageFailure)
	}
	slog.Warn("blob storage unavailable, falling back to local filesystem", "err", err)
	path, lerr := s.localFallback.Save(ctx, filename, bytes.NewReader(pdfBytes))
	if lerr != nil {
		return "", "", fmt.Errorf("local fallback: %v: %w", lerr, domain.ErrStorageFailure)
	}
	return "", path, nil
}

func (s *service) sendEmails(sub *domain.FormSubmission, pdfBytes []byte, pdfFilename string) {
	applicantBody := fmt.Sprintf(
		"Dear %s,\n\nThank you for your accommodation application. A copy of your submitted form is attached.\n",
		sub.TenantDetails.FullName)
	if err := s.mailer.SendEmailWithAttachment(sub.TenantDetails.Email,
		"Your accommodation application", applicantBody, pdfBytes, pdfFilename); err != nil {
		slog.Error("failed to email applicant", "err", err)
	}

	companyBody := fmt.Sprintf(
		"New accommodation application received from %s (%s). The submitted form is attached.\n",
		sub.TenantDetails.FullName, sub.TenantDetails.Email)
	if err := s.mailer.SendEmailWithAttachment(s.companyEmail,
		"New accommodation application", companyBody, pdfBytes, pdfFilename); err != nil {
		slog.Error("failed to email company", "err", err)
	}
}

func (s *service) Status(ctx context.Context, sessionToken, submissionID string) (*domain.SubmissionRecord, error) {
	record, err := s.authorizedRecord(ctx, sessionToken, submissionID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Download(ctx context.Context, sessionToken, submissionID string) (io.ReadCloser, *domain.SubmissionRecord, error) {
	record, err := s.authorizedRecord(ctx, sessionToken, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if record.StorageKey != "" {
		rc, err := s.storage.Download(ctx, record.StorageKey)
		if err != nil {
			return nil, nil, fmt.Errorf("download pdf: %v: %w", err, domain.ErrStorageFailure)
		}
		return rc, record, nil
	}
	if record.LocalPath != "" && s.localFallback != nil {
		rc, err := s.localFallback.Open(ctx, record.PDFFilename)
		if err != nil {
			return nil, nil, fmt.Errorf("open local pdf: %v: %w", err, domain.ErrStorageFailure)
		}
		return rc, record, nil
	}
	return nil, nil, fmt.Errorf("pdf not available: %w", domain.ErrNotFound)
}

// authorizedRecord loads the record and checks it belongs to the session's
// email. Consumed sessions may still read their own submission.
func (s *service) authorizedRecord(ctx context.Context, sessionToken, submissionID string) (*domain.SubmissionRecord, error) {
	sess, err := s.sessions.Peek(sessionToken)
	if err != nil {
		return nil, err
	}
	record, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if record.Email != sess.Email {
		return nil, fmt.Errorf("access denied: %w", domain.ErrForbidden)
	}
	return record, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.SubmissionRecord, error) {
	return s.submissions.Scan(ctx)
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]domain.SubmissionRecord, error) {
	return s.submissions.ListByEmail(ctx, email)
}

// Remove deletes a submission's audit record and, when the PDF reached blob
// storage, the stored artifact. Admin cleanup of failed or withdrawn
// submissions.
func (s *service) Remove(ctx context.Context, submissionID string) error {
	record, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return err
	}
	if record.StorageKey != "" && record.StorageURL != "" {
		if err := s.storage.Delete(ctx, record.StorageKey); err != nil {
			slog.Warn("failed to delete stored pdf", "submission_id", submissionID, "err", err)
		}
	}
	if err := s.submissions.Delete(ctx, submissionID); err != nil {
		return err
	}
	slog.Info("submission removed", "submission_id", submissionID)
	return nil
}
