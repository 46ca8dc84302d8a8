package http

import (
	"github.com/accommodation-form-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/accommodation-form-api/internal/infrastructure/jwt"
	"github.com/accommodation-form-api/internal/infrastructure/localfs"
	"github.com/accommodation-form-api/internal/infrastructure/memstore"
	"github.com/accommodation-form-api/internal/infrastructure/pdf"
	s3infra "github.com/accommodation-form-api/internal/infrastructure/s3"
	"github.com/accommodation-form-api/internal/infrastructure/smtp"
	"github.com/accommodation-form-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Challenges    *memstore.ChallengeStore
	Verifications *memstore.VerificationStore
	Sessions      *memstore.SessionStore

	SubmissionRepo *dynamo.SubmissionRepo
	LibraryRepo    *dynamo.LibraryRepo

	S3Store    *s3infra.Store
	LocalStore *localfs.Store
	Renderer   *pdf.Renderer
	Mailer     smtp.Mailer
	Notifier   sns.Notifier // nil when no topic is configured

	JWTProvider *jwtinfra.Provider // nil disables the admin surface
}
