package domain

import "time"

// External library statuses. Deletion is a soft status flip so the admin can
// restore a library without losing its user list.
const (
	LibraryActive  = "active"
	LibraryDeleted = "deleted"
)

// ExternalUser is someone granted access to an external document library.
type ExternalUser struct {
	Email        string `json:"email" dynamodbav:"email" validate:"required,email"`
	Name         string `json:"name" dynamodbav:"name" validate:"required,min=1,max=100"`
	Organization string `json:"organization,omitempty" dynamodbav:"organization" validate:"max=100"`
}

// ExternalLibrary is an admin-curated SharePoint-style document library the
// form can optionally reference.
type ExternalLibrary struct {
	LibraryID     string         `json:"id" dynamodbav:"library_id"`
	Name          string         `json:"name" dynamodbav:"name"`
	URL           string         `json:"url" dynamodbav:"url"`
	Description   string         `json:"description,omitempty" dynamodbav:"description"`
	ExternalUsers []ExternalUser `json:"external_users" dynamodbav:"external_users"`
	Status        string         `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time      `json:"updated" dynamodbav:"updated_at"`
	CreatedBy     string         `json:"created_by,omitempty" dynamodbav:"created_by"`
	UpdatedBy     string         `json:"updated_by,omitempty" dynamodbav:"updated_by"`
}

// CreateLibraryRequest is the admin payload for registering a library.
type CreateLibraryRequest struct {
	Name          string         `json:"name" validate:"required,min=1,max=200"`
	URL           string         `json:"url" validate:"required,url,max=500"`
	Description   string         `json:"description,omitempty" validate:"max=1000"`
	ExternalUsers []ExternalUser `json:"external_users" validate:"dive"`
}

// UpdateLibraryRequest carries partial updates; nil fields are left untouched.
type UpdateLibraryRequest struct {
	Name          *string        `json:"name" validate:"omitempty,min=1,max=200"`
	URL           *string        `json:"url" validate:"omitempty,url,max=500"`
	Description   *string        `json:"description" validate:"omitempty,max=1000"`
	ExternalUsers []ExternalUser `json:"external_users" validate:"omitempty,dive"`
	Status        *string        `json:"status" validate:"omitempty,oneof=active deleted"`
}

// LibrarySummary is the public projection exposed to the form.
type LibrarySummary struct {
	LibraryID   string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Summary strips admin-only fields for the public active-libraries listing.
func (l *ExternalLibrary) Summary() LibrarySummary {
	return LibrarySummary{
		LibraryID:   l.LibraryID,
		Name:        l.Name,
		URL:         l.URL,
		Description: l.Description,
	}
}
