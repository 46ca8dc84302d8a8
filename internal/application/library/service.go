package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/id"
	"github.com/accommodation-form-api/internal/pkg/validate"
)

// Repo is the slice of the libraries table the service needs.
type Repo interface {
	Put(ctx context.Context, l *domain.ExternalLibrary) error
	Get(ctx context.Context, libraryID string) (*domain.ExternalLibrary, error)
	Update(ctx context.Context, libraryID string, updates map[string]interface{}) error
	ListByStatus(ctx context.Context, status string) ([]domain.ExternalLibrary, error)
	Scan(ctx context.Context) ([]domain.ExternalLibrary, error)
}

type Service interface {
	Create(ctx context.Context, req *domain.CreateLibraryRequest, actor string) (*domain.ExternalLibrary, error)
	Get(ctx context.Context, libraryID string) (*domain.ExternalLibrary, error)
	Update(ctx context.Context, libraryID string, req *domain.UpdateLibraryRequest, actor string) (*domain.ExternalLibrary, error)
	Delete(ctx context.Context, libraryID, actor string) error
	ListAll(ctx context.Context) ([]domain.ExternalLibrary, error)
	ListActive(ctx context.Context) ([]domain.LibrarySummary, error)
}

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req *domain.CreateLibraryRequest, actor string) (*domain.ExternalLibrary, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	lib := &domain.ExternalLibrary{
		LibraryID:     id.New(),
		Name:          req.Name,
		URL:           req.URL,
		Description:   req.Description,
		ExternalUsers: req.ExternalUsers,
		Status:        domain.LibraryActive,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     actor,
		UpdatedBy:     actor,
	}
	if lib.ExternalUsers == nil {
		lib.ExternalUsers = []domain.ExternalUser{}
	}
	if err := s.repo.Put(ctx, lib); err != nil {
		return nil, err
	}
	slog.Info("external library created", "library_id", lib.LibraryID, "actor", actor)
	return lib, nil
}

func (s *service) Get(ctx context.Context, libraryID string) (*domain.ExternalLibrary, error) {
	return s.repo.Get(ctx, libraryID)
}

func (s *service) Update(ctx context.Context, libraryID string, req *domain.UpdateLibraryRequest, actor string) (*domain.ExternalLibrary, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, libraryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_by": actor}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ExternalUsers != nil {
		updates["external_users"] = req.ExternalUsers
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if err := s.repo.Update(ctx, libraryID, updates); err != nil {
		return nil, err
	}
	slog.Info("external library updated", "library_id", libraryID, "actor", actor)
	return s.repo.Get(ctx, libraryID)
}

// Delete flips the library to the deleted status. The record and its user
// list stay in the table so it can be restored.
func (s *service) Delete(ctx context.Context, libraryID, actor string) error {
	lib, err := s.repo.Get(ctx, libraryID)
	if err != nil {
		return err
	}
	if lib.Status == domain.LibraryDeleted {
		return fmt.Errorf("library already deleted: %w", domain.ErrNotFound)
	}
	if err := s.repo.Update(ctx, libraryID, map[string]interface{}{
		"status":     domain.LibraryDeleted,
		"updated_by": actor,
	}); err != nil {
		return err
	}
	slog.Info("external library deleted", "library_id", libraryID, "actor", actor)
	return nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.ExternalLibrary, error) {
	return s.repo.Scan(ctx)
}

// ListActive is the public projection served to the form.
func (s *service) ListActive(ctx context.Context) ([]domain.LibrarySummary, error) {
	libs, err := s.repo.ListByStatus(ctx, domain.LibraryActive)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.LibrarySummary, 0, len(libs))
	for i := range libs {
		summaries = append(summaries, libs[i].Summary())
	}
	return summaries, nil
}
