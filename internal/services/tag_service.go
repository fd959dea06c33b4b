// Package services – TagService
//
// Read-side tag operations. Tags are created implicitly when questions
// reference them (see QuestionService); there is no standalone tag creation
// endpoint.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

// TagService provides tag lookups for the public API.
type TagService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return repo.ListTags(ctx, s.DB)
}

// Get returns a tag by its canonical (lowercase) name.
func (s *TagService) Get(ctx context.Context, name string) (*domain.Tag, error) {
	t, err := repo.GetTagByName(ctx, s.DB, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return t, nil
}
