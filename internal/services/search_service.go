// Package services – SearchService
//
// The search index is rebuilt lazily from the database: the first query after
// RebuildTTL elapses pays the rebuild cost, everything in between hits the
// immutable in-memory index. Scores baked into the index are therefore at
// most RebuildTTL stale; detail reads always recompute from the ledger.
package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dstamatis/go-forum-backend/internal/repo"
	"github.com/dstamatis/go-forum-backend/internal/search"
)

// SearchService serves question searches from a periodically rebuilt
// in-memory index.
type SearchService struct {
	// DB is the GORM handle the index is rebuilt from.
	DB *gorm.DB

	// RebuildTTL bounds index staleness. Zero means rebuild on every query.
	RebuildTTL time.Duration

	mu      sync.Mutex
	idx     search.Index
	builtAt time.Time
}

// Search returns up to limit ranked matches for the raw query string, which
// may mix free-text terms with score:N and tag:name filters.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	ctx, span := otel.Tracer("services.search").Start(ctx, "SearchService.Search")
	defer span.End()

	idx, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	res := idx.TopK(query, limit)
	span.SetAttributes(attribute.Int("results", len(res)))
	return res, nil
}

// index returns the current index, rebuilding it when the TTL has lapsed.
func (s *SearchService) index(ctx context.Context) (search.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx != nil && time.Since(s.builtAt) < s.RebuildTTL {
		return s.idx, nil
	}

	rows, err := repo.ListQuestionsForIndex(ctx, s.DB)
	if err != nil {
		// Serve the stale index rather than failing the request outright.
		if s.idx != nil {
			return s.idx, nil
		}
		return nil, err
	}

	docs := make([]search.Document, 0, len(rows))
	for _, q := range rows {
		tags := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			tags = append(tags, t.Name)
		}
		docs = append(docs, search.Document{
			ID:        q.ID,
			Title:     q.Title,
			Body:      q.Body,
			Tags:      tags,
			VoteScore: q.Score,
		})
	}

	s.idx = search.NewIndex(docs)
	s.builtAt = time.Now()
	return s.idx, nil
}

// Invalidate drops the cached index so the next query rebuilds it.
func (s *SearchService) Invalidate() {
	s.mu.Lock()
	s.idx = nil
	s.mu.Unlock()
}
