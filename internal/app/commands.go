package app

import (
	"context"
	"fmt"
	"sort"

	"company_reviews/internal/domain"
)

// SeedService loads a fixture into the store. Parents are written before
// reviews to satisfy the foreign keys.
type SeedService struct {
	repo domain.ReviewWriter
}

func NewSeedService(r domain.ReviewWriter) *SeedService {
	return &SeedService{repo: r}
}

// ImportParents validates the fixture and upserts users and companies.
func (s *SeedService) ImportParents(ctx context.Context, f domain.Fixture) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}
	if err := s.repo.UpsertUsers(ctx, f.Users); err != nil {
		return fmt.Errorf("upsert users failed: %w", err)
	}
	if err := s.repo.UpsertCompanies(ctx, f.Companies); err != nil {
		return fmt.Errorf("upsert companies failed: %w", err)
	}
	return nil
}

// ImportReviews writes one batch; callers fan batches out per company.
func (s *SeedService) ImportReviews(ctx context.Context, companyID string, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	if err := s.repo.UpsertReviews(ctx, rs); err != nil {
		// IMPORTANT: do not swallow this; surface so we know inserts failed
		return fmt.Errorf("upsert reviews failed for %s: %w", companyID, err)
	}
	return nil
}

// Import runs the whole fixture sequentially.
func (s *SeedService) Import(ctx context.Context, f domain.Fixture) error {
	if err := s.ImportParents(ctx, f); err != nil {
		return err
	}
	batches := GroupByCompany(f.Reviews)
	for _, id := range SortedKeys(batches) {
		if err := s.ImportReviews(ctx, id, batches[id]); err != nil {
			return err
		}
	}
	return nil
}

// GroupByCompany splits reviews into per-company batches.
func GroupByCompany(rs []domain.Review) map[string][]domain.Review {
	out := make(map[string][]domain.Review)
	for _, r := range rs {
		out[r.CompanyID] = append(out[r.CompanyID], r)
	}
	return out
}

func SortedKeys(m map[string][]domain.Review) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
