// Package memory is an in-process review store used in dev mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"company_reviews/internal/domain"
)

// Store keeps reviews ordered newest first. Ties on CreatedOn fall back to ID
// descending, the same order the MySQL store uses.
type Store struct {
	sync.RWMutex
	users     map[string]domain.Reviewer
	companies map[string]domain.Company
	reviews   []domain.Review
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     map[string]domain.Reviewer{},
		companies: map[string]domain.Company{},
	}
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.RLock()
	defer s.RUnlock()
	return len(s.reviews), nil
}

func (s *Store) FindPage(ctx context.Context, offset, limit int) ([]domain.Review, error) {
	s.RLock()
	defer s.RUnlock()

	if offset < 0 || offset >= len(s.reviews) || limit <= 0 {
		return []domain.Review{}, nil
	}
	end := offset + min(limit, len(s.reviews)-offset)
	out := make([]domain.Review, 0, end-offset)
	for _, r := range s.reviews[offset:end] {
		r.User = s.users[r.ReviewerID]
		r.Company = s.companies[r.CompanyID]
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) UpsertUsers(ctx context.Context, us []domain.Reviewer) error {
	s.Lock()
	defer s.Unlock()
	for _, u := range us {
		s.users[u.ID] = u
	}
	return nil
}

func (s *Store) UpsertCompanies(ctx context.Context, cs []domain.Company) error {
	s.Lock()
	defer s.Unlock()
	for _, c := range cs {
		s.companies[c.ID] = c
	}
	return nil
}

func (s *Store) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	s.Lock()
	defer s.Unlock()

	idx := make(map[string]int, len(s.reviews))
	for i, r := range s.reviews {
		idx[r.ID] = i
	}
	for _, r := range rs {
		r.User, r.Company = domain.Reviewer{}, domain.Company{}
		if i, ok := idx[r.ID]; ok {
			s.reviews[i] = r
			continue
		}
		idx[r.ID] = len(s.reviews)
		s.reviews = append(s.reviews, r)
	}
	sort.SliceStable(s.reviews, func(i, j int) bool {
		a, b := s.reviews[i], s.reviews[j]
		if !a.CreatedOn.Equal(b.CreatedOn) {
			return a.CreatedOn.After(b.CreatedOn)
		}
		return a.ID > b.ID
	})
	return nil
}
