package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"company_reviews/internal/adapters/observability"
	"company_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// maxPrealloc caps the result capacity; limit comes from the client.
const maxPrealloc = 256

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	observability.ObserveStore(op, result, time.Since(start))
}

func (r *Repo) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { observe("count", start, err) }(time.Now())
	err = r.db.QueryRowContext(ctx, countReviewsSQL).Scan(&n)
	return n, err
}

func (r *Repo) FindPage(ctx context.Context, offset, limit int) (out []domain.Review, err error) {
	defer func(start time.Time) { observe("find_page", start, err) }(time.Now())

	rows, err := r.db.QueryContext(ctx, findPageSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = make([]domain.Review, 0, min(limit, maxPrealloc))
	for rows.Next() {
		var rv domain.Review
		var text, first, last sql.NullString
		if err := rows.Scan(
			&rv.ID,
			&text,
			&rv.Rating,
			&rv.CreatedOn,
			&rv.ReviewerID,
			&rv.CompanyID,
			&rv.User.ID,
			&first,
			&last,
			&rv.User.Email,
			&rv.Company.ID,
			&rv.Company.Name,
		); err != nil {
			return nil, err
		}
		if text.Valid {
			s := text.String
			rv.ReviewText = &s
		}
		if first.Valid {
			s := first.String
			rv.User.FirstName = &s
		}
		if last.Valid {
			s := last.String
			rv.User.LastName = &s
		}
		rv.CreatedOn = rv.CreatedOn.UTC()
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpsertUsers(ctx context.Context, us []domain.Reviewer) error {
	if len(us) == 0 {
		return nil
	}
	values := make([]string, 0, len(us))
	args := make([]any, 0, len(us)*4)
	for _, u := range us {
		values = append(values, "(?,?,?,?)")
		args = append(args, u.ID, valStr(u.FirstName), valStr(u.LastName), u.Email)
	}
	_, err := r.db.ExecContext(ctx, upsertUsersPrefix+strings.Join(values, ",")+upsertUsersOnDup, args...)
	return err
}

func (r *Repo) UpsertCompanies(ctx context.Context, cs []domain.Company) error {
	if len(cs) == 0 {
		return nil
	}
	values := make([]string, 0, len(cs))
	args := make([]any, 0, len(cs)*2)
	for _, c := range cs {
		values = append(values, "(?,?)")
		args = append(args, c.ID, c.Name)
	}
	_, err := r.db.ExecContext(ctx, upsertCompaniesPrefix+strings.Join(values, ",")+upsertCompaniesOnDup, args...)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*6) // 6 params per row
	for _, rv := range rs {
		values = append(values, "(?,?,?,COALESCE(?, CURRENT_TIMESTAMP(3)),?,?)")
		args = append(args,
			rv.ID,
			valStr(rv.ReviewText),
			rv.Rating,
			valTime(rv.CreatedOn),
			rv.ReviewerID,
			rv.CompanyID,
		)
	}
	sqlStr := upsertReviewsPrefix + strings.Join(values, ",") + upsertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
