package listing

import (
	"fmt"
	"io"
	"math"
	"strings"

	"company_reviews/internal/domain"
)

const (
	LoadingText = "Loading"
	EmptyText   = "No reviews available"
)

// TextRenderer draws views as plain text, one block per transition.
type TextRenderer struct {
	W io.Writer
}

func (r TextRenderer) Render(v View) {
	switch v.State {
	case Loading:
		fmt.Fprintln(r.W, LoadingText)
	case Empty:
		fmt.Fprintln(r.W, EmptyText)
	case Populated:
		fmt.Fprintln(r.W, FormatPager(v.Pagers[0]))
		for _, rv := range v.Items {
			writeReview(r.W, rv)
		}
		fmt.Fprintln(r.W, FormatPager(v.Pagers[1]))
	}
}

// FormatPager renders buttons like "1 2 [3] … 9 10".
func FormatPager(p Pager) string {
	items := p.Items()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Selected:
			parts = append(parts, fmt.Sprintf("[%d]", it.Page))
		default:
			parts = append(parts, fmt.Sprint(it.Page))
		}
	}
	return strings.Join(parts, " ")
}

func writeReview(w io.Writer, rv domain.Review) {
	fmt.Fprintf(w, "%s\n  %s  %s\n  %s\n",
		rv.User.DisplayName(),
		rv.CreatedOn.Format("January 2, 2006"),
		Stars(rv.Rating),
		rv.Company.Name,
	)
	if rv.ReviewText != nil {
		fmt.Fprintf(w, "  %s\n", *rv.ReviewText)
	}
}

// Stars renders a 0..5 rating rounded to the nearest half star.
func Stars(rating float64) string {
	halves := int(math.Round(math.Max(0, math.Min(5, rating)) * 2))
	return strings.Repeat("★", halves/2) + strings.Repeat("½", halves%2) + strings.Repeat("☆", 5-halves/2-halves%2)
}
