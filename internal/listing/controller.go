// Package listing drives the paginated review list: it owns the current page,
// issues the paired page+count fetch, and publishes Loading/Empty/Populated
// views to a Renderer.
package listing

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"company_reviews/internal/domain"
)

// Fetcher is the client side of the query service.
type Fetcher interface {
	FetchPage(ctx context.Context, page, limit int) ([]domain.Review, error)
	FetchCount(ctx context.Context) (int, error)
}

// Renderer receives every view transition. It is called with the controller
// lock held and must not call back into the Controller.
type Renderer interface {
	Render(v View)
}

type Scroller interface {
	ScrollToTop()
}

type Options struct {
	Limit int
	// Page is used when the session slot holds nothing.
	Page    int
	Session SessionStore
	// OnPageChange propagates a selected page to the owner of page state.
	OnPageChange func(page int)
	Scroller     Scroller
	Renderer     Renderer
	Logger       *zerolog.Logger
}

type Controller struct {
	fetcher Fetcher
	opts    Options
	log     zerolog.Logger

	mu        sync.Mutex
	page      int
	pageCount int
	state     State
	items     []domain.Review
	seq       uint64 // tag of the most recent request
	wg        sync.WaitGroup
}

// New reads the session slot once to pick the starting page. A failing slot
// is logged and ignored.
func New(ctx context.Context, f Fetcher, opts Options) (*Controller, error) {
	if f == nil {
		return nil, errors.New("listing: fetcher is required")
	}
	if opts.Limit < 1 {
		return nil, domain.InvalidLimit(strconv.Itoa(opts.Limit))
	}
	c := &Controller{fetcher: f, opts: opts, log: log.Logger, state: Loading}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}

	c.page = max(opts.Page, 1)
	if opts.Session != nil {
		p, ok, err := opts.Session.LoadPage(ctx)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Msg("session page unavailable, starting from default")
		case ok:
			c.page = p
		}
	}
	return c, nil
}

// Mount issues the first fetch for the current page.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	tag, page := c.beginLocked()
	c.mu.Unlock()
	c.fetch(ctx, tag, page)
}

// SetPage is the owner changing the controlling page input. An unchanged page
// does not refetch.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return domain.InvalidPage(strconv.Itoa(page))
	}
	c.mu.Lock()
	if page == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = page
	tag, _ := c.beginLocked()
	c.mu.Unlock()

	c.fetch(ctx, tag, page)
	return nil
}

// SelectPage handles a page-change event from either widget: persist the
// page, propagate it upward, fetch it, then scroll to the top. Both widgets
// take this same path.
func (c *Controller) SelectPage(ctx context.Context, from Position, page int) error {
	c.mu.Lock()
	if page < 1 || (c.pageCount > 0 && page > c.pageCount) {
		c.mu.Unlock()
		return domain.InvalidPage(strconv.Itoa(page))
	}
	if page == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = page
	tag, _ := c.beginLocked()
	c.mu.Unlock()

	c.log.Debug().Str("widget", from.String()).Int("page", page).Msg("page selected")

	if c.opts.Session != nil {
		if err := c.opts.Session.SavePage(ctx, page); err != nil {
			c.log.Warn().Err(err).Int("page", page).Msg("persist page failed")
		}
	}
	if c.opts.OnPageChange != nil {
		c.opts.OnPageChange(page)
	}
	c.fetch(ctx, tag, page)
	if c.opts.Scroller != nil {
		c.opts.Scroller.ScrollToTop()
	}
	return nil
}

// View returns a snapshot of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Page is the canonical current page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Wait blocks until every issued fetch has settled.
func (c *Controller) Wait() { c.wg.Wait() }

// beginLocked starts a request for c.page: it takes a new tag, so any result
// still in flight is stale from here on, and publishes Loading.
func (c *Controller) beginLocked() (tag uint64, page int) {
	c.seq++
	c.state = Loading
	c.wg.Add(1)
	c.renderLocked()
	return c.seq, c.page
}

// fetch runs the request begun by beginLocked.
func (c *Controller) fetch(ctx context.Context, tag uint64, page int) {
	go func() {
		defer c.wg.Done()
		items, total, err := c.fetchPair(ctx, page)
		c.settle(tag, page, items, total, err)
	}()
}

// fetchPair runs the page and count fetches concurrently; the first failure
// cancels the other.
func (c *Controller) fetchPair(ctx context.Context, page int) ([]domain.Review, int, error) {
	var (
		items []domain.Review
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = c.fetcher.FetchPage(gctx, page, c.opts.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = c.fetcher.FetchCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (c *Controller) settle(tag uint64, page int, items []domain.Review, total int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tag != c.seq {
		c.log.Debug().Uint64("tag", tag).Uint64("latest", c.seq).Int("page", page).Msg("discarding stale result")
		return
	}

	switch {
	case err != nil:
		c.log.Warn().Err(err).
			Bool("network", errors.Is(err, domain.ErrNetwork)).
			Uint64("tag", tag).
			Int("page", page).
			Msg("fetch reviews failed")
		c.state, c.items, c.pageCount = Empty, nil, 0
	case len(items) == 0:
		c.state, c.items, c.pageCount = Empty, nil, 0
	default:
		c.state, c.items = Populated, items
		c.pageCount = (total + c.opts.Limit - 1) / c.opts.Limit
	}
	c.renderLocked()
}

func (c *Controller) snapshotLocked() View {
	v := View{State: c.state, Page: c.page, PageCount: c.pageCount}
	if c.state != Populated {
		return v
	}
	v.Items = make([]domain.Review, len(c.items))
	copy(v.Items, c.items)
	v.Pagers = []Pager{
		{Position: Top, Current: c.page, Count: c.pageCount},
		{Position: Bottom, Current: c.page, Count: c.pageCount},
	}
	return v
}

func (c *Controller) renderLocked() {
	if c.opts.Renderer != nil {
		c.opts.Renderer.Render(c.snapshotLocked())
	}
}
