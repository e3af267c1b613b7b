package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"company_reviews/internal/adapters/observability"
	redisad "company_reviews/internal/adapters/redis"
	"company_reviews/internal/adapters/reviewsapi"
	"company_reviews/internal/listing"
	"company_reviews/internal/shared"
)

const help = "commands: n (next), p (previous), <page> (top pager), b<page> (bottom pager), q (quit)"

// clearScreen scrolls a terminal back to the top of the list.
type clearScreen struct{}

func (clearScreen) ScrollToTop() { fmt.Fprint(os.Stdout, "\033[H\033[2J") }

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// a failed fetch resolves to the empty view; the controller never retries
	api, err := reviewsapi.New(cfg.APIBase, cfg.APIRPS, reviewsapi.WithMaxAttempts(1))
	if err != nil {
		log.Fatal().Err(err).Msg("reviews api client")
	}

	// session slot: redis when a session is configured, process memory otherwise
	var session listing.SessionStore = &listing.MemorySession{}
	if cfg.RedisAddr != "" && cfg.SessionID != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, page will not survive restarts")
		} else {
			session = redisad.NewSessionStore(rdb, cfg.SessionID, cfg.SessionTTL)
		}
	}

	ctl, err := listing.New(ctx, api, listing.Options{
		Limit:    cfg.PageLimit,
		Session:  session,
		Scroller: clearScreen{},
		Renderer: listing.TextRenderer{W: os.Stdout},
		OnPageChange: func(page int) {
			log.Debug().Int("page", page).Msg("page changed")
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("listing controller")
	}

	ctl.Mount(ctx)
	ctl.Wait()
	fmt.Println(help)

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		if ctx.Err() != nil {
			return
		}
		cmd := strings.TrimSpace(in.Text())
		if cmd == "q" {
			return
		}
		if err := run(ctx, ctl, cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Println(help)
			continue
		}
		ctl.Wait()
	}
}

func run(ctx context.Context, ctl *listing.Controller, cmd string) error {
	from := listing.Top
	switch {
	case cmd == "":
		return nil
	case cmd == "n":
		return ctl.SelectPage(ctx, from, ctl.Page()+1)
	case cmd == "p":
		return ctl.SelectPage(ctx, from, ctl.Page()-1)
	case strings.HasPrefix(cmd, "b"):
		from = listing.Bottom
		cmd = cmd[1:]
	}
	page, err := strconv.Atoi(cmd)
	if err != nil {
		return fmt.Errorf("unknown command %q", cmd)
	}
	return ctl.SelectPage(ctx, from, page)
}
