// Package app wires the storefront: the search client, the orchestrator and
// the text renderer, driven by line-oriented terminal input.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/client"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/config"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/domain"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/search"
	"github.com/ArnoldEsquivel/palindrome-web/services/storefront/internal/view"
)

// Commands understood by the input loop. Any other line is typed input.
const (
	cmdSearch = ":search"
	cmdRetry  = ":retry"
	cmdReset  = ":reset"
	cmdQuit   = ":quit"
)

const separator = "----------------------------------------\n"

// App runs the storefront search page.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	orch   *search.Orchestrator
	in     io.Reader
	out    io.Writer
}

// NewApp creates the storefront reading commands from in and rendering the
// page to out.
func NewApp(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	searcher, err := client.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	orch := search.New(searcher,
		search.WithDebounce(cfg.Debounce),
		search.WithObserver(search.NewLogObserver(logger)),
	)

	return &App{
		cfg:    cfg,
		logger: logger,
		orch:   orch,
		in:     in,
		out:    out,
	}, nil
}

// Orchestrator exposes the search state machine driving the page.
func (a *App) Orchestrator() *search.Orchestrator {
	return a.orch
}

// Run renders the page and processes input until ctx is cancelled, the user
// quits, or input ends and the last search has settled. It always closes
// the orchestrator.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.orch.Close()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go a.readLines(ctx, lines, readErr)

	if err := a.render(a.orch.State()); err != nil {
		return err
	}

	// After input ends, wait for the last search to settle before exiting.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("storefront stopping", slog.String("reason", context.Cause(ctx).Error()))
			return nil

		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return err
				}
				lines = nil
				settle = time.After(a.cfg.Debounce + a.cfg.RequestTimeout)
				continue
			}
			if quit := a.handle(line); quit {
				a.logger.Info("storefront quit by user")
				return nil
			}

		case st := <-a.orch.Changes():
			if err := a.render(st); err != nil {
				return err
			}
			if lines == nil && st.Status != domain.StatusLoading {
				return nil
			}

		case <-settle:
			return nil
		}
	}
}

// handle applies one input line and reports whether the user quit.
func (a *App) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == cmdQuit:
		return true
	case trimmed == cmdRetry:
		a.orch.Retry()
	case trimmed == cmdReset:
		a.orch.Reset()
	case trimmed == cmdSearch:
		a.orch.Search(a.orch.Query())
	case strings.HasPrefix(trimmed, cmdSearch+" "):
		a.orch.Search(view.ClampInput(strings.TrimPrefix(trimmed, cmdSearch+" ")))
	default:
		a.orch.SetQuery(view.ClampInput(line))
	}
	return false
}

func (a *App) render(st domain.ViewState) error {
	if _, err := io.WriteString(a.out, separator+view.Page(a.orch.Query(), st)); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// readLines forwards input lines until EOF or ctx is done, then closes
// lines after reporting the scanner error, if any.
func (a *App) readLines(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	if err := scanner.Err(); err != nil {
		readErr <- fmt.Errorf("read input: %w", err)
		return
	}
	readErr <- nil
}
