package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/salesboard-dev/salesboard/internal/daterange"
	"github.com/salesboard-dev/salesboard/internal/session"
)

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var rangeName, format string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Read range selections from stdin and redraw the dashboard",
		Long: `Each input line selects a range: a preset name (see "salesboard ranges"),
"custom START END" with inclusive YYYY-MM-DD dates, "refresh", or "quit".
A new selection supersedes any query still in flight.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < 0 {
				return errors.New("--interval cannot be negative")
			}
			a, err := newApp(opts, format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout(), rangeName, interval)
		},
	}

	cmd.Flags().StringVar(&rangeName, "range", "", "range to show before reading input")
	cmd.Flags().DurationVar(&interval, "interval", 0, "re-run the latest selection this often (0 disables)")
	cmd.Flags().StringVar(&format, "format", "", "output format (cards, json, csv)")

	return cmd
}

// watcher dispatches input lines to the session and prints each outcome.
type watcher struct {
	app  *app
	base context.Context // parent of every query cycle

	outMu sync.Mutex
	out   io.Writer

	pending sync.WaitGroup
}

func runWatch(ctx context.Context, a *app, in io.Reader, out io.Writer, initial string, interval time.Duration) error {
	w := &watcher{app: a, base: ctx, out: out}
	if initial != "" {
		if q, ok := w.resolve(initial); ok {
			w.report(a.session.Run(ctx, q))
		}
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(loopCtx)

	g.Go(func() error {
		defer stop()
		return w.readCommands(in)
	})
	if interval > 0 {
		g.Go(func() error {
			return w.refreshEvery(gctx, interval)
		})
	}

	err := g.Wait()
	w.pending.Wait()
	return err
}

// readCommands handles input lines until EOF or quit.
func (w *watcher) readCommands(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		w.handle(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (w *watcher) refreshEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ch, ok := w.app.session.Refresh(w.base); ok {
				w.track(ch)
			}
		}
	}
}

func (w *watcher) handle(line string) {
	if strings.EqualFold(line, "refresh") {
		ch, ok := w.app.session.Refresh(w.base)
		if !ok {
			w.printf("nothing to refresh\n")
			return
		}
		w.track(ch)
		return
	}
	if q, ok := w.resolve(line); ok {
		w.track(w.app.session.Start(w.base, q))
	}
}

// resolve turns an input line into a query, printing the reason when it
// cannot.
func (w *watcher) resolve(line string) (session.Query, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return session.Query{}, false
	}
	if strings.EqualFold(fields[0], "custom") {
		if len(fields) != 3 {
			w.printf("usage: custom START END\n")
			return session.Query{}, false
		}
		q, errs := session.CustomQuery(fields[1], fields[2], w.app.session.Now().Location())
		if len(errs) > 0 {
			w.printf("%s\n", strings.Join(daterange.Messages(errs), " "))
			return session.Query{}, false
		}
		return q, true
	}

	q, err := session.PresetQuery(line, w.app.session.Now())
	if err != nil {
		w.printf("%v\n", err)
		return session.Query{}, false
	}
	return q, true
}

func (w *watcher) track(ch <-chan session.Outcome) {
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		w.report(<-ch)
	}()
}

// report prints a finished cycle. Superseded cycles print nothing.
func (w *watcher) report(o session.Outcome) {
	if o.Kind == session.KindStale {
		return
	}

	w.outMu.Lock()
	defer w.outMu.Unlock()
	w.app.record(o)
	if w.app.renderer.Format() == "cards" {
		fmt.Fprintf(w.out, "== %s (%s) ==\n", o.Query.Label, daterange.Describe(o.Query.Range))
	}
	if err := w.app.render(w.out); err != nil {
		w.app.log.WithError(err).Error("rendering board")
	}
}

func (w *watcher) printf(format string, args ...any) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}
