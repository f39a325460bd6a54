package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/serroba/pouch/client"
	"github.com/serroba/pouch/internal/bootstrap"
	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
	"github.com/serroba/pouch/lru"
)

type demoOptions struct {
	capacity int
	ttl      time.Duration
	wait     time.Duration
}

func newDemoCommand(root *rootOptions) *cobra.Command {
	opts := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through eviction and expiry on a small cache",
		Long: "demo fills a small cache, reads it back, waits past the TTL and shows " +
			"which keys survive. Host and port come from the configuration.",
		Args: cobra.NoArgs,
		RunE: withApp(root, func(cmd *cobra.Command, app *bootstrap.App) error {
			return runDemo(cmd, app, opts)
		}),
	}

	cmd.Flags().IntVar(&opts.capacity, "capacity", 2, "Cache capacity")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 2*time.Second, "Entry time-to-live")
	cmd.Flags().DurationVar(&opts.wait, "wait", 5*time.Second, "How long to wait before reading again")

	return cmd
}

func runDemo(cmd *cobra.Command, app *bootstrap.App, opts *demoOptions) error {
	ctx := cmd.Context()
	out := &lineWriter{w: cmd.OutOrStdout()}

	c, err := client.New(ctx, app.Config.Client.Host, app.Config.Client.Port, opts.capacity, opts.ttl,
		lru.WithOnEvict[int, string](func(key int, _ string, reason lru.Reason) {
			logging.Debug(ctx, "entry left cache", slog.Int("key", key), slog.String("reason", reason.String()))
		}),
	)
	if err != nil {
		return errs.Wrap(err, "build demo client")
	}

	out.printf("cache created with capacity %d and ttl %s", opts.capacity, opts.ttl)

	c.Put(1, "a")
	out.get(c, 1)
	c.Put(2, "b")
	out.get(c, 2)
	out.entries(c)

	out.printf("sleeping for %s", opts.wait)
	select {
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "wait for expiry")
	case <-time.After(opts.wait):
	}

	out.get(c, 1)

	c.Put(3, "c")
	out.get(c, 1)
	out.get(c, 2)
	out.get(c, 3)

	c.Put(4, "d")
	out.get(c, 2)
	out.get(c, 3)
	out.get(c, 4)
	out.entries(c)

	return out.err
}

// lineWriter keeps the first write error so the demo script reads straight.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	if _, err := fmt.Fprintf(l.w, format+"\n", args...); err != nil {
		l.err = errs.Wrap(err, "write demo output")
	}
}

func (l *lineWriter) get(c *client.Client[int, string], key int) {
	if v, ok := c.Get(key); ok {
		l.printf("get %d: %s", key, v)
		return
	}
	l.printf("get %d: <absent>", key)
}

func (l *lineWriter) entries(c *client.Client[int, string]) {
	parts := make([]string, 0, c.Cache().Cap())
	for _, e := range c.Entries() {
		parts = append(parts, fmt.Sprintf("%d=%s", e.Key, e.Value))
	}
	l.printf("entries: [%s]", strings.Join(parts, " "))
}
