package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/serroba/pouch/client"
	"github.com/serroba/pouch/internal/bootstrap"
	"github.com/serroba/pouch/internal/bootstrap/logging"
	"github.com/serroba/pouch/internal/errs"
)

const replHelp = `commands:
  put <key> <value>   store value under key
  get <key>           read key
  del <key>           remove key
  list                live entries, most recently used first
  len                 stored entry count
  stats               hit, miss, eviction and expiry counters
  help                this text
  quit                leave`

func newReplCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read cache commands from stdin",
		Long:  "repl keeps one cache alive and applies put/get/del/list commands read line by line from stdin.\n\n" + replHelp,
		Args:  cobra.NoArgs,
		RunE: withApp(root, func(cmd *cobra.Command, app *bootstrap.App) error {
			return runRepl(cmd, app.Client)
		}),
	}
}

func runRepl(cmd *cobra.Command, c *client.Client[string, string]) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "repl interrupted")
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		quit, err := evalLine(out, c, line)
		if err != nil {
			return errs.Wrapf(err, "eval %q", line)
		}
		if quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return errs.Wrap(err, "read stdin")
	}

	logging.Debug(ctx, "repl input closed", slog.Int("entries", c.Cache().Len()))
	return nil
}

func evalLine(out io.Writer, c *client.Client[string, string], line string) (bool, error) {
	fields := strings.Fields(line)
	op, args := strings.ToLower(fields[0]), fields[1:]

	var err error

	switch op {
	case "put", "set":
		if len(args) < 2 {
			_, err = fmt.Fprintln(out, "usage: put <key> <value>")
			break
		}
		c.Put(args[0], strings.Join(args[1:], " "))
		_, err = fmt.Fprintln(out, "OK")
	case "get":
		if len(args) != 1 {
			_, err = fmt.Fprintln(out, "usage: get <key>")
			break
		}
		if v, ok := c.Get(args[0]); ok {
			_, err = fmt.Fprintln(out, v)
		} else {
			_, err = fmt.Fprintln(out, "(nil)")
		}
	case "del", "delete":
		if len(args) != 1 {
			_, err = fmt.Fprintln(out, "usage: del <key>")
			break
		}
		if c.Delete(args[0]) {
			_, err = fmt.Fprintln(out, "1")
		} else {
			_, err = fmt.Fprintln(out, "0")
		}
	case "list":
		entries := c.Entries()
		if len(entries) == 0 {
			_, err = fmt.Fprintln(out, "(empty)")
			break
		}
		for _, e := range entries {
			if _, err = fmt.Fprintf(out, "%s=%s\n", e.Key, e.Value); err != nil {
				break
			}
		}
	case "len":
		_, err = fmt.Fprintln(out, c.Cache().Len())
	case "stats":
		s := c.Cache().Stats()
		_, err = fmt.Fprintf(out, "hits=%d misses=%d evictions=%d expirations=%d\n",
			s.Hits, s.Misses, s.Evictions, s.Expirations)
	case "help":
		_, err = fmt.Fprintln(out, replHelp)
	case "quit", "exit":
		return true, nil
	default:
		_, err = fmt.Fprintf(out, "unknown command %q, try help\n", op)
	}

	return false, err
}
