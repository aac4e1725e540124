package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/dumberproto/internal/cli"
	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/config"
	"github.com/bnema/dumberproto/internal/infrastructure/schemehost"
	"github.com/bnema/dumberproto/internal/logging"
)

// metricsDefault stands for the XDG state metrics file when --metrics-file
// is given without a value.
const metricsDefault = "default"

var (
	fetchUTF8        bool
	fetchStdin       bool
	fetchQuiet       bool
	fetchMetricsFile string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url...]",
	Short: "Fetch about: and res: URLs through the scheme handlers",
	Long: `Run one handler session per URL and write each document to stdout.

Documents are UTF-16 with a byte-order mark; --utf8 converts them. Status
lines go to stderr. URLs are fetched concurrently (host.concurrency) and
written in argument order.

Examples:
  dumberproto fetch about:blank --utf8
  dumberproto fetch res://shdoclc.dll/html/404.htm > 404.htm
  printf 'about:a\nabout:b\n' | dumberproto fetch --stdin --utf8`,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 && !fetchStdin {
			return errors.New("requires at least one URL or --stdin")
		}
		return nil
	},
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchUTF8, "utf8", false, "convert UTF-16 documents to UTF-8")
	fetchCmd.Flags().BoolVar(&fetchStdin, "stdin", false, "read URLs from stdin, one per line, reloading the search path on config change")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false, "suppress status lines for successful fetches")
	fetchCmd.Flags().StringVar(&fetchMetricsFile, "metrics-file", "", "write session metrics in prometheus textfile format")
	fetchCmd.Flags().Lookup("metrics-file").NoOptDefVal = metricsDefault
}

func runFetch(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errAppNotInitialized
	}

	runCtx := logging.With(app.Ctx(), map[string]any{"command": "fetch", "run": uuid.NewString()})
	ctx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	f := newFetcher(app.Host, app.Config.Host.Concurrency, fetchUTF8)
	out := &fetchOutput{
		out:      cmd.OutOrStdout(),
		status:   cmd.ErrOrStderr(),
		renderer: styles.NewFetchRenderer(app.Theme),
		quiet:    fetchQuiet,
	}

	var runErr error
	if fetchStdin {
		watchSearchPath(app)
		runErr = fetchLines(ctx, f, out, cmd.InOrStdin())
	} else {
		results, err := f.fetchAll(ctx, args)
		if err != nil {
			return err
		}
		runErr = out.write(results)
	}

	if fetchMetricsFile != "" {
		if err := writeMetrics(fetchMetricsFile, app.Gatherer); err != nil {
			return err
		}
	}
	return runErr
}

// fetchResult is the outcome of one URL.
type fetchResult struct {
	URI  string
	Resp *schemehost.SchemeResponse
	Body []byte
	Err  error
}

type fetcher struct {
	host  *schemehost.Host
	limit int
	utf8  bool
}

func newFetcher(host *schemehost.Host, limit int, utf8 bool) *fetcher {
	if limit < 1 {
		limit = 1
	}
	return &fetcher{host: host, limit: limit, utf8: utf8}
}

// fetchAll runs one session per URL, at most limit at a time. Results keep
// the order of uris. Only cancellation of ctx is returned as an error.
func (f *fetcher) fetchAll(ctx context.Context, uris []string) ([]fetchResult, error) {
	results := make([]fetchResult, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for i, uri := range uris {
		i, uri := i, uri
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.fetchOne(gctx, uri)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (f *fetcher) fetchOne(ctx context.Context, uri string) fetchResult {
	resp := f.host.HandleRequest(ctx, uri)
	res := fetchResult{URI: uri, Resp: resp, Body: resp.Data, Err: resp.Err}
	if res.Err != nil || !f.utf8 {
		return res
	}

	body, err := schemehost.ToUTF8(resp.Data)
	if err != nil {
		res.Err = fmt.Errorf("convert %s to utf-8: %w", uri, err)
		return res
	}
	res.Body = body
	return res
}

type fetchOutput struct {
	out      io.Writer
	status   io.Writer
	renderer *styles.FetchRenderer
	quiet    bool
}

// write prints every body to out and every status line to status. It fails
// when any URL failed.
func (o *fetchOutput) write(results []fetchResult) error {
	failed := 0
	for _, r := range results {
		if !o.writeOne(r) {
			failed++
		}
	}

	if len(results) > 1 && !o.quiet {
		fmt.Fprintln(o.status, o.renderer.RenderSummary(len(results)-failed, failed))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(results))
	}
	return nil
}

func (o *fetchOutput) writeOne(r fetchResult) bool {
	if r.Err != nil {
		status := 0
		if r.Resp != nil {
			status = r.Resp.StatusCode
		}
		fmt.Fprintln(o.status, o.renderer.RenderFailure(r.URI, status, r.Err))
		return false
	}

	if !o.quiet {
		fmt.Fprintln(o.status, o.renderer.RenderStatus(r.URI, r.Resp.StatusCode, r.Resp.ContentType, len(r.Body)))
	}
	if _, err := o.out.Write(r.Body); err != nil {
		fmt.Fprintln(o.status, o.renderer.RenderFailure(r.URI, r.Resp.StatusCode, err))
		return false
	}
	return true
}

// fetchLines fetches each non-blank line of in as it arrives. Lines starting
// with # are skipped.
func fetchLines(ctx context.Context, f *fetcher, out *fetchOutput, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	total, failed := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		total++
		if !out.writeOne(f.fetchOne(ctx, line)) {
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read urls: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, total)
	}
	return nil
}

// watchSearchPath keeps the module search path in sync with the config file
// for long-running stdin sessions.
func watchSearchPath(app *cli.App) {
	if app.Manager == nil || app.Manager.GetConfigFile() == "" {
		return
	}

	logger := app.Logger()
	app.Manager.OnConfigChange(func(cfg *config.Config) {
		app.Searcher.SetDirs(cfg.Modules.Dirs())
		logger.Info().Strs("search_path", app.Searcher.Dirs()).Msg("search path reloaded")
	})
	if err := app.Manager.Watch(func(err error) {
		logger.Warn().Err(err).Msg("config reload failed")
	}); err != nil {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}
}

// writeMetrics writes the gathered session metrics to path in the node
// exporter textfile format.
func writeMetrics(path string, g prometheus.Gatherer) error {
	if path == metricsDefault {
		var err error
		path, err = config.GetMetricsFile()
		if err != nil {
			return fmt.Errorf("resolve metrics file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
