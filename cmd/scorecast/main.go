package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-scorecast"
	"github.com/goliatone/go-scorecast/internal/config"
	"github.com/goliatone/go-scorecast/internal/logging"
	"github.com/goliatone/go-scorecast/internal/webapp"
	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/render"
	"github.com/goliatone/go-scorecast/pkg/renderers/terminal"
	"github.com/goliatone/go-scorecast/pkg/renderers/tui"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

// assignments collects repeated -set key=value flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*a = append(*a, value)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var sets assignments
	configPath := flag.String("config", "", "YAML configuration file")
	mode := flag.String("mode", "cli", "cli or web")
	addr := flag.String("addr", "", "listen address in web mode")
	rendererName := flag.String("renderer", "", "output renderer in cli mode (terminal or html)")
	variant := flag.String("theme", "", "theme variant (dark or light)")
	noPrompt := flag.Bool("no-prompt", false, "submit the defaults and -set values without prompting")
	checkSchema := flag.Bool("check-schema", false, "compare the attribute schema with the service OpenAPI document and exit")
	flag.Var(&sets, "set", "preset an attribute as key=value (repeatable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *rendererName != "" {
		cfg.UI.Renderer = *rendererName
	}
	if *variant != "" {
		cfg.UI.Theme = *variant
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialise: %v", err)
	}

	ctx := context.Background()
	switch {
	case *checkSchema:
		os.Exit(runCheck(ctx, app, os.Stdout))
	case *mode == "web":
		go app.LoadInsights(ctx)
		server := webapp.New(app,
			webapp.WithLogger(logger.Named("webapp")),
			webapp.WithSessionTTL(cfg.Server.SessionTTL),
			webapp.WithDefaultVariant(cfg.UI.Theme),
		)
		if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	case *mode == "cli":
		err := runCLI(ctx, app, cliOptions{
			Renderer: cfg.UI.Renderer,
			Variant:  cfg.UI.Theme,
			Sets:     sets,
			NoPrompt: *noPrompt,
			Out:      os.Stdout,
		})
		if code := exitCode(err); code != 0 {
			if code == exitFailure {
				log.Printf("Prediction session failed: %v", err)
			}
			os.Exit(code)
		}
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
}

func newApp(cfg *config.Config, logger *zap.Logger) (*scorecast.App, error) {
	attrs := schema.Default()
	if cfg.Schema != "" {
		loaded, err := schema.LoadFile(cfg.Schema)
		if err != nil {
			return nil, err
		}
		attrs = loaded
	}

	client, err := predict.NewClient(cfg.API.BaseURL,
		predict.WithTimeout(cfg.API.Timeout),
		predict.WithLogger(logger.Named("client")),
	)
	if err != nil {
		return nil, err
	}

	registry, err := scorecast.DefaultRegistry(terminal.WithOutput(os.Stdout))
	if err != nil {
		return nil, err
	}
	themes, err := render.NewThemes(cfg.UI.Theme)
	if err != nil {
		return nil, err
	}

	return scorecast.New(
		scorecast.WithLogger(logger),
		scorecast.WithClient(client),
		scorecast.WithSchema(attrs),
		scorecast.WithRegistry(registry),
		scorecast.WithThemes(themes),
	)
}

func runCheck(ctx context.Context, app *scorecast.App, out io.Writer) int {
	drifts, err := app.CheckSchema(ctx)
	if err != nil {
		log.Printf("Schema check failed: %v", err)
		return 2
	}
	if len(drifts) == 0 {
		fmt.Fprintln(out, "Schema matches the service contract.")
		return 0
	}
	for _, drift := range drifts {
		fmt.Fprintln(out, drift.String())
	}
	return 1
}

const (
	exitFailure = 1
	exitAborted = 130

	// defaultInsightsWait bounds how long a first prediction waits for the
	// chart data before rendering without it.
	defaultInsightsWait = 2 * time.Second
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case tui.IsAborted(err):
		return exitAborted
	default:
		return exitFailure
	}
}

type cliOptions struct {
	Renderer     string
	Variant      string
	Sets         assignments
	NoPrompt     bool
	Out          io.Writer
	Driver       tui.PromptDriver
	InsightsWait time.Duration
}

func runCLI(ctx context.Context, app *scorecast.App, opts cliOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Driver == nil {
		opts.Driver = tui.NewSurveyDriver(os.Stderr)
	}
	if opts.InsightsWait <= 0 {
		opts.InsightsWait = defaultInsightsWait
	}

	// The fetch runs on its own and is never awaited by a submit beyond
	// InsightsWait.
	insightsDone := make(chan struct{})
	go func() {
		defer close(insightsDone)
		app.LoadInsights(ctx)
	}()

	sess := app.NewSession(func(state predict.State) {
		if state.Pending() && !opts.NoPrompt {
			_ = opts.Driver.Info(ctx, render.BusyLabel)
		}
	})

	var preset []string
	for _, raw := range opts.Sets {
		key, value, _ := strings.Cut(raw, "=")
		if err := applyPreset(app.Schema(), sess, key, value); err != nil {
			return err
		}
		preset = append(preset, strings.TrimSpace(key))
	}

	for first := true; ; first = false {
		collectorOpts := []tui.Option{tui.WithPromptDriver(opts.Driver)}
		if first {
			collectorOpts = append(collectorOpts, tui.WithSkip(preset...))
		}
		collector := tui.New(collectorOpts...)

		g, gctx := errgroup.WithContext(ctx)
		if !opts.NoPrompt {
			g.Go(func() error {
				_, err := collector.Collect(gctx, sess.Store)
				return err
			})
		}
		if first {
			g.Go(func() error {
				awaitInsights(gctx, insightsDone, opts.InsightsWait)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sess.Submit(ctx)
		out, _, err := app.Render(ctx, sess, opts.Renderer, scorecast.ViewOptions{Variant: opts.Variant})
		if err != nil {
			return err
		}
		if _, err := opts.Out.Write(out); err != nil {
			return err
		}

		if opts.NoPrompt {
			return nil
		}
		again, err := collector.Confirm(ctx, "Adjust inputs and predict again?", false)
		if err != nil || !again {
			return err
		}
	}
}

// awaitInsights returns when the insights fetch finished, the wait elapsed, or
// ctx is done, whichever comes first.
func awaitInsights(ctx context.Context, done <-chan struct{}, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
}

func applyPreset(s *schema.Schema, sess *scorecast.Session, key, raw string) error {
	attr, ok := s.Lookup(strings.TrimSpace(key))
	if !ok {
		return fmt.Errorf("-set %s: %w", key, schema.ErrUnknownField)
	}
	value, err := attr.Coerce(raw)
	if err == nil {
		err = attr.Validate(value)
	}
	if err != nil {
		return fmt.Errorf("-set %s: %w", key, err)
	}
	if _, err := sess.Store.SetField(attr.Key, raw); err != nil {
		return fmt.Errorf("-set %s: %w", key, err)
	}
	return nil
}
