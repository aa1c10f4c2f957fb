package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/config"
	"github.com/muurk/fieldkit/internal/demo"
	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/search"
	"github.com/muurk/fieldkit/internal/ui"
)

// Global flags
var (
	configPath string
	locale     string
	logLevel   string
	logFile    string
)

// Form command flags
var (
	endpoint string
	compact  bool
	fluid    bool
)

// Serve command flags
var (
	listenAddr string
	slowDelay  time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML or TOML); defaults to the user config file")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Built-in message locale (en, pt-BR) when no config file exists")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	addFormFlags(rootCmd)
	addFormFlags(formCmd)

	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(configCmd)
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Backend base URL; starts the built-in backend when empty")
	cmd.Flags().BoolVar(&compact, "compact", false, "Always present combobox lists as a modal")
	cmd.Flags().BoolVar(&fluid, "fluid", false, "Use the full terminal width")
}

// loadConfig resolves --config, then the user config file, then --locale.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	if locale != "" {
		return config.Locale(locale), nil
	}
	return config.LoadDefault()
}

// formCmd runs the interactive form
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Run the interactive signup form",
	Long: `Run the signup form full screen.

Without --endpoint an in-process backend answers city searches and
signups. Some inputs fail on purpose:
  - an email at taken.example is already registered
  - the name "boom" makes the server fail
  - the name "slow" answers after a delay`,
	Example: `  # Run against the built-in backend
  fieldkit-demo form

  # Force modal lists, as on a small screen
  fieldkit-demo form --compact

  # Use a backend started with 'fieldkit-demo serve'
  fieldkit-demo form --endpoint http://127.0.0.1:8080`,
	RunE: runForm,
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.Named("demo")
	base := endpoint
	if base == "" {
		backend := demo.NewBackend()
		backend.Logger = log.Named("backend")
		srv := backend.Start()
		defer srv.Close()
		base = srv.URL
	}
	log.Info("Starting form", zap.String("endpoint", base), zap.Bool("compact", compact))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := demo.NewAppModel(demo.Options{
		Config:   cfg,
		Endpoint: base,
		Compact:  compact,
		Fluid:    fluid,
		Logger:   log,
		Context:  ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

// serveCmd runs the demo backend on its own
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo backend over HTTP",
	Long: `Serve the demo backend on a TCP address until interrupted.

Routes:
  GET  /api/cities?q=<text>   search cities
  POST /api/signup            submit a signup`,
	Example: `  # Serve on the default address
  fieldkit-demo serve

  # Serve on all interfaces with a slower "slow" response
  fieldkit-demo serve --listen :9000 --slow-delay 5s`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().DurationVar(&slowDelay, "slow-delay", 2*time.Second, "Delay for the \"slow\" signup")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Named("serve")

	backend := demo.NewBackend()
	backend.Delay = slowDelay
	backend.Logger = log

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logging.Info("Server started", zap.String("addr", listenAddr), zap.Duration("slow_delay", slowDelay))
	fmt.Printf("Serving demo backend on http://%s\n", listenAddr)
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logging.Info("Server stopped", zap.Int("signups", len(backend.Signups())))
	return nil
}

// tokenizeCmd prints search tokens
var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <text...>",
	Short: "Print the search token of some text",
	Long: `Print the folded search token used to match option text.

Text is lowercased, stripped of accents and stopwords, and plural
suffixes are removed from every word.`,
	Example: `  fieldkit-demo tokenize "As Maçãs do Pomar"`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		logging.Debug("Tokenizing", zap.String("text", text))
		fmt.Println(tokenizeView(text))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Write the defaults of --locale to a YAML or TOML file, chosen by
extension. Without a path the user config file is written.`,
	Example: `  fieldkit-demo config init
  fieldkit-demo config init --locale pt-BR ./fieldkit.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			p, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			path = p
		}

		if err := config.Locale(locale).Save(path); err != nil {
			return err
		}

		fmt.Println(ui.NewSuccessResult("Configuration written", nil).
			AddDetail("Path", path).
			AddDetail("Locale", config.Locale(locale).Locale).
			Render())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(configView(cfg, configPath))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// tokenizeView renders the search token and folded words of text.
func tokenizeView(text string) string {
	return ui.NewHeader(demo.AppName, "fieldkit-demo tokenize", map[string]string{
		"Text":  text,
		"Token": fmt.Sprintf("%q", search.GenerateSearchToken(text)),
		"Words": strings.Join(search.Tokens(text), ", "),
	}).Render()
}

// configView renders the effective configuration. source is the --config
// path, empty when defaults or the user config file were used.
func configView(cfg *config.Config, source string) string {
	if source == "" {
		source = "default"
	}
	return ui.NewHeader(demo.AppName, "fieldkit-demo config show", map[string]string{
		"Source":        source,
		"Locale":        cfg.Locale,
		"Presentation":  string(cfg.Combobox.Presentation),
		"Debounce":      cfg.Combobox.Debounce().String(),
		"List height":   fmt.Sprint(cfg.Combobox.ListHeight),
		"Compact width": fmt.Sprint(cfg.Combobox.CompactWidth),
		"Toast":         fmt.Sprintf("%s, %dms", cfg.Action.ToastPosition, cfg.Action.ToastDurationMS),
		"Page size":     fmt.Sprint(cfg.Pager.PageSize),
	}).Render()
}
