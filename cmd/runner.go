package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/repositories"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	"github.com/desertthunder/deepdive/internal/theme"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	content    services.ContentService
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	prefs      *repositories.PreferenceRepository
	history    *repositories.HistoryRepository
	open       func(url string) error
	notifier   tasks.Notifier
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Content    services.ContentService
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB                // opened from the config on first use when nil
	Open       func(url string) error // defaults to [shared.OpenURL]
	Notifier   tasks.Notifier         // defaults to [tasks.DesktopNotifier]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Open == nil {
		opts.Open = shared.OpenURL
	}
	if opts.Notifier == nil {
		opts.Notifier = tasks.DesktopNotifier
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		content:    opts.Content,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
		notifier:   opts.Notifier,
	}
	if opts.DB != nil {
		r.useDB(opts.DB)
	}
	return r
}

// Before loads the configuration named by --config and builds the services the commands share.
//
// Dependencies injected through [RunnerOpts] are kept.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
		}
	}
	r.config.ApplyEnv()
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Reader.LogLevel))

	if r.content == nil {
		r.content = r.newContentService(cmd.Bool("direct"))
	}
	if r.api == nil {
		r.api = services.NewAPIService(r.config.Supabase.URL, r.config.Supabase.AnonKey, r.httpClient)
	}
	return ctx, nil
}

func (r *Runner) newContentService(direct bool) services.ContentService {
	if direct {
		return services.NewDirectService(r.config.Supabase, services.NewRestClient(r.config.Supabase, r.httpClient))
	}
	return services.NewFunctionsService(r.config.Supabase, r.httpClient)
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, feedCommand, readCommand, exportCommand, newsCommand,
		radioCommand, teamsCommand, serveCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireContent returns the content service or an error when Before has not built one.
func (r *Runner) requireContent() (services.ContentService, error) {
	if r.content == nil {
		return nil, fmt.Errorf("%w: content service not initialized", shared.ErrServiceUnavailable)
	}
	return r.content, nil
}

// lang resolves --lang, falling back to the configured default.
func (r *Runner) lang(cmd *cli.Command) (models.Language, error) {
	value := cmd.String("lang")
	if value == "" {
		value = r.config.Reader.DefaultLanguage
	}
	return models.ParseLanguage(value)
}

func (r *Runner) useDB(db *sql.DB) {
	r.db = db
	r.prefs = repositories.NewPreferenceRepository(db)
	r.history = repositories.NewHistoryRepository(db)
}

// store opens the local database on first use.
func (r *Runner) store() error {
	if r.db != nil {
		return nil
	}
	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	r.useDB(db)
	return nil
}

// Close releases the local database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) newsTracker() (*tasks.NewsTracker, error) {
	if err := r.store(); err != nil {
		return nil, err
	}
	return tasks.NewNewsTracker(r.prefs), nil
}

func (r *Runner) themeLoader() *theme.Loader {
	return theme.NewLoader(r.httpClient, r.config.Theme.DefaultColor, r.logger)
}

func (r *Runner) watchInterval() time.Duration {
	if d := r.config.Reader.WatchInterval.Duration; d > 0 {
		return d
	}
	return 30 * time.Second
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
