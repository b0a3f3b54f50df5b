package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/repositories"
	"github.com/desertthunder/sonata/internal/services"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/desertthunder/sonata/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	catalog    services.Catalog
	auth       services.Authenticator
	categories services.CategoryAdmin
	engine     player.Engine
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil services are built per command from Config, the current logger and any saved listener session.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Catalog    services.Catalog
	Auth       services.Authenticator
	Categories services.CategoryAdmin // skips the contributor token lookup when set
	Engine     player.Engine          // replaces the speaker for play and tui
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		catalog:    opts.Catalog,
		auth:       opts.Auth,
		categories: opts.Categories,
		engine:     opts.Engine,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, catalogCommand, homeCommand, categoriesCommand, apiCommand, playCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
// Services built afterwards log through it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// useFileLogger sends logs to path at the current level.
func (r *Runner) useFileLogger(path string) error {
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)
	return nil
}

// listenerAPI returns the API authorized with the saved listener token, or the anonymous API without one.
func (r *Runner) listenerAPI() *services.APIService {
	tok, err := r.token(shared.RoleListener)
	if err != nil {
		r.logger.Debug("browsing without a listener session", "error", err)
		return r.api
	}
	return r.api.WithToken(tok)
}

func (r *Runner) catalogClient() services.Catalog {
	if r.catalog != nil {
		return r.catalog
	}
	return services.NewCatalogService(r.listenerAPI(), r.config.API.PerPage, shared.WithLogger(r.logger, "component", "catalog"))
}

func (r *Runner) authClient() services.Authenticator {
	if r.auth != nil {
		return r.auth
	}
	return services.NewAuthService(r.api, shared.WithLogger(r.logger, "component", "auth"))
}

func (r *Runner) feedEngine(catalog services.Catalog) *tasks.FeedEngine {
	return tasks.NewFeedEngine(catalog, shared.WithLogger(r.logger, "component", "feed"))
}

// store opens the local database on first use.
func (r *Runner) store() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) tokens() (*repositories.TokenRepository, error) {
	db, err := r.store()
	if err != nil {
		return nil, err
	}
	return repositories.NewTokenRepository(db), nil
}

func (r *Runner) favorites() (*repositories.FavoriteRepository, error) {
	db, err := r.store()
	if err != nil {
		return nil, err
	}
	return repositories.NewFavoriteRepository(db), nil
}

// token returns the saved bearer token for role.
func (r *Runner) token(role string) (string, error) {
	repo, err := r.tokens()
	if err != nil {
		return "", err
	}
	tok, err := repo.GetByRole(role)
	if err != nil {
		return "", fmt.Errorf("%w: run 'sonata auth login --role %s' first", err, role)
	}
	return tok.Value(), nil
}

// categoryAdmin returns the category service authorized as the contributor.
func (r *Runner) categoryAdmin() (services.CategoryAdmin, error) {
	if r.categories != nil {
		return r.categories, nil
	}
	tok, err := r.token(shared.RoleContributor)
	if err != nil {
		return nil, err
	}
	return services.NewCategoryService(r.api.WithToken(tok)), nil
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
