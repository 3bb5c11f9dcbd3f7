package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/services"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/moviesir/moviesir/internal/storage"
	"github.com/moviesir/moviesir/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	sessions   *storage.SessionStore
	client     *services.Client
	auth       *services.AuthService
	movies     *services.MovieService
	users      *services.UserService
	onboarding *services.OnboardingService
	engine     *tasks.ProfileEngine
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Sessions   *storage.SessionStore
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

	var sessions services.SessionSource
	if opts.Sessions != nil {
		sessions = opts.Sessions
	}
	client := services.NewClient(opts.Config.API.BaseURL, opts.HTTPClient, sessions, opts.Logger)
	movies := services.NewMovieService(client, opts.Logger)

	return &Runner{
		config:     opts.Config,
		sessions:   opts.Sessions,
		client:     client,
		auth:       services.NewAuthService(client, opts.Logger),
		movies:     movies,
		users:      services.NewUserService(client, opts.Logger),
		onboarding: services.NewOnboardingService(client, opts.Logger),
		engine:     tasks.NewProfileEngine(movies),
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, recommendCommand, historyCommand, profileCommand, onboardCommand, chatCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// currentUser returns the signed-in user or an error telling the caller to log in.
func (r *Runner) currentUser() (*models.User, error) {
	user := r.auth.CurrentUser()
	if user == nil {
		return nil, fmt.Errorf("%w: run 'moviesir auth login' first", shared.ErrNotAuthenticated)
	}
	return user, nil
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
