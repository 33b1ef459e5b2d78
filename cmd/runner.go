package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/archive"
	"github.com/desertthunder/spotzip/internal/export"
	"github.com/desertthunder/spotzip/internal/models"
	"github.com/desertthunder/spotzip/internal/repositories"
	"github.com/desertthunder/spotzip/internal/server"
	"github.com/desertthunder/spotzip/internal/shared"
	"github.com/desertthunder/spotzip/internal/spotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
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

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, exportCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig swaps in the config file named by the --config flag when it
// exists; the embedded defaults (plus env overrides) apply otherwise. A
// file that exists but cannot be loaded fails the command.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return nil
	}

	config, err := shared.LoadConfig(path)
	if errors.Is(err, shared.ErrMissingConfig) {
		return nil
	}
	if err != nil {
		return err
	}

	r.config = config
	return nil
}

// newExporter wires the Spotify client and export engine from config.
func (r *Runner) newExporter() *export.Exporter {
	httpClient := &http.Client{}
	if secs := r.config.Spotify.TimeoutSeconds; secs > 0 {
		httpClient.Timeout = time.Duration(secs) * time.Second
	}

	client := spotify.NewClient("", httpClient, shared.WithLogger(r.logger, "component", "spotify"))

	return export.New(client, shared.WithLogger(r.logger, "component", "export"), export.Options{
		Workers:   r.config.Export.Workers,
		RateLimit: r.config.Export.RateLimit,
	})
}

// oauthConfig builds the authorization-code flow configuration from the
// credentials section.
func (r *Runner) oauthConfig() (*oauth2.Config, error) {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       server.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}, nil
}

// openHistory opens the export-history database when one is configured.
func (r *Runner) openHistory() (*sql.DB, *repositories.ExportRunRepository, error) {
	path := r.config.Database.Path
	if path == "" {
		return nil, nil, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, repositories.NewExportRunRepository(db), nil
}

// Serve runs the export web service until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	oauthConfig, err := r.oauthConfig()
	if err != nil {
		return err
	}

	db, runs, err := r.openHistory()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(shared.WithLogger(r.logger, "component", "http")))
	router.Handler(&server.IndexHandler{})
	router.Handler(server.NewOAuthHandler(oauthConfig, shared.WithLogger(r.logger, "component", "oauth")))
	router.Handler(server.NewExportHandler(r.newExporter(), runs, shared.WithLogger(r.logger, "component", "export")))

	srv := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	errs := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Export runs a one-shot export to a local zip file using an access token
// obtained elsewhere.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	req := models.ExportRequest{
		UserID:     cmd.String("user"),
		PlaylistID: cmd.String("playlist"),
	}

	output := cmd.String("output")
	flush := func(results []models.PlaylistResult) error {
		if output == "" {
			output = archive.Name(results)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create archive file: %w", err)
		}

		if err := archive.Write(f, results); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	summary, err := r.newExporter().Export(ctx, cmd.String("token"), req, flush)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.output, "wrote %s: %d playlists (%d failed), %d tracks in %d ms\n",
		output, summary.Succeeded, summary.Failed, summary.Tracks, summary.Elapsed.Milliseconds())
	return nil
}

// Setup writes a starter config file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	fmt.Fprintf(r.output, "created %s\n", path)
	return nil
}
