package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"cratedig/internal/artsource/baked"
	"cratedig/internal/artsource/deezer"
	"cratedig/internal/artsource/direct"
	"cratedig/internal/artsource/itunes"
	"cratedig/internal/artsource/musicbrainz"
	"cratedig/internal/collection"
	"cratedig/internal/config"
	"cratedig/internal/domain"
	"cratedig/internal/importer"
	"cratedig/internal/log"
	"cratedig/internal/normalize"
	"cratedig/internal/resolver"
	"cratedig/internal/store"
	"cratedig/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var file, sheet string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&file, "file", "", "local CSV or JSON collection file")
	flag.StringVar(&sheet, "sheet", "", "published spreadsheet CSV URL")
	flag.Parse()

	if showVersion {
		fmt.Printf("cratedig %s\n", Version)
		return
	}

	if err := run(file, sheet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, sheet string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if file != "" {
		cfg.Source.File = file
		cfg.Source.SheetURL = ""
	}
	if sheet != "" {
		cfg.Source.SheetURL = sheet
	}
	if !cfg.HasSource() {
		return fmt.Errorf("no collection source configured; use -file or -sheet, or set source in the config file")
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting cratedig", "version", Version)

	artStore, err := store.Open(cfg.Artwork.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to open art store: %w", err)
	}
	defer artStore.Close()

	engine := resolver.New(buildProviders(cfg, logger), artStore, logger)
	queue := resolver.NewQueue(cfg.Artwork.Workers, time.Duration(cfg.Artwork.PaceMS)*time.Millisecond, logger)

	svc := collection.NewService(logger)
	tracker := collection.NewTracker(engine, artStore, queue, logger)
	tracker.SetLookAhead(cfg.UI.LookAhead)

	records, err := loadCollection(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("collection loaded", "records", len(records))

	svc.SetCollection(records)
	tracker.SetRecords(svc.Filtered())

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runHeadless(svc, tracker)
	}

	model := tui.New(svc, tracker, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// buildProviders assembles the artwork sources in priority order. With
// smart fallback off only the baked index and direct cover URLs remain.
func buildProviders(cfg *config.Config, logger *slog.Logger) []domain.ArtProvider {
	providers := []domain.ArtProvider{}
	if cfg.Artwork.IndexPath != "" {
		providers = append(providers, baked.New(cfg.Artwork.IndexPath, logger))
	}
	providers = append(providers, direct.New(cfg.Artwork.ProxyOnFail))
	if cfg.Artwork.SmartFallback {
		providers = append(providers,
			itunes.NewClient(itunes.DefaultBaseURL, logger),
			deezer.NewClient(deezer.DefaultBaseURL, logger),
			musicbrainz.NewClient(musicbrainz.DefaultBaseURL, musicbrainz.DefaultArchiveURL, logger),
		)
	}
	return providers
}

// loadCollection reads rows from the configured source and maps them
// into records. A local file wins over the sheet URL.
func loadCollection(cfg *config.Config, logger *slog.Logger) ([]*domain.Record, error) {
	var rows []map[string]string
	var err error

	switch {
	case cfg.Source.File != "":
		rows, err = loadFile(cfg.Source.File)
	case cfg.Source.SheetURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rows, err = importer.NewSheetClient(logger).Fetch(ctx, cfg.Source.SheetURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return normalize.MapRecords(rows), nil
}

func loadFile(path string) ([]map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return importer.ParseJSON(data)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.ParseCSV(f)
}

// runHeadless resolves artwork for the whole collection and prints a
// summary. Useful for cron warming of the cache.
func runHeadless(svc *collection.Service, tracker *collection.Tracker) error {
	// No renderer competes for the records here, so results can be applied
	// straight from the worker callbacks.
	tracker.OnResolved(func(rec *domain.Record, res resolver.Result) {
		collection.ApplyResult(rec, res)
	})
	tracker.ScheduleAll()
	tracker.Wait()

	st := svc.Stats()
	fmt.Printf("records: %d\n", st.Total)
	fmt.Printf("artwork: %d found, %d missing\n", st.WithCover, st.Missing)
	return nil
}
