package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cratedig/internal/artsource/baked"
	"cratedig/internal/artsource/deezer"
	"cratedig/internal/artsource/direct"
	"cratedig/internal/artsource/itunes"
	"cratedig/internal/artsource/musicbrainz"
	"cratedig/internal/domain"
	"cratedig/internal/importer"
	"cratedig/internal/log"
	"cratedig/internal/normalize"
	"cratedig/internal/resolver"
	"cratedig/internal/store"
)

const (
	defaultWorkers = 3
	pace           = 120 * time.Millisecond
)

func main() {
	var sheet, file, out string
	var download bool
	var workers int
	flag.StringVar(&sheet, "sheet", "", "published spreadsheet CSV URL")
	flag.StringVar(&file, "file", "", "local CSV or JSON collection file")
	flag.StringVar(&out, "out", "art-index.json", "output index path")
	flag.BoolVar(&download, "download", false, "download covers next to the index")
	flag.IntVar(&workers, "workers", defaultWorkers, "concurrent lookups")
	flag.Parse()

	if sheet == "" && file == "" {
		fmt.Fprintln(os.Stderr, "Error: -sheet or -file is required")
		os.Exit(1)
	}

	if err := run(sheet, file, out, download, workers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sheet, file, out string, download bool, workers int) error {
	logger := log.NullLogger()
	slog.SetDefault(logger)

	records, err := loadRecords(sheet, file, logger)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d records\n", len(records))

	// Re-baking is incremental; rows already in the index are kept.
	index := loadExisting(out)

	artStore, err := store.Open("")
	if err != nil {
		return fmt.Errorf("failed to open art store: %w", err)
	}
	defer artStore.Close()

	mb := musicbrainz.NewClient(musicbrainz.DefaultBaseURL, musicbrainz.DefaultArchiveURL, logger)
	engine := resolver.New([]domain.ArtProvider{
		direct.New(true),
		itunes.NewClient(itunes.DefaultBaseURL, logger),
		deezer.NewClient(deezer.DefaultBaseURL, logger),
		mb,
	}, artStore, logger)

	var mu sync.Mutex
	var found, missed, skipped int

	// Shared dispatch ticker keeps the upstream APIs happy.
	ticker := time.NewTicker(pace)
	defer ticker.Stop()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for _, rec := range records {
		rec := rec
		if !rec.Searchable() {
			skipped++
			continue
		}
		key := rec.Artist + "|||" + rec.Title
		if _, ok := index[key]; ok {
			skipped++
			continue
		}

		g.Go(func() error {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}

			res, err := engine.Resolve(ctx, rec, false)
			if err != nil {
				if errors.Is(err, domain.ErrNoArtFound) {
					mu.Lock()
					missed++
					mu.Unlock()
					fmt.Printf("  miss  %s - %s\n", rec.Artist, rec.Title)
					return nil
				}
				return err
			}

			genre := rec.Genre
			if genre == "" {
				genre = res.Genre
			}
			if genre == "" {
				genre = lookupGenre(ctx, mb, rec)
			}

			mu.Lock()
			index[key] = baked.Entry{URL: res.URL, Src: res.Source, Genre: genre}
			found++
			mu.Unlock()
			fmt.Printf("  ok    %s - %s (%s)\n", rec.Artist, rec.Title, res.Source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if download {
		if err := downloadCovers(index, filepath.Dir(out)); err != nil {
			return err
		}
	}

	if err := writeIndex(out, index); err != nil {
		return err
	}
	fmt.Printf("baked %d entries (%d new, %d missing, %d skipped) to %s\n",
		len(index), found, missed, skipped, out)
	return nil
}

func loadRecords(sheet, file string, logger *slog.Logger) ([]*domain.Record, error) {
	var rows []map[string]string
	var err error
	if file != "" {
		rows, err = loadFile(file)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rows, err = importer.NewSheetClient(logger).Fetch(ctx, sheet)
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

func loadExisting(path string) map[string]baked.Entry {
	index := make(map[string]baked.Entry)
	data, err := os.ReadFile(path)
	if err != nil {
		return index
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return make(map[string]baked.Entry)
	}
	return index
}

// lookupGenre asks MusicBrainz for release-group tags and maps them onto
// the coarse genre set.
func lookupGenre(ctx context.Context, mb *musicbrainz.Client, rec *domain.Record) string {
	rgid, err := mb.ReleaseGroupID(ctx, rec.Artist, rec.Title)
	if err != nil || rgid == "" {
		return ""
	}
	tags, err := mb.GenreTags(ctx, rgid)
	if err != nil {
		return ""
	}
	return musicbrainz.GenreForTags(tags)
}

// downloadCovers fetches every indexed image into covers/ beside the
// index and rewrites the entry URLs to the local relative path.
func downloadCovers(index map[string]baked.Entry, dir string) error {
	coversDir := filepath.Join(dir, "covers")
	if err := os.MkdirAll(coversDir, 0o755); err != nil {
		return fmt.Errorf("failed to create covers dir: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for key, entry := range index {
		if entry.URL == "" || strings.HasPrefix(entry.URL, "covers/") {
			continue
		}
		name := slug(key) + extFor(entry.URL)
		local := filepath.Join(coversDir, name)
		if err := fetchFile(client, entry.URL, local); err != nil {
			fmt.Printf("  skip download %s: %v\n", key, err)
			continue
		}
		entry.URL = "covers/" + name
		index[key] = entry
	}
	return nil
}

func fetchFile(client *http.Client, url, dest string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func extFor(url string) string {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".jpg"
}

func writeIndex(path string, index map[string]baked.Entry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
