package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"arenafeed/lib/scrapers/arena"
	"arenafeed/lib/scrapers/catalog"
	"arenafeed/lib/telemetry"

	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("arenafeed.services.leaderboard")

// ErrWrite marks a failure to replace an output file. The previous
// file contents are left intact when it occurs.
var ErrWrite = fmt.Errorf("write failure")

// ModelRating is the per-model payload the frontend consumes. Field
// names match the published files exactly and must not change.
type ModelRating struct {
	Rating     float64 `json:"rating"`
	RatingQ975 float64 `json:"rating_q975"`
	RatingQ025 float64 `json:"rating_q025"`
}

// RatingsFromSnapshot converts a scraped snapshot into the published
// per-category map, expanding the rating uncertainty into quantile
// bounds.
func RatingsFromSnapshot(snapshot arena.Snapshot) map[string]ModelRating {
	ratings := make(map[string]ModelRating, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		ratings[entry.Model] = ModelRating{
			Rating:     entry.Rating,
			RatingQ975: entry.Rating + entry.Uncertainty,
			RatingQ025: entry.Rating - entry.Uncertainty,
		}
	}
	return ratings
}

type Options struct {
	// directory holding the published JSON files, defaults to "data"
	DataDir string
}

type Service struct {
	arena   *arena.Client
	catalog *catalog.Client
	dataDir string
}

func NewService(arenaClient *arena.Client, catalogClient *catalog.Client, opts Options) Service {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	return Service{
		arena:   arenaClient,
		catalog: catalogClient,
		dataDir: dataDir,
	}
}

type SkippedCategory struct {
	Category string
	Err      error
}

// FileReport is the outcome for one output file. A category in Skipped
// kept its previous values; Err set means the whole file could not be
// refreshed and was left untouched.
type FileReport struct {
	File    string
	Updated []string
	Skipped []SkippedCategory
	Err     error
}

func (r FileReport) Failed() bool {
	return r.Err != nil || len(r.Skipped) > 0
}

type Report struct {
	Files []FileReport
}

func (r Report) Failed() bool {
	for _, file := range r.Files {
		if file.Failed() {
			return true
		}
	}
	return false
}

// RefreshAll refreshes every given variant, continuing past per-file
// and per-category failures so one broken page cannot stall the rest
// of the published data.
func (s Service) RefreshAll(ctx context.Context, variants []Variant) Report {
	ctx, span := tracer.Start(ctx, "RefreshAll")
	defer span.End()

	var report Report
	if err := os.MkdirAll(s.dataDir, 0777); err != nil {
		span.SetStatus(codes.Error, "failed to create data directory")
		for _, v := range variants {
			report.Files = append(report.Files, FileReport{
				File: v.File(),
				Err:  fmt.Errorf("%w: create %s: %s", ErrWrite, s.dataDir, err),
			})
		}
		return report
	}

	for _, v := range variants {
		fileReport := s.refreshVariant(ctx, v)
		if fileReport.Err != nil {
			slog.ErrorContext(
				ctx, "failed to refresh leaderboard file",
				"file", fileReport.File,
				"err", fileReport.Err,
			)
		} else {
			slog.InfoContext(
				ctx, "refreshed leaderboard file",
				"file", fileReport.File,
				"updated", len(fileReport.Updated),
				"skipped", len(fileReport.Skipped),
			)
		}
		for _, skip := range fileReport.Skipped {
			slog.WarnContext(
				ctx, "kept existing values for category",
				"file", fileReport.File,
				"category", skip.Category,
				"err", skip.Err,
			)
		}
		report.Files = append(report.Files, fileReport)
	}
	return report
}

func (s Service) refreshVariant(ctx context.Context, v Variant) FileReport {
	ctx, span := tracer.Start(ctx, "refreshVariant")
	defer span.End()

	report := FileReport{File: v.File()}

	base, err := s.loadBaseData(ctx, v.File())
	if err != nil {
		span.SetStatus(codes.Error, "failed to load base data")
		report.Err = err
		return report
	}

	results, skipped := s.fetchCategories(ctx, v)
	report.Skipped = skipped
	for key, ratings := range results {
		raw, err := json.Marshal(ratings)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedCategory{Category: key, Err: err})
			continue
		}
		base[key] = raw
		report.Updated = append(report.Updated, key)
	}
	slices.Sort(report.Updated)
	slices.SortFunc(report.Skipped, func(a, b SkippedCategory) int {
		if a.Category < b.Category {
			return -1
		}
		if a.Category > b.Category {
			return 1
		}
		return 0
	})

	if len(report.Updated) == 0 && len(report.Skipped) > 0 {
		// every category failed, leave the published file untouched
		return report
	}

	payload, err := json.MarshalIndent(base, "", "    ")
	if err != nil {
		report.Err = fmt.Errorf("%w: %s", ErrWrite, err)
		return report
	}
	err = writeFileAtomic(filepath.Join(s.dataDir, v.File()), payload)
	if err != nil {
		span.SetStatus(codes.Error, "failed to write output file")
		report.Err = fmt.Errorf("%w: %s", ErrWrite, err)
		return report
	}
	return report
}

// loadBaseData prefers the local copy of an output file and falls back
// to the published catalog when none exists yet. Untouched categories
// pass through as raw JSON so their exact contents survive the rewrite.
func (s Service) loadBaseData(ctx context.Context, filename string) (map[string]json.RawMessage, error) {
	contents, err := os.ReadFile(filepath.Join(s.dataDir, filename))
	if os.IsNotExist(err) {
		slog.DebugContext(ctx, "no local base data, fetching from catalog", "file", filename)
		contents, err = s.catalog.FetchFile(ctx, filename)
	}
	if err != nil {
		return nil, err
	}

	base := map[string]json.RawMessage{}
	err = json.Unmarshal(contents, &base)
	if err != nil {
		return nil, fmt.Errorf("%w: base data for %s: %s", arena.ErrParse, filename, err)
	}
	return base, nil
}

// fetchCategories scrapes every category of a variant concurrently.
// Each category owns its own slot in the result map, so collection only
// needs a join plus a lock around the shared slices.
func (s Service) fetchCategories(ctx context.Context, v Variant) (map[string]map[string]ModelRating, []SkippedCategory) {
	results := map[string]map[string]ModelRating{}
	var skipped []SkippedCategory
	lock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for key, slug := range v.Categories {
		wg.Add(1)
		go func(key, slug string) {
			defer wg.Done()

			snapshot, err := s.arena.FetchLeaderboard(ctx, v.LeaderboardPath(slug))

			lock.Lock()
			defer lock.Unlock()
			if err != nil {
				skipped = append(skipped, SkippedCategory{Category: key, Err: err})
				return
			}
			if len(snapshot.Rejected) > 0 {
				slog.WarnContext(
					ctx, "excluded malformed leaderboard rows",
					"file", v.File(),
					"category", key,
					"rows", len(snapshot.Rejected),
				)
			}
			results[key] = RatingsFromSnapshot(snapshot)
		}(key, slug)
	}
	wg.Wait()

	return results, skipped
}
