// Package service owns the active dataset and coordinates generation,
// loading, export, and history around it.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Krapic/examhub/internal/audit"
	"github.com/Krapic/examhub/internal/config"
	"github.com/Krapic/examhub/internal/csvio"
	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/ingest"
	"github.com/Krapic/examhub/internal/logging"
	"github.com/Krapic/examhub/internal/synth"
)

// ErrNoDataset is returned by queries before anything has been
// generated or loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// LimitError reports a generation request above the configured cap.
type LimitError struct {
	Requested int
	Max       int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("requested %d records, limit is %d", e.Requested, e.Max)
}

// Service holds one active dataset at a time. A successful generate or
// load replaces it; failures leave the previous dataset in place.
type Service struct {
	genCfg  config.GenerateConfig
	profile synth.Config
	audits  audit.Store
	cron    *cron.Cron

	mu     sync.RWMutex
	active *exam.Dataset
}

// New creates a Service with no active dataset.
func New(genCfg config.GenerateConfig, profile synth.Config, audits audit.Store) *Service {
	return &Service{
		genCfg:  genCfg,
		profile: profile,
		audits:  audits,
	}
}

// Generate creates a synthetic dataset and makes it active. A count of
// zero or less uses the configured default; counts above the configured
// maximum are rejected with a LimitError. A non-nil seed makes the
// output reproducible.
func (s *Service) Generate(ctx context.Context, count int, seed *int64) (*exam.Dataset, error) {
	count, err := s.clampCount(count)
	if err != nil {
		return nil, err
	}

	ds, err := s.generator(seed).Generate(count)
	s.record(ctx, audit.Params{Action: audit.ActionGenerate, Records: count, Err: err})
	if err != nil {
		return nil, err
	}

	s.swap(ds)
	return ds, nil
}

// GenerateAndSave generates like Generate and also writes the dataset
// to a timestamped CSV file under the export directory. It returns the
// dataset and the file path.
func (s *Service) GenerateAndSave(ctx context.Context, count int, seed *int64) (*exam.Dataset, string, error) {
	count, err := s.clampCount(count)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("generated_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.genCfg.ExportDir, name)

	ds, err := s.generator(seed).GenerateFile(path, count)
	s.record(ctx, audit.Params{Action: audit.ActionGenerate, Source: path, Records: count, Err: err})
	if err != nil {
		return nil, "", err
	}

	s.swap(ds)
	return ds, path, nil
}

func (s *Service) clampCount(count int) (int, error) {
	if count <= 0 {
		count = s.genCfg.DefaultCount
	}
	if count > s.genCfg.MaxCount {
		return 0, &LimitError{Requested: count, Max: s.genCfg.MaxCount}
	}
	return count, nil
}

func (s *Service) generator(seed *int64) synth.Generator {
	g := synth.Generator{Config: s.profile}
	if seed != nil {
		g.Rand = rand.New(rand.NewSource(*seed))
	}
	return g
}

// LoadUpload parses an uploaded CSV and makes it the active dataset.
// On failure the previous dataset stays active.
func (s *Service) LoadUpload(ctx context.Context, r io.Reader, filename string) (*exam.Dataset, error) {
	ds, err := ingest.Read(r, filename)

	records := 0
	if ds != nil {
		records = ds.Len()
	}
	s.record(ctx, audit.Params{Action: audit.ActionLoad, Source: filename, Records: records, Err: err})

	if err != nil {
		return nil, err
	}
	s.swap(ds)
	return ds, nil
}

// ProbeReader checks whether an uploaded CSV would load, without
// touching the active dataset or the history.
func (s *Service) ProbeReader(r io.Reader, filename string) (ok bool, reason string) {
	if _, err := ingest.Read(r, filename); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Active returns the current dataset, or ErrNoDataset.
func (s *Service) Active() (*exam.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil, ErrNoDataset
	}
	return s.active, nil
}

// Summary describes the active dataset without its records.
type Summary struct {
	Source            string      `json:"source,omitempty"`
	Records           int         `json:"records"`
	Terms             []string    `json:"terms"`
	GradeDistribution map[int]int `json:"gradeDistribution"`
}

// Summarize returns a Summary of the active dataset.
func (s *Service) Summarize() (Summary, error) {
	ds, err := s.Active()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Source:            ds.SourcePath(),
		Records:           ds.Len(),
		Terms:             ds.Terms(),
		GradeDistribution: ds.GradeDistribution(),
	}, nil
}

// ViewQuery narrows and orders the active dataset. Zero values leave
// the corresponding step out.
type ViewQuery struct {
	Term     string
	Grade    *int
	MinScore *int
	MaxScore *int
	Search   string
	Sort     string
	Desc     bool
}

func (q ViewQuery) apply(ds *exam.Dataset) (*exam.Dataset, error) {
	if q.Term != "" {
		ds = ds.FilterTerm(q.Term)
	}
	if q.Grade != nil {
		ds = ds.FilterGrade(*q.Grade)
	}
	if q.MinScore != nil || q.MaxScore != nil {
		min, max := exam.MinScore, exam.MaxScore
		if q.MinScore != nil {
			min = *q.MinScore
		}
		if q.MaxScore != nil {
			max = *q.MaxScore
		}
		ds = ds.FilterScoreRange(min, max)
	}
	if q.Search != "" {
		ds = ds.Search(q.Search)
	}
	if q.Sort != "" {
		key, err := exam.ParseSortKey(q.Sort)
		if err != nil {
			return nil, err
		}
		ds = ds.SortBy(key, q.Desc)
	}
	return ds, nil
}

// View applies q to the active dataset.
func (s *Service) View(q ViewQuery) (*exam.Dataset, error) {
	ds, err := s.Active()
	if err != nil {
		return nil, err
	}
	return q.apply(ds)
}

// Stats returns statistics for the active dataset.
func (s *Service) Stats() (exam.Statistics, error) {
	ds, err := s.Active()
	if err != nil {
		return exam.Statistics{}, err
	}
	return ds.Stats(), nil
}

// Export writes the view selected by q as CSV and returns how many
// records were written.
func (s *Service) Export(ctx context.Context, w io.Writer, q ViewQuery) (int, error) {
	ds, err := s.View(q)
	if err != nil {
		s.record(ctx, audit.Params{Action: audit.ActionExport, Err: err})
		return 0, err
	}

	err = csvio.Write(w, ds)
	s.record(ctx, audit.Params{Action: audit.ActionExport, Source: ds.SourcePath(), Records: ds.Len(), Err: err})
	if err != nil {
		return 0, err
	}
	return ds.Len(), nil
}

// History returns recent operations, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]audit.Entry, error) {
	return s.audits.Recent(ctx, limit)
}

// ClearHistory removes all recorded operations and returns how many
// were removed. The active dataset is untouched.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	return s.audits.PurgeOlderThan(ctx, 0)
}

// StartRetention schedules periodic purging of history entries older
// than maxAge. The schedule uses cron syntax ("@daily", "0 3 * * *").
func (s *Service) StartRetention(maxAge time.Duration, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		purged, err := s.audits.PurgeOlderThan(ctx, maxAge)
		if err != nil {
			slog.Error("history purge failed", "error", err)
			return
		}
		slog.Info("history purge completed", "entries_purged", purged, "max_age", maxAge.String())
	})
	if err != nil {
		return fmt.Errorf("schedule history purge: %w", err)
	}

	c.Start()
	s.cron = c
	slog.Info("history retention started", "max_age", maxAge.String(), "schedule", schedule)
	return nil
}

// Close stops the retention scheduler and waits for a running purge to
// finish.
func (s *Service) Close() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Service) swap(ds *exam.Dataset) {
	s.mu.Lock()
	s.active = ds
	s.mu.Unlock()
}

// record writes a history entry; storage failures are logged, not
// propagated, so history problems never fail the operation itself.
func (s *Service) record(ctx context.Context, p audit.Params) {
	if _, err := s.audits.Record(ctx, p); err != nil {
		logging.FromContext(ctx).Error("history entry not recorded",
			"action", string(p.Action), "error", err)
	}
}
