package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spritesoftware/node-gtfs/internal/archive"
	"github.com/spritesoftware/node-gtfs/internal/config"
	"github.com/spritesoftware/node-gtfs/internal/gtfs"
	"github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"github.com/spritesoftware/node-gtfs/pkg/metrics"
	"go.uber.org/zap"
)

type Stage string

const (
	StageCleanWorkspace Stage = "clean-workspace"
	StageFetchArchive   Stage = "fetch-archive"
	StagePurgeExisting  Stage = "purge-existing"
	StageImportAll      Stage = "import-all"
	StagePostProcess    Stage = "post-process"
)

const archiveName = "latest.zip"

// Fetcher downloads the archive at url into dst.
type Fetcher interface {
	Fetch(ctx context.Context, url string, dst string) error
}

// Result is the outcome of one agency import.
type Result struct {
	Agency   config.Agency
	RunID    uuid.UUID
	Files    []FileResult
	Records  int64
	Bounds   *model.Bounds
	Duration time.Duration
	// FailedStage is empty when the import succeeded.
	FailedStage Stage
	Err         error
}

func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Pipeline runs the import stages of one agency.
type Pipeline struct {
	store     store.Store
	fetcher   Fetcher
	workspace string
}

func NewPipeline(s store.Store, fetcher Fetcher, workspace string) *Pipeline {
	return &Pipeline{store: s, fetcher: fetcher, workspace: workspace}
}

// run holds the state of one pipeline execution.
type run struct {
	agency   config.Agency
	scratch  string
	importer *FileImporter
	result   *Result
	log      *zap.SugaredLogger
}

type stage struct {
	name Stage
	fn   func(ctx context.Context, r *run) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{StageCleanWorkspace, p.cleanWorkspace},
		{StageFetchArchive, p.fetchArchive},
		{StagePurgeExisting, p.purgeExisting},
		{StageImportAll, p.importAll},
		{StagePostProcess, p.postProcess},
		{StageCleanWorkspace, p.cleanWorkspace},
	}
}

// Run imports one agency. The first failing stage stops the remaining ones;
// the failure is reported in the result and never escapes as a panic.
func (p *Pipeline) Run(ctx context.Context, agency config.Agency) (result Result) {
	start := time.Now()
	result = Result{Agency: agency}

	r := &run{
		agency:   agency,
		scratch:  filepath.Join(p.workspace, agency.Key),
		importer: NewFileImporter(p.store, agency.Key, filepath.Join(p.workspace, agency.Key)),
		result:   &result,
		log:      zap.S().Named("pipeline").With("agency", agency.Key),
	}

	importRun := p.startRun(ctx, r)

	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Errorf("import panicked: %v", rec)
		}
		result.Duration = time.Since(start)
		p.finishRun(ctx, r, importRun)

		if result.Err != nil {
			metrics.IncreaseAgenciesTotalMetric(metrics.OutcomeFailed)
			r.log.Errorw("agency import failed", "stage", result.FailedStage, "error", result.Err, "duration", result.Duration)
			return
		}
		metrics.IncreaseAgenciesTotalMetric(metrics.OutcomeSucceeded)
		r.log.Infow("agency import completed", "records", result.Records, "duration", result.Duration)
	}()

	for _, s := range p.stages() {
		result.FailedStage = s.name
		r.log.Debugw("starting stage", "stage", s.name)

		stageStart := time.Now()
		err := s.fn(ctx, r)
		metrics.ObserveStageDurationMetric(string(s.name), time.Since(stageStart))

		if err != nil {
			result.Err = NewErrStageFailed(s.name, err)
			return result
		}
	}
	result.FailedStage = ""

	return result
}

func (p *Pipeline) cleanWorkspace(_ context.Context, r *run) error {
	if err := p.checkScratch(r); err != nil {
		return err
	}
	if err := os.RemoveAll(r.scratch); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.MkdirAll(r.scratch, 0o755)
}

// checkScratch makes sure the scratch directory is a direct child of the
// workspace before anything under it is removed.
func (p *Pipeline) checkScratch(r *run) error {
	if !config.SafeKey(r.agency.Key) {
		return fmt.Errorf("%w: %q", config.ErrInvalidAgencyKey, r.agency.Key)
	}
	rel, err := filepath.Rel(p.workspace, r.scratch)
	if err != nil || rel != r.agency.Key {
		return fmt.Errorf("%w: scratch %q is outside workspace %q", config.ErrInvalidAgencyKey, r.scratch, p.workspace)
	}
	return nil
}

func (p *Pipeline) fetchArchive(ctx context.Context, r *run) error {
	r.log.Infow("downloading", "url", r.agency.URL)

	dst := filepath.Join(r.scratch, archiveName)
	if err := p.fetcher.Fetch(ctx, r.agency.URL, dst); err != nil {
		return err
	}

	files, err := archive.Unzip(dst, r.scratch)
	if err != nil {
		return err
	}
	r.log.Debugw("archive unpacked", "files", len(files))
	return nil
}

// purgeExisting removes everything previously imported for the agency in a
// single transaction.
func (p *Pipeline) purgeExisting(ctx context.Context, r *run) error {
	r.log.Infow("removing old data")

	txCtx, err := p.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}

	for _, table := range gtfs.Collections() {
		n, err := p.store.Records().DeleteByAgencyKey(txCtx, table, r.agency.Key)
		if err != nil {
			if _, rbErr := store.Rollback(txCtx); rbErr != nil {
				r.log.Warnw("failed to roll back purge", "error", rbErr)
			}
			return err
		}
		if n > 0 {
			r.log.Debugw("purged", "table", table, "rows", n)
		}
	}

	_, err = store.Commit(txCtx)
	return err
}

func (p *Pipeline) importAll(ctx context.Context, r *run) error {
	files, err := r.importer.ImportAll(ctx)
	r.result.Files = files
	for _, f := range files {
		r.result.Records += int64(f.Rows)
	}
	return err
}

func (p *Pipeline) postProcess(ctx context.Context, r *run) error {
	if err := p.agencyCenter(ctx, r); err != nil {
		return err
	}
	return p.longestTrip(ctx, r)
}

func (p *Pipeline) agencyCenter(ctx context.Context, r *run) error {
	bounds, ok := r.importer.Bounds()
	if !ok {
		r.log.Infow("no locations in feed, agency bounds left unset")
		return nil
	}
	r.result.Bounds = &bounds

	n, err := p.store.Agency().UpdateBounds(ctx, r.agency.Key, bounds, bounds.Center())
	if err != nil {
		return err
	}
	r.log.Debugw("agency bounds updated", "rows", n, "sw", bounds.SW, "ne", bounds.NE)
	return nil
}

// longestTrip is reserved for a per-agency longest trip aggregate.
func (p *Pipeline) longestTrip(_ context.Context, _ *run) error {
	return nil
}

// startRun records the execution in the import run ledger. Ledger failures
// are logged and do not stop the import.
func (p *Pipeline) startRun(ctx context.Context, r *run) *model.ImportRun {
	importRun, err := p.store.ImportRun().Create(ctx, model.ImportRun{
		AgencyKey: r.agency.Key,
		URL:       r.agency.URL,
		Status:    model.ImportRunStatusRunning,
		StartedAt: time.Now(),
	})
	if err != nil {
		r.log.Warnw("failed to record import run", "error", err)
		return nil
	}
	r.result.RunID = importRun.ID
	return importRun
}

func (p *Pipeline) finishRun(ctx context.Context, r *run, importRun *model.ImportRun) {
	if importRun == nil {
		return
	}

	finished := time.Now()
	importRun.FinishedAt = &finished
	importRun.RecordCount = r.result.Records
	importRun.Status = model.ImportRunStatusCompleted
	importRun.Stage = ""
	if r.result.Err != nil {
		msg := r.result.Err.Error()
		importRun.Status = model.ImportRunStatusFailed
		importRun.Stage = string(r.result.FailedStage)
		importRun.Error = &msg
	}

	// the ledger is written even when ctx was cancelled
	if _, err := p.store.ImportRun().Update(context.WithoutCancel(ctx), *importRun); err != nil {
		r.log.Warnw("failed to update import run", "error", err)
	}
}
