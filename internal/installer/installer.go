// Package installer implements concurrent HTTPS fetch, atomic write, path
// sandboxing and install-state tracking. It is the only
// component that writes outside a process-scoped cache.
package installer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/config"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/metrics"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/telemetry"
)

// Options enumerates the install-time behavior flags: force-overwrite,
// dependency skipping, dry-run, parallel fetch, size verification, and
// whether to proceed despite unresolved required dependencies.
type Options struct {
	Force             bool
	SkipDependencies  bool
	DryRun            bool
	Parallel          bool
	VerifySize        bool
	AllowIncomplete   bool // override to execute an incomplete plan
}

// Phase identifies a step in a single resource's install for progress reporting.
type Phase string

const (
	PhaseFetching  Phase = "fetching"
	PhaseWriting   Phase = "writing"
	PhaseDone      Phase = "done"
	PhaseSkipped   Phase = "skipped"
	PhaseFailed    Phase = "failed"
)

// ProgressEvent is delivered to the optional progress callback.
type ProgressEvent struct {
	ResourceID string
	Phase      Phase
	Level      int
}

// ProgressFunc receives progress events. Implementations must not block.
type ProgressFunc func(ProgressEvent)

// Result is the per-resource outcome of an install.
type Result struct {
	Resource *model.Resource
	Path     string
	Skipped  bool // already installed, force=false
	Err      error
}

// Installer executes InstallPlans against the filesystem.
type Installer struct {
	installRoot string
	fetcher     *fetcher
	sem         chan struct{}
	audit       *auditLog
	log         *telemetry.FileSink
	totalTimeout time.Duration
}

// New builds an Installer rooted at installRoot.
func New(installRoot string, cfg config.InstallerConfig, client HTTPClient, log *telemetry.FileSink) *Installer {
	if client == nil {
		client = &http.Client{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Installer{
		installRoot:  installRoot,
		fetcher:      newFetcher(client, cfg.RetryBase, cfg.RetryFactor, cfg.RetryMaxAttempts, cfg.AttemptTimeout),
		sem:          make(chan struct{}, concurrency),
		audit:        newAuditLog(installRoot),
		log:          log,
		totalTimeout: cfg.TotalTimeout,
	}
}

// InstallPath returns the absolute, sandbox-validated target path for r.
func (in *Installer) InstallPath(r *model.Resource) (string, error) {
	return resolvePath(in.installRoot, r.InstallPath)
}

// IsInstalled consults the filesystem directly.
func (in *Installer) IsInstalled(r *model.Resource) bool {
	path, err := in.InstallPath(r)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Install installs resource and, unless SkipDependencies is set, its full
// plan. Level k is fully downloaded before any file in level k
// is committed; levels proceed strictly in order.
func (in *Installer) Install(ctx context.Context, plan *model.InstallPlan, opts Options, progress ProgressFunc) ([]Result, error) {
	if plan.Incomplete() && !opts.AllowIncomplete {
		return nil, crmerr.MissingDependency(fmt.Sprintf("%d missing required dependencies", len(plan.Missing)))
	}

	levels := plan.ToInstall
	if opts.SkipDependencies {
		levels = [][]*model.Resource{{plan.Target}}
	}

	if in.totalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.totalTimeout)
		defer cancel()
	}

	var all []Result
	for levelIdx, level := range levels {
		results := in.installLevel(ctx, levelIdx, level, opts, progress)
		all = append(all, results...)
		for _, r := range results {
			if r.Err != nil && !errIsSkip(r) {
				// Abort remaining levels; already-committed files from
				// earlier levels stay in place.
				return all, r.Err
			}
		}
	}
	return all, nil
}

// InstallMany runs Install independently for each plan, collecting all
// results.
func (in *Installer) InstallMany(ctx context.Context, plans []*model.InstallPlan, opts Options, progress ProgressFunc) [][]Result {
	out := make([][]Result, len(plans))
	for i, p := range plans {
		results, err := in.Install(ctx, p, opts, progress)
		if err != nil && len(results) == 0 {
			results = []Result{{Resource: p.Target, Err: err}}
		}
		out[i] = results
	}
	return out
}

func errIsSkip(r Result) bool { return r.Skipped }

type fetched struct {
	resource *model.Resource
	data     []byte
	err      error
}

func (in *Installer) installLevel(ctx context.Context, levelIdx int, level []*model.Resource, opts Options, progress ProgressFunc) []Result {
	fetchedItems := make([]fetched, len(level))

	if opts.Parallel {
		var wg sync.WaitGroup
		for i, r := range level {
			wg.Add(1)
			go func(i int, r *model.Resource) {
				defer wg.Done()
				fetchedItems[i] = in.fetchOne(ctx, levelIdx, r, opts, progress)
			}(i, r)
		}
		wg.Wait()
	} else {
		for i, r := range level {
			fetchedItems[i] = in.fetchOne(ctx, levelIdx, r, opts, progress)
		}
	}

	results := make([]Result, len(level))
	for i, f := range fetchedItems {
		results[i] = in.commitOne(f, opts, progress, levelIdx)
	}
	return results
}

func (in *Installer) fetchOne(ctx context.Context, levelIdx int, r *model.Resource, opts Options, progress ProgressFunc) fetched {
	if !opts.Force && in.IsInstalled(r) {
		return fetched{resource: r}
	}
	if opts.DryRun {
		return fetched{resource: r}
	}

	select {
	case in.sem <- struct{}{}:
		defer func() { <-in.sem }()
	case <-ctx.Done():
		return fetched{resource: r, err: crmerr.Cancelled}
	}

	emit(progress, r.ID, PhaseFetching, levelIdx)
	data, err := in.fetcher.fetch(ctx, r.Source.URL)
	if err != nil {
		return fetched{resource: r, err: err}
	}
	if opts.VerifySize && len(data) == 0 {
		return fetched{resource: r, err: crmerr.Network("empty response body", nil, nil)}
	}
	return fetched{resource: r, data: data}
}

func (in *Installer) commitOne(f fetched, opts Options, progress ProgressFunc, levelIdx int) Result {
	r := f.resource
	path, pathErr := in.InstallPath(r)
	if pathErr != nil {
		emit(progress, r.ID, PhaseFailed, levelIdx)
		return Result{Resource: r, Err: pathErr}
	}

	if f.err != nil {
		emit(progress, r.ID, PhaseFailed, levelIdx)
		metrics.InstallsTotal.WithLabelValues("failed").Inc()
		return Result{Resource: r, Path: path, Err: f.err}
	}
	if f.data == nil {
		// Already installed without --force, or dry-run: a no-op.
		if opts.DryRun {
			emit(progress, r.ID, PhaseDone, levelIdx)
			return Result{Resource: r, Path: path}
		}
		emit(progress, r.ID, PhaseSkipped, levelIdx)
		metrics.InstallsTotal.WithLabelValues("skipped").Inc()
		return Result{Resource: r, Path: path, Skipped: true}
	}

	emit(progress, r.ID, PhaseWriting, levelIdx)
	if err := atomicWrite(path, f.data); err != nil {
		emit(progress, r.ID, PhaseFailed, levelIdx)
		metrics.InstallsTotal.WithLabelValues("failed").Inc()
		return Result{Resource: r, Path: path, Err: err}
	}

	rec := model.InstallRecord{
		ID:            r.ID,
		CorrelationID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		InstallPath:   path,
		SourceURL:     r.Source.URL,
	}
	if err := in.audit.append(rec); err != nil && in.log != nil {
		in.log.Warnf(telemetry.CategoryInstaller, "failed to append audit record for %s: %v", r.ID, err)
	}

	emit(progress, r.ID, PhaseDone, levelIdx)
	metrics.InstallsTotal.WithLabelValues("ok").Inc()
	return Result{Resource: r, Path: path}
}

func emit(progress ProgressFunc, id string, phase Phase, level int) {
	if progress != nil {
		progress(ProgressEvent{ResourceID: id, Phase: phase, Level: level})
	}
}

// atomicWrite writes data to <final>.tmp in the same directory as final,
// then renames it into place, so a reader never observes a partial file.
// On any failure before rename the temp file is unlinked; if rename fails
// the temp file is unlinked and the error surfaced.
func atomicWrite(final string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return crmerr.PathSecurity(final, fmt.Sprintf("creating directory: %v", err))
	}
	tmp := final + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
