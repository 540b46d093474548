// Package processor orchestrates the per-file pipeline: load, validate,
// fix, backup, persist. Batch runs process files independently so one
// failure never aborts the rest.
package processor

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/engine"
)

// Options control one processing run.
type Options struct {
	// FixErrors applies fixable violations and persists the result.
	FixErrors bool
	// CreateBackup copies the original before any destructive write.
	CreateBackup bool
	// SkipCorrupted downgrades load failures to a skipped result instead
	// of an error, so batch callers continue with the next file.
	SkipCorrupted bool
}

// Processor runs the rule engine over documents.
type Processor struct {
	engine  *engine.Engine
	loader  *docio.Loader
	backups *docio.Backups
	log     *slog.Logger
}

func New(eng *engine.Engine, loader *docio.Loader, backups *docio.Backups, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	if backups == nil {
		backups = &docio.Backups{}
	}
	return &Processor{engine: eng, loader: loader, backups: backups, log: log}
}

// ValidateOnly loads and validates path without mutating or persisting
// anything. A load failure with skipCorrupted set returns a result with
// Corrupted true and a nil error.
func (p *Processor) ValidateOnly(path string, skipCorrupted bool) (ValidationResult, error) {
	m, err := p.loader.Load(path)
	if err != nil {
		return p.loadFailure(path, err, skipCorrupted)
	}
	vs := p.engine.Apply(m, false)
	res := newValidationResult(path, vs, false)
	p.log.Info("validated", "path", path, "violations", len(vs))
	return res, nil
}

// Process validates path and, when fixing is requested and the model was
// mutated, persists it back after an optional backup. A backup failure
// blocks persistence and leaves the original untouched.
func (p *Processor) Process(path string, opts Options) (ProcessResult, error) {
	m, err := p.loader.Load(path)
	if err != nil {
		vr, err := p.loadFailure(path, err, opts.SkipCorrupted)
		return ProcessResult{ValidationResult: vr}, err
	}

	vs := p.engine.Apply(m, opts.FixErrors)
	res := ProcessResult{ValidationResult: newValidationResult(path, vs, false)}

	if !opts.FixErrors || !m.Dirty() {
		return res, nil
	}

	if opts.CreateBackup {
		backupPath, err := p.backups.Create(path)
		if err != nil {
			res.Success = false
			res.Message = "backup failed; document not persisted"
			return res, &BackupError{Path: path, Err: err}
		}
		res.BackupPath = backupPath
		p.log.Info("backup created", "path", path, "backup", backupPath)
	}

	if err := m.Save(path); err != nil {
		res.Success = false
		res.Message = "persist failed"
		return res, &PersistError{Path: path, Err: err}
	}
	res.Persisted = true
	p.log.Info("persisted", "path", path, "fixed", res.Fixed)
	return res, nil
}

func (p *Processor) loadFailure(path string, err error, skip bool) (ValidationResult, error) {
	if skip {
		p.log.Warn("skipping corrupted document", "path", path, "error", err)
		res := newValidationResult(path, nil, true)
		return res, nil
	}
	res := newValidationResult(path, nil, false)
	res.Success = false
	res.Message = err.Error()
	return res, err
}

// ProcessAll runs Process over paths with bounded parallelism. Results are
// keyed by input order. Per-file failures are captured in the results and
// never abort the batch; cancelling the context stops new files from
// starting but lets in-flight files finish.
func (p *Processor) ProcessAll(ctx context.Context, paths []string, opts Options, workers int) ([]ProcessResult, BatchSummary) {
	if workers < 1 {
		workers = 1
	}
	results := make([]ProcessResult, len(paths))

	// The same path may appear more than once; serialize its runs so two
	// workers never fix the same file concurrently.
	locks := make(map[string]*sync.Mutex, len(paths))
	for _, pth := range paths {
		if locks[pth] == nil {
			locks[pth] = &sync.Mutex{}
		}
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, pth := range paths {
		i, pth := i, pth
		eg.Go(func() error {
			if ctx.Err() != nil {
				res := newValidationResult(pth, nil, false)
				res.Success = false
				res.Message = "batch cancelled before this file was started"
				results[i] = ProcessResult{ValidationResult: res}
				return nil
			}
			mu := locks[pth]
			mu.Lock()
			defer mu.Unlock()

			res, err := p.Process(pth, opts)
			if err != nil {
				p.log.Error("file failed", "path", pth, "error", err)
				if res.Message == "" {
					res.Message = err.Error()
				}
				res.Success = false
			}
			results[i] = res
			return nil
		})
	}
	eg.Wait()

	summary := Summarize(results)
	p.log.Info("batch complete", "summary", summary.String())
	return results, summary
}
