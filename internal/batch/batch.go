// Package batch validates whole directory trees of generated UI source:
// it walks roots, detects each file's framework, validates files on a
// bounded worker pool and aggregates results in stable path order.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/uivet/uivet/internal/store"
	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/imports"
	"github.com/uivet/uivet/pkg/syntax"
	"github.com/uivet/uivet/pkg/validator"
)

// defaultMaxFileBytes bounds a single file read. Generated snippets are
// small; anything over this is not a snippet worth structural checking.
const defaultMaxFileBytes = 1 << 20

// FileResult is one file's validation outcome.
type FileResult struct {
	Path      string               `json:"path"`
	Framework frameworks.Framework `json:"framework"`
	Result    validator.Result     `json:"result"`
	FromCache bool                 `json:"from_cache,omitempty"`
}

// Summary aggregates a run for the closing log line.
type Summary struct {
	Files     int
	Valid     int
	Errors    int
	Warnings  int
	Bytes     int64
	CacheHits int
	Duration  time.Duration
}

// String renders the summary with humanized counts.
func (s Summary) String() string {
	return fmt.Sprintf("%s files (%s), %d valid, %d errors, %d warnings, %d cache hits in %s",
		humanize.Comma(int64(s.Files)),
		humanize.Bytes(uint64(s.Bytes)), //nolint:gosec // byte totals never approach the sign bit
		s.Valid,
		s.Errors,
		s.Warnings,
		s.CacheHits,
		s.Duration.Round(time.Millisecond),
	)
}

// sourceParser is implemented by syntax engines that can refine grammar
// selection with a filename hint.
type sourceParser interface {
	CheckSource(ctx context.Context, code string, fw frameworks.Framework, filename string) ([]syntax.Diagnostic, error)
}

// Runner validates file trees. Zero-value fields take defaults in Run.
type Runner struct {
	// Parser is the syntax-phase collaborator. Nil uses the lexical engine.
	Parser syntax.Parser

	// Patterns is the import vocabulary. Nil uses the builtin table.
	Patterns imports.Table

	// Framework forces one framework for every file instead of detection.
	Framework frameworks.Framework

	// Cache skips revalidation of unchanged content when non-nil.
	Cache *store.Cache

	// Logger receives per-file debug and skip messages. Nil discards.
	Logger *slog.Logger

	// Workers bounds the pool. Zero means GOMAXPROCS.
	Workers int

	// MaxFileBytes bounds a single file. Zero means the 1 MiB default.
	MaxFileBytes int64

	// Extensions overrides the supported extension list.
	Extensions []string

	// FailFast stops scheduling new files after the first invalid one.
	FailFast bool
}

// Run walks roots and validates every supported file. Results come back
// sorted by path regardless of worker completion order. The error is
// reserved for walk and read faults; validation findings live in the
// results.
func (r *Runner) Run(ctx context.Context, roots []string) ([]FileResult, Summary, error) {
	start := time.Now()

	paths, err := r.collect(roots)
	if err != nil {
		return nil, Summary{}, err
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var (
		wg        sync.WaitGroup
		stopped   atomic.Bool
		bytes     atomic.Int64
		hits      atomic.Int64
		faultOnce sync.Once
		fault     error
	)

	for range r.workers() {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				result, size, fromCache, validateErr := r.validateFile(ctx, paths[idx])
				if validateErr != nil {
					faultOnce.Do(func() {
						fault = fmt.Errorf("%s: %w", paths[idx], validateErr)
					})
					stopped.Store(true)

					continue
				}

				results[idx] = result
				bytes.Add(size)

				if fromCache {
					hits.Add(1)
				}

				if r.FailFast && !result.Result.Valid {
					stopped.Store(true)
				}
			}
		}()
	}

scheduling:
	for idx := range paths {
		if stopped.Load() || ctx.Err() != nil {
			break
		}

		select {
		case jobs <- idx:
		case <-ctx.Done():
			break scheduling
		}
	}

	close(jobs)
	wg.Wait()

	if fault != nil {
		return nil, Summary{}, fault
	}

	results = slices.DeleteFunc(results, func(fr FileResult) bool {
		return fr.Path == ""
	})

	summary := summarize(results, bytes.Load(), int(hits.Load()), time.Since(start))

	return results, summary, ctx.Err()
}

// collect walks roots and returns the supported files in sorted order.
// A root that is itself a file bypasses the extension filter: the caller
// named it explicitly.
func (r *Runner) collect(roots []string) ([]string, error) {
	var paths []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			paths = append(paths, root)

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() || !r.supported(path) {
				return nil
			}

			paths = append(paths, path)

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	slices.Sort(paths)

	return slices.Compact(paths), nil
}

// validateFile reads, detects and validates one file. Read failures and
// oversized files become invalid results rather than run-level errors so
// one bad file never aborts a batch. The error return is reserved for a
// syntax-engine fault, which does abort the run.
func (r *Runner) validateFile(ctx context.Context, path string) (FileResult, int64, bool, error) {
	content, err := r.readBounded(path)
	if err != nil {
		return FileResult{
			Path:      path,
			Framework: frameworks.Vanilla,
			Result: validator.Result{
				Errors:   []string{err.Error()},
				Warnings: []string{},
			},
		}, 0, false, nil
	}

	fw := r.Framework
	if fw == "" {
		detected, ok := frameworks.DetectFile(path, content)
		if !ok {
			detected = frameworks.Vanilla
		}

		fw = detected
	}

	hash := store.HashContent(content)

	if r.Cache != nil {
		if cached, ok := r.Cache.Get(hash, fw); ok {
			r.logDebug("cache hit", "path", path)

			return FileResult{Path: path, Framework: fw, Result: cached, FromCache: true}, int64(len(content)), true, nil
		}
	}

	result, validateErr := r.newValidator(path).ValidateE(ctx, string(content), fw)
	if validateErr != nil {
		return FileResult{}, 0, false, validateErr
	}

	if r.Cache != nil {
		putErr := r.Cache.Put(hash, fw, result)
		if putErr != nil {
			r.logDebug("cache write failed", "path", path, "error", putErr)
		}
	}

	return FileResult{Path: path, Framework: fw, Result: result}, int64(len(content)), false, nil
}

// newValidator builds the per-file validator, threading the filename to
// engines that select grammars by extension.
func (r *Runner) newValidator(path string) *validator.Validator {
	opts := make([]validator.Option, 0, 2)

	if r.Parser != nil {
		parser := r.Parser
		if sp, ok := parser.(sourceParser); ok {
			parser = fileHintParser{inner: sp, filename: path}
		}

		opts = append(opts, validator.WithParser(parser))
	}

	if r.Patterns != nil {
		opts = append(opts, validator.WithPatterns(r.Patterns))
	}

	return validator.New(opts...)
}

func (r *Runner) readBounded(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if limit := r.maxFileBytes(); info.Size() > limit {
		return nil, fmt.Errorf("%s: file too large: %s (max %s)",
			path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(limit))) //nolint:gosec // sizes checked non-negative
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return content, nil
}

func (r *Runner) supported(path string) bool {
	exts := r.Extensions
	if len(exts) == 0 {
		exts = frameworks.SupportedExtensions()
	}

	ext := strings.ToLower(filepath.Ext(path))

	return slices.Contains(exts, ext)
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (r *Runner) maxFileBytes() int64 {
	if r.MaxFileBytes > 0 {
		return r.MaxFileBytes
	}

	return defaultMaxFileBytes
}

func (r *Runner) logDebug(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, args...)
	}
}

func summarize(results []FileResult, bytes int64, hits int, elapsed time.Duration) Summary {
	summary := Summary{
		Files:     len(results),
		Bytes:     bytes,
		CacheHits: hits,
		Duration:  elapsed,
	}

	for _, fr := range results {
		if fr.Result.Valid {
			summary.Valid++
		}

		summary.Errors += len(fr.Result.Errors)
		summary.Warnings += len(fr.Result.Warnings)
	}

	return summary
}

// fileHintParser adapts a filename-aware engine to the plain collaborator
// contract for a single known file.
type fileHintParser struct {
	inner    sourceParser
	filename string
}

func (p fileHintParser) Check(ctx context.Context, code string, fw frameworks.Framework) ([]syntax.Diagnostic, error) {
	return p.inner.CheckSource(ctx, code, fw, p.filename)
}
