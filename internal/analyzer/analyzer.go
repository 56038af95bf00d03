// Package analyzer runs one extraction pass over a source tree and
// assembles the resulting snapshot.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/spf13/afero"

	"github.com/pders01/modeldrift/internal/endpoint"
	"github.com/pders01/modeldrift/internal/extract"
	"github.com/pders01/modeldrift/internal/fingerprint"
	"github.com/pders01/modeldrift/internal/git"
	"github.com/pders01/modeldrift/internal/logger"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/walker"
)

// Options configures one analysis run
type Options struct {
	Fs       afero.Fs
	Root     string
	Excludes []string
	Extract  extract.Options
	// MatchAttributeTail accepts router.get style route decorators
	MatchAttributeTail bool
	Version            string
	// Git records repository and per-file commit info; only meaningful
	// when Fs is the OS filesystem
	Git    bool
	Logger *log.Logger
	Now    func() time.Time
}

// withDefaults fills unset options: the OS filesystem, a warn-level
// console logger and the wall clock.
func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = logger.New("")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Analyze walks opts.Root, extracts every readable file and returns the
// snapshot. Files that fail to parse are logged and listed in
// FilesSkipped; they never fail the run.
func Analyze(ctx context.Context, opts Options) (*models.Snapshot, error) {
	opts = opts.withDefaults()

	files, err := walker.Walk(opts.Fs, opts.Root, opts.Excludes, func(rel string, err error) {
		opts.Logger.Warn().Str("path", rel).Err(err).Msg("skipping unreadable path")
	})
	if err != nil {
		return nil, err
	}

	root := opts.Root
	if abs, err := filepath.Abs(opts.Root); err == nil {
		root = abs
	}

	snap := &models.Snapshot{
		ID:            uuid.New().String(),
		Timestamp:     opts.Now(),
		ProjectRoot:   root,
		Version:       opts.Version,
		Models:        []models.DeclaredRecord{},
		Functions:     []models.DeclaredCallable{},
		FilesAnalyzed: []string{},
	}

	useGit := false
	if opts.Git {
		info, err := git.Info(opts.Root)
		if err != nil {
			opts.Logger.Warn().Err(err).Msg("git info unavailable")
		} else {
			snap.Git = info
			useGit = true
		}
	}

	ex := extract.New(opts.Extract)
	byName := map[string]int{}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := afero.ReadFile(opts.Fs, filepath.Join(opts.Root, filepath.FromSlash(rel)))
		if err != nil {
			opts.Logger.Warn().Str("file", rel).Err(err).Msg("skipping unreadable file")
			snap.FilesSkipped = append(snap.FilesSkipped, rel)
			continue
		}

		res, err := ex.Parse(ctx, content, rel, walker.ModuleName(rel))
		if err != nil {
			if errors.Is(err, extract.ErrSyntax) || errors.Is(err, extract.ErrEncoding) {
				opts.Logger.Warn().Str("file", rel).Err(err).Msg("skipping file that does not parse")
				snap.FilesSkipped = append(snap.FilesSkipped, rel)
				continue
			}
			return nil, fmt.Errorf("failed to analyze %s: %w", rel, err)
		}
		snap.FilesAnalyzed = append(snap.FilesAnalyzed, rel)

		var fileInfo git.FileInfo
		hasFileInfo := false
		if useGit && len(res.Records) > 0 {
			fileInfo, hasFileInfo = git.LastChange(opts.Root, rel)
		}

		for _, rec := range res.Records {
			rec.Version = opts.Version
			if hasFileInfo {
				rec.GitCommit = fileInfo.Commit
				rec.GitAuthor = fileInfo.Author
				rec.LastModified = fileInfo.Timestamp
			}
			// names are unique per snapshot; a later declaration wins
			if i, ok := byName[rec.Name]; ok {
				opts.Logger.Debug().Str("model", rec.Name).Str("file", rel).
					Str("previous", snap.Models[i].FilePath).Msg("duplicate model name")
				snap.Models[i] = rec
				continue
			}
			byName[rec.Name] = len(snap.Models)
			snap.Models = append(snap.Models, rec)
		}
		snap.Functions = append(snap.Functions, res.Callables...)
		opts.Logger.Debug().Str("file", rel).Int("models", len(res.Records)).
			Int("functions", len(res.Callables)).Msg("analyzed")
	}

	fingerprint.Apply(snap.Models)
	snap.Endpoints = endpoint.NewDetector(opts.MatchAttributeTail).DetectAll(snap.Functions, snap.Models)
	for i := range snap.Endpoints {
		snap.Endpoints[i].Version = opts.Version
	}
	snap.Summarize()
	return snap, nil
}
