// Package snapshot stores analysis snapshots as flat JSON files and
// loads them back, including YAML version documents.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/pders01/modeldrift/internal/models"
)

// ErrNotFound is returned when a reference matches no stored snapshot
var ErrNotFound = errors.New("snapshot not found")

// Store is a directory of snapshot files
type Store struct {
	Fs  afero.Fs
	Dir string
}

// NewStore returns a store rooted at dir on fs
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{Fs: fs, Dir: dir}
}

// Entry is one stored snapshot as seen by list and prune
type Entry struct {
	Path      string
	ID        string
	Topic     string
	Timestamp time.Time
	Tags      []string
	Notes     string
	Summary   models.Summary
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug normalises a topic for use in file names
func Slug(topic string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(topic), "-"), "-")
}

// Save writes snap and returns the file path
func (s *Store) Save(snap *models.Snapshot) (string, error) {
	if err := s.Fs.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(s.Dir, models.FileName(snap.Timestamp, Slug(snap.Topic)))
	if err := s.Rewrite(path, snap); err != nil {
		return "", err
	}
	return path, nil
}

// Rewrite replaces the snapshot file at path, keeping its name
func (s *Store) Rewrite(path string, snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := afero.WriteFile(s.Fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// List returns stored snapshots, newest first. Files that do not decode
// are skipped.
func (s *Store) List() ([]Entry, error) {
	infos, err := afero.ReadDir(s.Fs, s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var entries []Entry
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.Dir, info.Name())
		snap, err := Load(s.Fs, path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:      path,
			ID:        snap.ID,
			Topic:     snap.Topic,
			Timestamp: snap.Timestamp,
			Tags:      snap.Tags,
			Notes:     snap.Notes,
			Summary:   snap.Summary,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Resolve maps a reference to a snapshot file. A reference is an
// existing path, a stored file name, an id prefix, or a topic (newest
// snapshot with that topic wins).
func (s *Store) Resolve(ref string) (string, error) {
	if ok, _ := afero.Exists(s.Fs, ref); ok {
		return ref, nil
	}
	if ok, _ := afero.Exists(s.Fs, filepath.Join(s.Dir, ref)); ok {
		return filepath.Join(s.Dir, ref), nil
	}

	entries, err := s.List()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.ID != "" && strings.HasPrefix(e.ID, ref) {
			return e.Path, nil
		}
	}
	slug := Slug(ref)
	for _, e := range entries {
		if e.Topic == ref || (slug != "" && Slug(e.Topic) == slug) {
			return e.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Latest returns the newest stored snapshot path
func (s *Store) Latest() (string, error) {
	entries, err := s.List()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: no snapshots in %s", ErrNotFound, s.Dir)
	}
	return entries[0].Path, nil
}

// Delete removes a stored snapshot file
func (s *Store) Delete(path string) error {
	if err := s.Fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// PruneCandidate is an entry with the retention decision for it
type PruneCandidate struct {
	Entry     Entry
	Age       time.Duration
	Preserved bool
	Reason    string
}

// Plan applies the retention policy: entries carrying a preserved tag or
// newer than retentionDays are kept, everything else is pruned.
func Plan(entries []Entry, retentionDays int, now time.Time, preserve func(tags []string) bool) (prune, keep []PruneCandidate) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		c := PruneCandidate{Entry: e, Age: now.Sub(e.Timestamp)}
		switch {
		case preserve != nil && preserve(e.Tags):
			c.Preserved = true
			c.Reason = "has preserve tag"
			keep = append(keep, c)
		case e.Timestamp.Before(cutoff):
			c.Reason = fmt.Sprintf("older than %d days", retentionDays)
			prune = append(prune, c)
		default:
			c.Preserved = true
			c.Reason = "within retention period"
			keep = append(keep, c)
		}
	}
	return prune, keep
}
