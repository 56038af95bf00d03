package snapshot

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/models"
)

// timestamp layouts accepted from older or foreign snapshot files
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Load reads a snapshot from a JSON snapshot file or a YAML version
// document, chosen by extension
func Load(fs afero.Fs, path string) (*models.Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON decodes a snapshot. The timestamp may lack a zone, as
// written by the Python version tracker.
func DecodeJSON(data []byte) (*models.Snapshot, error) {
	type alias models.Snapshot
	var raw struct {
		*alias
		Timestamp string `json:"timestamp"`
	}
	snap := &models.Snapshot{}
	raw.alias = (*alias)(snap)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.Timestamp = parseTimestamp(raw.Timestamp)
	normalize(snap)
	return snap, nil
}

// DecodeYAML decodes an api_versions style version document
func DecodeYAML(data []byte) (*models.Snapshot, error) {
	var doc VersionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode version document: %w", err)
	}
	snap := doc.Snapshot()
	normalize(snap)
	return snap, nil
}

// normalize fills collections that odd or older files leave out
func normalize(snap *models.Snapshot) {
	if snap.Models == nil {
		snap.Models = []models.DeclaredRecord{}
	}
	if snap.Functions == nil {
		snap.Functions = []models.DeclaredCallable{}
	}
	if snap.Endpoints == nil {
		snap.Endpoints = []models.EndpointMapping{}
	}
	for i := range snap.Models {
		if snap.Models[i].Fields == nil {
			snap.Models[i].Fields = []models.Field{}
		}
	}
	if snap.Summary.TotalModels == 0 && len(snap.Models) > 0 {
		snap.Summarize()
	}
}
