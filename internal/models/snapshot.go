package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the timestamp format used in snapshot file names
const TimestampLayout = "2006-01-02T150405"

// GitInfo describes the repository state of the analysed tree
type GitInfo struct {
	CommitHash string `json:"commit_hash,omitempty" yaml:"commit,omitempty"`
	Branch     string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	Timestamp  string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	IsDirty    bool   `json:"is_dirty" yaml:"dirty"`
	RemoteURL  string `json:"remote_url,omitempty" yaml:"remote,omitempty"`
}

// Summary holds the headline counts of a snapshot
type Summary struct {
	TotalModels    int    `json:"total_models"`
	TotalFunctions int    `json:"total_functions"`
	TotalEndpoints int    `json:"total_endpoints"`
	PydanticModels int    `json:"pydantic_models"`
	Dataclasses    int    `json:"dataclasses"`
	FilesAnalyzed  int    `json:"files_analyzed"`
	FilesSkipped   int    `json:"files_skipped"`
	ProjectVersion string `json:"project_version,omitempty"`
}

// Snapshot is a named, timestamped bundle of one extraction pass
type Snapshot struct {
	ID            string             `json:"id"`
	Topic         string             `json:"topic,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	ProjectRoot   string             `json:"project_root"`
	Version       string             `json:"version,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Git           GitInfo            `json:"git_info"`
	Models        []DeclaredRecord   `json:"models"`
	Functions     []DeclaredCallable `json:"functions"`
	Endpoints     []EndpointMapping  `json:"endpoints"`
	FilesAnalyzed []string           `json:"files_analyzed"`
	FilesSkipped  []string           `json:"files_skipped,omitempty"`
	Summary       Summary            `json:"summary"`
}

// Record returns the record with the given name
func (s *Snapshot) Record(name string) (*DeclaredRecord, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// RecordNames returns record names in snapshot order
func (s *Snapshot) RecordNames() []string {
	names := make([]string, len(s.Models))
	for i, m := range s.Models {
		names[i] = m.Name
	}
	return names
}

// Summarize recomputes the summary counts
func (s *Snapshot) Summarize() {
	sum := Summary{
		TotalModels:    len(s.Models),
		TotalFunctions: len(s.Functions),
		TotalEndpoints: len(s.Endpoints),
		FilesAnalyzed:  len(s.FilesAnalyzed),
		FilesSkipped:   len(s.FilesSkipped),
		ProjectVersion: s.Version,
	}
	for _, m := range s.Models {
		if m.IsPydantic {
			sum.PydanticModels++
		}
		if m.IsDataclass {
			sum.Dataclasses++
		}
	}
	s.Summary = sum
}

// FileName generates the snapshot file name from timestamp and topic
// Format: YYYY-MM-DDTHHMMSS-topic-slug.json
func FileName(timestamp time.Time, topic string) string {
	if topic == "" {
		return fmt.Sprintf("%s.json", timestamp.Format(TimestampLayout))
	}
	return fmt.Sprintf("%s-%s.json", timestamp.Format(TimestampLayout), topic)
}
