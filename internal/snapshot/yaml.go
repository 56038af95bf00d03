package snapshot

import (
	"sort"

	"github.com/pders01/modeldrift/internal/models"
)

// VersionDoc is the CI/CD version document (api_versions.yaml)
type VersionDoc struct {
	Version   string            `yaml:"version"`
	Git       VersionGit        `yaml:"git"`
	Models    []VersionModel    `yaml:"models"`
	Endpoints []VersionEndpoint `yaml:"endpoints"`
}

// VersionGit is the git section of a version document
type VersionGit struct {
	Commit    string `yaml:"commit"`
	Branch    string `yaml:"branch"`
	Author    string `yaml:"author"`
	Timestamp string `yaml:"timestamp"`
	Dirty     bool   `yaml:"dirty"`
}

// VersionModel is one record in a version document
type VersionModel struct {
	Name         string         `yaml:"name"`
	Version      string         `yaml:"version"`
	File         string         `yaml:"file"`
	Module       string         `yaml:"module"`
	Hash         string         `yaml:"hash"`
	Type         string         `yaml:"type"`
	Fields       []VersionField `yaml:"fields"`
	UsedIn       []string       `yaml:"used_in"`
	LastModified string         `yaml:"last_modified"`
	Description  string         `yaml:"description,omitempty"`
}

// VersionField is one field of a VersionModel
type VersionField struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Required bool    `yaml:"required"`
	Default  *string `yaml:"default"`
}

// VersionEndpoint is one endpoint in a version document
type VersionEndpoint struct {
	Path       string   `yaml:"path"`
	Method     string   `yaml:"method"`
	Function   string   `yaml:"function"`
	File       string   `yaml:"file"`
	Version    string   `yaml:"version"`
	Request    string   `yaml:"request,omitempty"`
	Response   string   `yaml:"response,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Summary    string   `yaml:"summary,omitempty"`
	Deprecated bool     `yaml:"deprecated,omitempty"`
}

// NewVersionDoc builds the version document of a snapshot. Models are
// grouped by file in path order.
func NewVersionDoc(snap *models.Snapshot) *VersionDoc {
	doc := &VersionDoc{
		Version: snap.Version,
		Git: VersionGit{
			Commit:    snap.Git.CommitHash,
			Branch:    snap.Git.Branch,
			Author:    snap.Git.Author,
			Timestamp: snap.Git.Timestamp,
			Dirty:     snap.Git.IsDirty,
		},
		Models:    []VersionModel{},
		Endpoints: []VersionEndpoint{},
	}

	recs := make([]*models.DeclaredRecord, len(snap.Models))
	for i := range snap.Models {
		recs[i] = &snap.Models[i]
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].FilePath < recs[j].FilePath })

	for _, m := range recs {
		vm := VersionModel{
			Name:         m.Name,
			Version:      m.Version,
			File:         m.FilePath,
			Module:       m.Module,
			Hash:         m.Hash,
			Type:         "dataclass",
			Fields:       []VersionField{},
			UsedIn:       m.UsedInEndpoints,
			LastModified: m.LastModified,
			Description:  m.Docstring,
		}
		if m.IsPydantic {
			vm.Type = "pydantic"
		}
		if vm.UsedIn == nil {
			vm.UsedIn = []string{}
		}
		for _, f := range m.Fields {
			vm.Fields = append(vm.Fields, VersionField{Name: f.Name, Type: f.Type, Required: f.Required, Default: f.Default})
		}
		doc.Models = append(doc.Models, vm)
	}

	for _, ep := range snap.Endpoints {
		doc.Endpoints = append(doc.Endpoints, VersionEndpoint{
			Path:       ep.Path,
			Method:     ep.Method,
			Function:   ep.FunctionName,
			File:       ep.FilePath,
			Version:    ep.Version,
			Request:    ep.RequestModel,
			Response:   ep.ResponseModel,
			Tags:       ep.Tags,
			Summary:    ep.Summary,
			Deprecated: ep.Deprecated,
		})
	}
	return doc
}

// Snapshot converts the document back into a snapshot. Line numbers,
// bases and callables are not part of the document and stay empty.
func (d *VersionDoc) Snapshot() *models.Snapshot {
	snap := &models.Snapshot{
		Version: d.Version,
		Git: models.GitInfo{
			CommitHash: d.Git.Commit,
			Branch:     d.Git.Branch,
			Author:     d.Git.Author,
			Timestamp:  d.Git.Timestamp,
			IsDirty:    d.Git.Dirty,
		},
	}
	if d.Git.Timestamp != "" {
		snap.Timestamp = parseTimestamp(d.Git.Timestamp)
	}

	files := map[string]bool{}
	for _, vm := range d.Models {
		rec := models.DeclaredRecord{
			Name:            vm.Name,
			Version:         vm.Version,
			FilePath:        vm.File,
			Module:          vm.Module,
			Hash:            vm.Hash,
			IsPydantic:      vm.Type == "pydantic",
			IsDataclass:     vm.Type == "dataclass",
			UsedInEndpoints: vm.UsedIn,
			LastModified:    vm.LastModified,
			Docstring:       vm.Description,
			BaseClasses:     []string{},
			Fields:          []models.Field{},
		}
		for _, f := range vm.Fields {
			rec.Fields = append(rec.Fields, models.Field{Name: f.Name, Type: f.Type, Required: f.Required, Default: f.Default})
		}
		snap.Models = append(snap.Models, rec)
		if vm.File != "" && !files[vm.File] {
			files[vm.File] = true
			snap.FilesAnalyzed = append(snap.FilesAnalyzed, vm.File)
		}
	}

	for _, ve := range d.Endpoints {
		tags := ve.Tags
		if tags == nil {
			tags = []string{}
		}
		snap.Endpoints = append(snap.Endpoints, models.EndpointMapping{
			Path:          ve.Path,
			Method:        ve.Method,
			FunctionName:  ve.Function,
			FilePath:      ve.File,
			Version:       ve.Version,
			RequestModel:  ve.Request,
			ResponseModel: ve.Response,
			Tags:          tags,
			Summary:       ve.Summary,
			Deprecated:    ve.Deprecated,
		})
	}
	return snap
}
