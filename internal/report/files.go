package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/snapshot"
)

// Export file names inside the output directory
const (
	AnalysisJSON  = "version_analysis.json"
	VersionsYAML  = "api_versions.yaml"
	ChangesJSON   = "changes.json"
	ManifestDir   = "manifests"
	MappingJSON   = "mapping_analysis.json"
	MappingReport = "mapping_report.html"
	WorkbookXLSX  = "code_analysis.xlsx"
	csvStampShape = "20060102_150405"
)

// WriteFile creates path on fs, creating parent directories, and fills it
// through fn
func WriteFile(fs afero.Fs, path string, fn func(io.Writer) error) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteVersionYAML writes the CI/CD version document
func WriteVersionYAML(fs afero.Fs, path string, snap *models.Snapshot) error {
	return WriteFile(fs, path, func(w io.Writer) error {
		return Encode(w, FormatYAML, snapshot.NewVersionDoc(snap))
	})
}

type manifest struct {
	File      string             `yaml:"file"`
	Version   string             `yaml:"version"`
	Models    []manifestModel    `yaml:"models"`
	Endpoints []manifestEndpoint `yaml:"endpoints"`
}

type manifestModel struct {
	Name   string          `yaml:"name"`
	Hash   string          `yaml:"hash"`
	Fields []manifestField `yaml:"fields"`
}

type manifestField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type manifestEndpoint struct {
	Path     string `yaml:"path"`
	Method   string `yaml:"method"`
	Request  string `yaml:"request"`
	Response string `yaml:"response"`
}

// ManifestName maps a source path onto its manifest file name
func ManifestName(path string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(path)
	return strings.ReplaceAll(name, ".py", ".yaml")
}

// WriteManifests writes one YAML manifest per source file declaring
// records or endpoints and returns the written paths in file order
func WriteManifests(fs afero.Fs, dir string, snap *models.Snapshot) ([]string, error) {
	byFile := map[string]*manifest{}
	get := func(file string) *manifest {
		m, ok := byFile[file]
		if !ok {
			m = &manifest{File: file, Version: snap.Version, Models: []manifestModel{}, Endpoints: []manifestEndpoint{}}
			byFile[file] = m
		}
		return m
	}
	for _, r := range snap.Models {
		mm := manifestModel{Name: r.Name, Hash: r.Hash, Fields: []manifestField{}}
		for _, f := range r.Fields {
			mm.Fields = append(mm.Fields, manifestField{Name: f.Name, Type: f.Type})
		}
		m := get(r.FilePath)
		m.Models = append(m.Models, mm)
	}
	for _, ep := range snap.Endpoints {
		m := get(ep.FilePath)
		m.Endpoints = append(m.Endpoints, manifestEndpoint{
			Path:     ep.Path,
			Method:   ep.Method,
			Request:  ep.RequestModel,
			Response: ep.ResponseModel,
		})
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var written []string
	for _, file := range files {
		path := filepath.Join(dir, ManifestName(file))
		m := byFile[file]
		err := WriteFile(fs, path, func(w io.Writer) error {
			return yaml.NewEncoder(w).Encode(m)
		})
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// CSVFiles are the paths written by WriteCSV
type CSVFiles struct {
	Models    string
	Fields    string
	Functions string
	Mappings  string
}

// WriteCSV writes the models, model fields, functions and mappings tables,
// each file name stamped with now
func WriteCSV(fs afero.Fs, dir string, snap *models.Snapshot, now time.Time) (*CSVFiles, error) {
	stamp := now.Format(csvStampShape)
	out := &CSVFiles{
		Models:    filepath.Join(dir, "models_"+stamp+".csv"),
		Fields:    filepath.Join(dir, "model_fields_"+stamp+".csv"),
		Functions: filepath.Join(dir, "functions_"+stamp+".csv"),
		Mappings:  filepath.Join(dir, "req_resp_mappings_"+stamp+".csv"),
	}

	tables := []struct {
		path string
		rows [][]string
	}{
		{out.Models, ModelRows(snap)},
		{out.Fields, FieldRows(snap)},
		{out.Functions, FunctionRows(snap)},
		{out.Mappings, MappingRows(snap)},
	}
	for _, t := range tables {
		rows := t.rows
		err := WriteFile(fs, t.path, func(w io.Writer) error {
			cw := csv.NewWriter(w)
			if err := cw.WriteAll(rows); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ModelRows is the models table, header first
func ModelRows(snap *models.Snapshot) [][]string {
	rows := [][]string{{"name", "file_path", "line_number", "base_classes", "field_count", "is_pydantic", "is_dataclass", "docstring"}}
	for _, m := range snap.Models {
		rows = append(rows, []string{
			m.Name,
			m.FilePath,
			strconv.Itoa(m.LineNumber),
			strings.Join(m.BaseClasses, ", "),
			strconv.Itoa(len(m.Fields)),
			pyBool(m.IsPydantic),
			pyBool(m.IsDataclass),
			truncate(m.Docstring, 100),
		})
	}
	return rows
}

// FieldRows is the model fields table, header first
func FieldRows(snap *models.Snapshot) [][]string {
	rows := [][]string{{"model_name", "file_path", "field_name", "field_type", "default_value"}}
	for _, m := range snap.Models {
		for _, f := range m.Fields {
			def := ""
			if f.Default != nil {
				def = *f.Default
			}
			rows = append(rows, []string{m.Name, m.FilePath, f.Name, f.Type, def})
		}
	}
	return rows
}

// FunctionRows is the functions table, header first
func FunctionRows(snap *models.Snapshot) [][]string {
	rows := [][]string{{"name", "file_path", "line_number", "class_name", "param_count", "return_type", "is_async", "decorators"}}
	for _, fn := range snap.Functions {
		rows = append(rows, []string{
			fn.Name,
			fn.FilePath,
			strconv.Itoa(fn.LineNumber),
			fn.ClassName,
			strconv.Itoa(len(fn.Parameters)),
			fn.ReturnType,
			pyBool(fn.IsAsync),
			strings.Join(fn.Decorators, ", "),
		})
	}
	return rows
}

// MappingRows is the request/response mappings table, header first
func MappingRows(snap *models.Snapshot) [][]string {
	rows := [][]string{{"function_name", "file_path", "http_method", "endpoint", "request_models", "response_models"}}
	for _, ep := range snap.Endpoints {
		rows = append(rows, []string{
			ep.FunctionName,
			ep.FilePath,
			ep.Method,
			ep.Path,
			ep.RequestModel,
			ep.ResponseModel,
		})
	}
	return rows
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
