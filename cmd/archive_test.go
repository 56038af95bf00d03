package cmd

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func archiveNames(t *testing.T, path string) []string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("failed to read gzip: %v", err)
	}
	tr := tar.NewReader(gz)

	var names []string
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read tar: %v", err)
		}
		names = append(names, h.Name)
	}
	return names
}

func TestArchiveNoSnapshots(t *testing.T) {
	enterSampleTree(t)

	archiveOutput = ""
	archiveTopic = ""

	if err := runArchive(nil, []string{"all"}); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}
}

func TestArchiveAll(t *testing.T) {
	tree := enterSampleTree(t)

	createTestSnapshot(t, "snap1", nil)
	createTestSnapshot(t, "snap2", nil)

	archiveFile := filepath.Join(tree.Path, "test-archive.tar.gz")
	archiveOutput = archiveFile
	archiveTopic = ""
	defer func() { archiveOutput = "" }()

	c, _ := captured()
	if err := runArchive(c, []string{"all"}); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}

	names := archiveNames(t, archiveFile)
	if len(names) != 2 {
		t.Fatalf("expected 2 archived files, got %v", names)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			t.Errorf("unexpected archive entry %s", name)
		}
	}
}

func TestArchiveFilters(t *testing.T) {
	tree := enterSampleTree(t)

	createTestSnapshot(t, "keep", nil)
	createTestSnapshot(t, "other", nil)

	archiveFile := filepath.Join(tree.Path, "topic.tar.gz")
	archiveOutput = archiveFile
	archiveTopic = "keep"
	defer func() {
		archiveOutput = ""
		archiveTopic = ""
	}()

	c, _ := captured()
	if err := runArchive(c, []string{"all"}); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}
	names := archiveNames(t, archiveFile)
	if len(names) != 1 || !strings.Contains(names[0], "keep") {
		t.Errorf("expected only the keep snapshot, got %v", names)
	}

	archiveTopic = ""
	c, out := captured()
	if err := runArchive(c, []string{"1999"}); err != nil {
		t.Fatalf("archive command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No snapshots match the filter criteria") {
		t.Errorf("period filter not applied: %s", out.String())
	}
}
