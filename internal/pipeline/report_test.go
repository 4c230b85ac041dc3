package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleSummary() RunSummary {
	return RunSummary{
		Folders: []FolderResult{
			{Folder: "vacation", Status: StatusProcessed, PageCount: 3, PortraitCount: 5, SquareCount: 2, UnmatchedCount: 1},
			{Folder: "archive", Status: StatusNotFound},
			{Folder: "scans", Status: StatusEmpty, FailedCount: 2},
		},
		TotalPages: 3,
	}
}

func TestPrintReport(t *testing.T) {
	var b strings.Builder
	PrintReport(&b, sampleSummary())
	out := b.String()

	for _, want := range []string{
		"vacation: 3 pages",
		"1 squares unmatched",
		"archive: 0 pages (folder not found)",
		"scans: 0 pages (no usable images, 2 failed to read)",
		"Total pages: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report is missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	if err := WriteSummary(path, sampleSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read summary: %v", err)
	}
	var loaded RunSummary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Summary is not valid YAML: %v", err)
	}
	if loaded.TotalPages != 3 || len(loaded.Folders) != 3 {
		t.Errorf("Round trip lost data: %+v", loaded)
	}
	if loaded.Folders[0].Status != StatusProcessed {
		t.Errorf("Expected processed status, got %s", loaded.Folders[0].Status)
	}
}
