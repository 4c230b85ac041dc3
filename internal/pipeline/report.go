package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrintReport writes the per-folder summary and the grand total to w.
// It runs regardless of whether the final save succeeds.
func PrintReport(w io.Writer, summary RunSummary) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Folder layout summary")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, folder := range summary.Folders {
		fmt.Fprintf(w, "  %s: %d pages (%s)\n", folder.Folder, folder.PageCount, folderNote(folder))
	}
	fmt.Fprintf(w, "Total pages: %d\n", summary.TotalPages)
}

func folderNote(f FolderResult) string {
	switch f.Status {
	case StatusNotFound:
		return "folder not found"
	case StatusEmpty:
		if f.FailedCount > 0 {
			return fmt.Sprintf("no usable images, %d failed to read", f.FailedCount)
		}
		return "no usable images"
	}

	parts := []string{fmt.Sprintf("%d portraits, %d squares", f.PortraitCount, f.SquareCount)}
	if f.UnmatchedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d squares unmatched", f.UnmatchedCount))
	}
	if f.FailedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d failed to read", f.FailedCount))
	}
	return strings.Join(parts, ", ")
}

// WriteSummary persists the run summary as YAML.
func WriteSummary(path string, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
