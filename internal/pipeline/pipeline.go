// Package pipeline drives folder-by-folder slide generation: it scans
// each configured folder in order, classifies its images, plans and
// positions pages, and hands placed content to a document sink.
package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/miokari/smartppt/internal/config"
	"github.com/miokari/smartppt/internal/inspect"
	"github.com/miokari/smartppt/internal/layout"
)

// Status summarizes how a configured folder was handled.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusNotFound  Status = "not_found"
	StatusEmpty     Status = "empty"
)

// FolderResult is the per-folder summary, one per configured folder in
// configured order. Read-only after creation.
type FolderResult struct {
	Folder         string `yaml:"folder"`
	Status         Status `yaml:"status"`
	PageCount      int    `yaml:"pages"`
	PortraitCount  int    `yaml:"portraits,omitempty"`
	SquareCount    int    `yaml:"squares,omitempty"`
	UnmatchedCount int    `yaml:"unmatched,omitempty"`
	FailedCount    int    `yaml:"failed,omitempty"`
}

// RunSummary is the end-of-run report.
type RunSummary struct {
	Folders    []FolderResult `yaml:"folders"`
	TotalPages int            `yaml:"total_pages"`
}

// DocumentSink receives the run's output: one slide per page, one
// picture call per placed image, one textbox per page number, then a
// single Save from the caller.
type DocumentSink interface {
	AddSlide() int
	PlacePicture(slide int, path string, leftCm, topCm, widthCm, heightCm, borderPt float64) error
	PlaceTextBox(slide int, text string, leftCm, topCm, widthCm, heightCm, fontPt float64, rgbHex string) error
	Save(path string) error
}

// Runner owns the cross-folder run state: the global page counter and
// the accumulated summaries. Everything else is a pure function of the
// folder being processed.
type Runner struct {
	cfg        config.Config
	classifier layout.Classifier
	planner    layout.Planner
	geometry   layout.Geometry

	// inspectFn is swappable so tests can feed synthetic records.
	inspectFn func(path string) (layout.ImageRecord, error)
}

// NewRunner builds a runner from the loaded configuration.
func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		classifier: layout.Classifier{
			PortraitThreshold: cfg.PortraitThreshold,
			SquareMin:         cfg.SquareMinThreshold,
			SquareMax:         cfg.SquareMaxThreshold,
		},
		planner:   layout.Planner{Unmatched: layout.UnmatchedPolicy(cfg.UnmatchedPolicy)},
		geometry:  layout.Geometry{Canvas: layout.A3Landscape(cfg.Margin, cfg.Gap, cfg.ImageAreaRatio)},
		inspectFn: inspect.Inspect,
	}
}

// Canvas exposes the run's slide geometry so callers can size the sink.
func (r *Runner) Canvas() layout.Canvas {
	return r.geometry.Canvas
}

// Run processes every configured folder in order against the sink.
// Folders never interleave: all pages from one folder are emitted
// before the next folder starts, and page numbers increase by one
// across the whole run. Per-folder and per-image problems are recorded
// and skipped, never escalated.
func (r *Runner) Run(sink DocumentSink) RunSummary {
	var summary RunSummary
	pageNum := 0
	for _, folder := range r.cfg.ImageFolders {
		result := r.processFolder(folder, sink, &pageNum)
		summary.Folders = append(summary.Folders, result)
		summary.TotalPages += result.PageCount
	}
	return summary
}

func (r *Runner) processFolder(dir string, sink DocumentSink, pageNum *int) FolderResult {
	result := FolderResult{Folder: filepath.Base(filepath.Clean(dir))}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		slog.Warn("Folder does not exist, skipping", "folder", dir)
		result.Status = StatusNotFound
		return result
	}

	portraits, squares, failed := r.scanFolder(dir)
	result.PortraitCount = len(portraits)
	result.SquareCount = len(squares)
	result.FailedCount = failed

	slog.Info("Scanned folder", "folder", result.Folder,
		"portraits", len(portraits), "squares", len(squares), "failed", failed)

	if len(portraits)+len(squares) == 0 {
		slog.Info("No usable images in folder, skipping", "folder", result.Folder)
		result.Status = StatusEmpty
		return result
	}

	pages, unmatched := r.planner.Plan(squares, portraits)
	for i := range pages {
		*pageNum++
		pages[i].Number = *pageNum
		r.renderPage(sink, pages[i])
	}

	result.Status = StatusProcessed
	result.PageCount = len(pages)
	result.UnmatchedCount = unmatched
	slog.Info("Folder laid out", "folder", result.Folder, "pages", len(pages), "unmatched", unmatched)
	return result
}

// scanFolder enumerates supported files, inspects them with a bounded
// worker group, and classifies the survivors. Bucket contents keep the
// enumeration order regardless of worker count, since pairing depends
// on it.
func (r *Runner) scanFolder(dir string) (portraits, squares []layout.ImageRecord, failed int) {
	names, err := listImageFiles(dir, r.cfg)
	if err != nil {
		slog.Warn("Failed to list folder, treating as empty", "folder", dir, "error", err)
		return nil, nil, 0
	}

	records := make([]*layout.ImageRecord, len(names))
	var g errgroup.Group
	g.SetLimit(max(1, r.cfg.InspectWorkers))
	for i, name := range names {
		g.Go(func() error {
			rec, err := r.inspectFn(filepath.Join(dir, name))
			if err != nil {
				slog.Debug("Image inspection failed", "file", name, "error", err)
				return nil
			}
			records[i] = &rec
			return nil
		})
	}
	// Workers never return errors; failures are per-slot nils.
	_ = g.Wait()

	for _, rec := range records {
		if rec == nil {
			failed++
			continue
		}
		if r.classifier.Classify(*rec) == layout.Portrait {
			portraits = append(portraits, *rec)
		} else {
			squares = append(squares, *rec)
		}
	}
	return portraits, squares, failed
}

// renderPage positions the page's images and hands them to the sink. A
// rejected placement drops that image alone; the rest of the page and
// the page number still render.
func (r *Runner) renderPage(sink DocumentSink, page layout.PageDescriptor) {
	slide := sink.AddSlide()
	for _, placed := range r.geometry.Place(page) {
		err := sink.PlacePicture(slide, placed.Image.Path,
			placed.Left, placed.Top, placed.Width, placed.Height, r.cfg.BorderWidth)
		if err != nil {
			slog.Warn("Failed to place image, omitting it", "file", placed.Image.Filename,
				"page", page.Number, "error", err)
		}
	}
	if r.cfg.ShowPageNumbers {
		canvas := r.geometry.Canvas
		err := sink.PlaceTextBox(slide, strconv.Itoa(page.Number),
			canvas.Width-2.5, canvas.Height-1.0, 2.0, 0.6, 8, "808080")
		if err != nil {
			slog.Warn("Failed to place page number", "page", page.Number, "error", err)
		}
	}
}

// listImageFiles returns supported filenames from dir, sorted by name
// when the configuration asks for deterministic order, otherwise in
// whatever order the filesystem yields.
func listImageFiles(dir string, cfg config.Config) ([]string, error) {
	var entries []os.DirEntry
	if cfg.SortFiles {
		sorted, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		entries = sorted
	} else {
		f, err := os.Open(dir)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		unsorted, err := f.ReadDir(-1)
		if err != nil {
			return nil, err
		}
		entries = unsorted
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if cfg.IsSupported(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
