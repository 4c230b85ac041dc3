package layout

import "slices"

// UnmatchedPolicy controls what happens to square/landscape images left
// over once every portrait has been paired.
type UnmatchedPolicy string

const (
	// DropUnmatched discards leftover squares; they appear on no page
	// and are only reported. This is the default.
	DropUnmatched UnmatchedPolicy = "drop"

	// RowUnmatched lays leftover squares out on their own row pages,
	// two per page.
	RowUnmatched UnmatchedPolicy = "rows"
)

const (
	portraitsPerRow = 3
	squaresPerRow   = 2
)

// Planner groups one folder's buckets into page descriptors.
//
// Both buckets are consumed strictly in arrival order: the planner
// never reorders by size or name, so enumeration order decides which
// images end up together.
type Planner struct {
	Unmatched UnmatchedPolicy
}

// Plan produces this folder's pages. Phase one pairs the next square
// with the next portrait onto a Mixed page until one bucket runs dry.
// Phase two chunks the remaining portraits into Row pages of at most
// three. Leftover squares are handled per the unmatched policy; the
// returned count is how many were discarded.
//
// Page numbers are left unset; the caller owns the global counter.
func (p Planner) Plan(squares, portraits []ImageRecord) (pages []PageDescriptor, unmatched int) {
	pairs := min(len(squares), len(portraits))
	for i := 0; i < pairs; i++ {
		pages = append(pages, PageDescriptor{
			Template: Mixed,
			Images:   []ImageRecord{squares[i], portraits[i]},
		})
	}

	for start := pairs; start < len(portraits); start += portraitsPerRow {
		end := min(start+portraitsPerRow, len(portraits))
		pages = append(pages, PageDescriptor{
			Template: Row,
			Images:   slices.Clone(portraits[start:end]),
		})
	}

	rest := squares[pairs:]
	if p.Unmatched == RowUnmatched {
		for start := 0; start < len(rest); start += squaresPerRow {
			end := min(start+squaresPerRow, len(rest))
			pages = append(pages, PageDescriptor{
				Template: Row,
				Images:   slices.Clone(rest[start:end]),
			})
		}
		return pages, 0
	}
	return pages, len(rest)
}
