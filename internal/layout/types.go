// Package layout implements the slide packing core: classification of
// images into shape buckets, the pairing and grouping planner that
// decides which images share a page, and the geometry that positions
// each image on the canvas.
package layout

// Bucket is the shape class an image belongs to before packing.
type Bucket int

const (
	// Portrait holds images whose width/height ratio is at or below the
	// portrait threshold.
	Portrait Bucket = iota

	// SquareOrLandscape holds everything else. Landscape images are
	// folded into the square bucket rather than routed separately; see
	// Classifier.
	SquareOrLandscape
)

// Template identifies the page layout a descriptor uses.
type Template int

const (
	// Mixed pages hold one square/landscape image and one portrait
	// image side by side.
	Mixed Template = iota

	// Row pages hold one to three images side by side. In the default
	// configuration these are always portraits.
	Row
)

// ImageRecord holds the inspected dimensions of a source image.
// Immutable once created; the packing core only reads it.
type ImageRecord struct {
	Path     string
	Filename string
	Width    int
	Height   int
	Ratio    float64 // Width / Height
}

// PageDescriptor assigns an ordered group of images to one slide.
type PageDescriptor struct {
	Template Template
	Images   []ImageRecord // 2 for Mixed, 1-3 for Row
	Number   int           // 1-based page number across the whole run
}

// PlacedImage is a positioned image on a slide, in canvas units
// (centimeters). No rounding is applied; rendering decides precision.
type PlacedImage struct {
	Image  ImageRecord
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Canvas describes the fixed slide geometry, in centimeters.
type Canvas struct {
	Width     float64
	Height    float64
	Margin    float64
	Gap       float64
	AreaRatio float64 // fraction of the margin-reduced height reserved for images
}

// A3Landscape returns the reference canvas: A3 paper turned sideways.
func A3Landscape(margin, gap, areaRatio float64) Canvas {
	return Canvas{
		Width:     42,
		Height:    29.7,
		Margin:    margin,
		Gap:       gap,
		AreaRatio: areaRatio,
	}
}
