package layout

import "math"

// Geometry computes positioned images for one page against the fixed
// canvas. The same math serves both templates: a Mixed page is simply
// the two-image row.
type Geometry struct {
	Canvas Canvas
}

// Place lays out the descriptor's images.
//
// Every image on a page shares one target height, a configured fraction
// of the margin-reduced canvas height. Tentative widths follow from
// each image's own ratio. If the row overflows the available width,
// widths and the shared height are scaled down by the same factor (the
// inter-image gap is not scaled). The finished block is centered on
// both axes, and each image is then fitted and re-centered inside its
// cell so its exact aspect ratio is preserved.
func (g Geometry) Place(page PageDescriptor) []PlacedImage {
	availW := g.Canvas.Width - 2*g.Canvas.Margin
	availH := g.Canvas.Height - 2*g.Canvas.Margin
	targetH := availH * g.Canvas.AreaRatio

	n := len(page.Images)
	if n == 0 {
		return nil
	}
	totalGap := g.Canvas.Gap * float64(n-1)

	widths := make([]float64, n)
	totalW := totalGap
	for i, img := range page.Images {
		widths[i] = targetH * img.Ratio
		totalW += widths[i]
	}

	if totalW > availW {
		scale := availW / totalW
		targetH *= scale
		totalW = totalGap
		for i, img := range page.Images {
			widths[i] = targetH * img.Ratio
			totalW += widths[i]
		}
	}

	x := g.Canvas.Margin + (availW-totalW)/2
	y := g.Canvas.Margin + (availH-targetH)/2

	placed := make([]PlacedImage, 0, n)
	for i, img := range page.Images {
		placed = append(placed, fitInCell(img, x, y, widths[i], targetH))
		x += widths[i] + g.Canvas.Gap
	}
	return placed
}

// fitInCell shrinks to the largest rectangle with the image's own ratio
// that fits the cell and centers it, absorbing any residue between the
// unified row height and the exact ratio.
func fitInCell(img ImageRecord, left, top, width, height float64) PlacedImage {
	var w, h float64
	if img.Ratio >= 1 {
		w = math.Min(width, height*img.Ratio)
		h = w / img.Ratio
	} else {
		h = math.Min(height, width/img.Ratio)
		w = h * img.Ratio
	}
	return PlacedImage{
		Image:  img,
		Left:   left + (width-w)/2,
		Top:    top + (height-h)/2,
		Width:  w,
		Height: h,
	}
}
