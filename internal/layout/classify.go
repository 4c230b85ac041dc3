package layout

// Classifier assigns images to shape buckets by width/height ratio.
type Classifier struct {
	// PortraitThreshold is the largest ratio still considered portrait.
	PortraitThreshold float64

	// SquareMin and SquareMax delimit the square band. The band is
	// evaluated but both it and anything above it land in the same
	// bucket, so only two buckets are ever populated. Keeping the
	// thresholds leaves room for a future landscape template.
	SquareMin float64
	SquareMax float64
}

// DefaultClassifier returns the reference thresholds.
func DefaultClassifier() Classifier {
	return Classifier{
		PortraitThreshold: 0.9,
		SquareMin:         0.9,
		SquareMax:         1.1,
	}
}

// Classify returns the bucket for one image.
func (c Classifier) Classify(img ImageRecord) Bucket {
	switch {
	case img.Ratio <= c.PortraitThreshold:
		return Portrait
	case c.SquareMin < img.Ratio && img.Ratio < c.SquareMax:
		return SquareOrLandscape
	default:
		// Landscape counts as square.
		return SquareOrLandscape
	}
}
