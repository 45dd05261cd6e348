// Package vision tags evidence photos and reduces the tags to a single
// recognized litter category.
package vision

import (
	"context"
	"errors"
)

// ErrNoImage indicates an Image with neither a URL nor inline data.
var ErrNoImage = errors.New("image has no url or data")

// Image is a photo to analyze. Data is used when the analyzer sends images
// inline; otherwise the model fetches URL itself.
type Image struct {
	URL         string
	Data        []byte
	ContentType string
}

// Tag is a label with the model's confidence in the range [0, 1].
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the raw tagging result for one image.
type Analysis struct {
	Tags    []Tag  `json:"tags"`
	Caption string `json:"caption"`
}

// Analyzer tags images.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (Analysis, error)
}
