package vision

import "strings"

// Unrecognized is the category of an analysis with no tags and no caption.
const Unrecognized = "Unrecognized"

var vocabulary = []string{
	"trash",
	"waste",
	"litter",
	"garbage",
	"pollution",
	"dump",
	"rubbish",
}

// Categorize reduces an analysis to one category. The first tag, in model
// order, containing a litter vocabulary word wins; otherwise the most
// confident tag, then the caption, then Unrecognized.
func Categorize(a Analysis) string {
	for _, tag := range a.Tags {
		name := strings.ToLower(tag.Name)
		for _, word := range vocabulary {
			if strings.Contains(name, word) {
				return strings.TrimSpace(tag.Name)
			}
		}
	}

	best := -1
	for i, tag := range a.Tags {
		if strings.TrimSpace(tag.Name) == "" {
			continue
		}
		if best < 0 || tag.Confidence > a.Tags[best].Confidence {
			best = i
		}
	}
	if best >= 0 {
		return strings.TrimSpace(a.Tags[best].Name)
	}

	if caption := strings.TrimSpace(a.Caption); caption != "" {
		return caption
	}
	return Unrecognized
}
