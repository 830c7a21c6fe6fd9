package graph

import (
	"fmt"
	"strconv"
	"strings"

	"mindgraph/internal/extractor"
)

const (
	CentralColor = "#1f2937"
	DefaultColor = "#6b7280"
)

var CategoryColors = map[extractor.Category]string{
	extractor.CategoryTechnology:  "#3b82f6",
	extractor.CategoryScience:     "#10b981",
	extractor.CategoryBusiness:    "#f59e0b",
	extractor.CategoryEducation:   "#8b5cf6",
	extractor.CategoryHealth:      "#ef4444",
	extractor.CategoryEnvironment: "#22c55e",
	extractor.CategoryPsychology:  "#ec4899",
	extractor.CategoryGeneral:     "#6b7280",
}

func ColorFor(c extractor.Category) string {
	if color, ok := CategoryColors[c]; ok {
		return color
	}
	return DefaultColor
}

// Lighten adds amount to each RGB channel of a #rrggbb color, clamping at 255.
// Malformed input is returned unchanged.
func Lighten(hex string, amount int) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return hex
	}
	rgb, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return hex
	}
	channel := func(shift uint) int {
		return min(255, max(0, int((rgb>>shift)&0xff)+amount))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(16), channel(8), channel(0))
}
