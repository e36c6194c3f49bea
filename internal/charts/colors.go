package charts

// Palette used by every renderer
const (
	Red    = "#ef4444"
	Green  = "#22c55e"
	Amber  = "#f59e0b"
	Blue   = "#3b82f6"
	Purple = "#8b5cf6"
	Cyan   = "#06b6d4"
)

// SlicePalette colors pie slices in order, starting over after the last
var SlicePalette = []string{Blue, Green, Amber, Purple, Red, Cyan}

// Threshold picks the cut-off between the upper and lower tier from the range
type Threshold func(min, max float64) float64

// ThirdOfSum is (min+max)/3
func ThirdOfSum(min, max float64) float64 {
	return (min + max) / 3
}

// SumOver2_5 is (max+min)/2.5
func SumOver2_5(min, max float64) float64 {
	return (max + min) / 2.5
}

// TierColors colors the max value red and the min value green. Other values
// get above when they are at or over the threshold and below otherwise.
func TierColors(values []float64, threshold Threshold, above, below string) []string {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	cut := threshold(min, max)

	colors := make([]string, len(values))
	for i, v := range values {
		switch {
		case v == max:
			colors[i] = Red
		case v == min:
			colors[i] = Green
		case v >= cut:
			colors[i] = above
		default:
			colors[i] = below
		}
	}
	return colors
}

// HighlightLast colors every point base except the last, which gets accent
func HighlightLast(n int, base, accent string) []string {
	if n <= 0 {
		return nil
	}
	colors := make([]string, n)
	for i := range colors {
		colors[i] = base
	}
	colors[n-1] = accent
	return colors
}

// Cycle repeats palette over n values
func Cycle(n int, palette []string) []string {
	if n <= 0 || len(palette) == 0 {
		return nil
	}
	colors := make([]string, n)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
