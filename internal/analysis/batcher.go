package analysis

import "github.com/brandlift/partnerfit/internal/model"

// windowSizes keys concurrency window size by analysis type. The scoring
// provider tolerates at most this many in-flight requests per client.
var windowSizes = map[model.AnalysisType]int{
	model.AnalysisTypeBrandFit: 8,
}

const defaultWindowSize = 8

// windowSizeFor returns the window size for an analysis type.
func windowSizeFor(t model.AnalysisType) int {
	if size, ok := windowSizes[t]; ok {
		return size
	}
	return defaultWindowSize
}

// windows splits handles into consecutive slices of at most size elements.
// Windows preserve request order and never overlap; empty input yields nil.
func windows(handles []string, size int) [][]string {
	if size <= 0 {
		size = defaultWindowSize
	}

	var out [][]string
	for start := 0; start < len(handles); start += size {
		end := start + size
		if end > len(handles) {
			end = len(handles)
		}
		out = append(out, handles[start:end])
	}
	return out
}
