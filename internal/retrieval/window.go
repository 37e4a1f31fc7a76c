package retrieval

import (
	"strings"
	"unicode"
)

// WindowConfig controls the overlapping windows documents are split into.
type WindowConfig struct {
	MaxChars int
	MinChars int
	Overlap  int
}

// DefaultWindowConfig provides the document ingestion defaults.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		MaxChars: 800,
		MinChars: 200,
		Overlap:  150,
	}
}

// splitWindows cuts text into overlapping fixed-size windows, preferring a
// whitespace boundary near the end of each window so words stay intact.
func splitWindows(text string, cfg WindowConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultWindowConfig()
	}
	runes := []rune(clean)
	if len(runes) <= cfg.MaxChars {
		return []string{clean}
	}

	windows := make([]string, 0, 8)
	start := 0
	for start < len(runes) {
		end := start + cfg.MaxChars
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			cut := end
			minCut := start + cfg.MinChars
			if minCut > end {
				minCut = start
			}
			for i := end; i > minCut; i-- {
				if unicode.IsSpace(runes[i-1]) {
					cut = i
					break
				}
			}
			end = cut
		}

		if end <= start {
			break
		}

		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			windows = append(windows, window)
		}

		if end >= len(runes) {
			break
		}

		nextStart := end
		if cfg.Overlap > 0 && end-start > cfg.Overlap {
			nextStart = end - cfg.Overlap
			// Snap forward to the next word start so the overlapped
			// window does not begin mid-word.
			for nextStart < end && !unicode.IsSpace(runes[nextStart-1]) {
				nextStart++
			}
		}
		if nextStart <= start {
			nextStart = end
		}
		start = nextStart
	}

	return windows
}
