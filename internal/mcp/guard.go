package mcp

import (
	"context"

	"github.com/mdombrov-33/go-promptguard/detector"
)

// withheld replaces text that the injection screen flagged.
const withheld = "[withheld: content flagged by injection screening]"

// promptGuard screens content before it is handed to an agent. Pattern and
// statistical detectors only, no LLM judge.
var promptGuard = detector.New(
	detector.WithThreshold(0.6),
	detector.WithAllDetectors(),
	detector.WithMaxInputLength(1000),
)

// flagged reports whether text looks like a prompt injection attempt.
// Long bodies are screened in overlapping windows since the detector caps
// its input.
func flagged(ctx context.Context, text string) bool {
	const window, overlap = 1000, 200
	for start := 0; start < len(text); start += window - overlap {
		end := min(start+window, len(text))
		if !promptGuard.Detect(ctx, text[start:end]).Safe {
			return true
		}
		if end == len(text) {
			break
		}
	}
	return false
}

// screen returns text, or the withheld marker if it was flagged.
func screen(ctx context.Context, text string) string {
	if flagged(ctx, text) {
		return withheld
	}
	return text
}
