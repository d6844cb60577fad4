package logger

import (
	"strconv"
	"strings"
	"sync"
)

const defaultDebugSample = "1/50"

// debugSampler keeps `keep` lines out of every `window` high-volume debug events.
// A zero window keeps everything.
type debugSampler struct {
	mu     sync.Mutex
	keep   int
	window int
	seen   int
	force  bool
}

func newDebugSampler(spec string) *debugSampler {
	s := &debugSampler{}
	s.Configure(spec, false)
	return s
}

// Configure applies a ratio spec ("1/50", "20", "all") and resets the window.
// force keeps every line regardless of the ratio.
func (s *debugSampler) Configure(spec string, force bool) {
	keep, window := parseSampleSpec(spec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keep, s.window, s.seen, s.force = keep, window, 0, force
}

func (s *debugSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.force || s.window == 0 {
		return true
	}
	s.seen = s.seen%s.window + 1
	return s.seen <= s.keep
}

// parseSampleSpec returns the kept/window pair for spec. Empty or malformed
// specs fall back to 1/50; "all", "off" and non-positive values keep everything.
func parseSampleSpec(spec string) (int, int) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	switch spec {
	case "":
		spec = defaultDebugSample
	case "all", "off", "none":
		return 0, 0
	}

	if a, b, ok := strings.Cut(spec, "/"); ok {
		keep, err1 := strconv.Atoi(strings.TrimSpace(a))
		window, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return parseSampleSpec(defaultDebugSample)
		}
		if keep <= 0 || window <= 0 || keep >= window {
			return 0, 0
		}
		return keep, window
	}

	window, err := strconv.Atoi(spec)
	if err != nil {
		return parseSampleSpec(defaultDebugSample)
	}
	if window <= 1 {
		return 0, 0
	}
	return 1, window
}
