package preview

import (
	"fmt"
	"sync"
	"time"

	"git.home.luguber.info/inful/eepbuilder/internal/build"
)

// buildStatus tracks the outcome of the latest build for the status page.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *build.Report
	lastBuild    time.Time
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) record(report *build.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastReport = report
	bs.lastBuild = time.Now()
	if err == nil || pagesWritten(report) {
		bs.hasGoodBuild = true
	}
}

// pagesWritten reports whether a failed build still left usable pages,
// as when a single document fails to parse.
func pagesWritten(r *build.Report) bool {
	return r != nil && len(r.Rendered)+len(r.Skipped) > 0
}

// StatusSnapshot is the JSON body of /status.
type StatusSnapshot struct {
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
	RunID        string    `json:"run_id,omitempty"`
	Rendered     int       `json:"rendered"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	Failures     []string  `json:"failures,omitempty"`
	LastBuild    time.Time `json:"last_build"`
	HasGoodBuild bool      `json:"has_good_build"`
}

func (bs *buildStatus) snapshot() StatusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	s := StatusSnapshot{
		OK:           bs.lastError == nil,
		LastBuild:    bs.lastBuild,
		HasGoodBuild: bs.hasGoodBuild,
	}
	if bs.lastError != nil {
		s.Error = bs.lastError.Error()
	}
	if r := bs.lastReport; r != nil {
		s.RunID = r.RunID
		s.Rendered = len(r.Rendered)
		s.Skipped = len(r.Skipped)
		s.Failed = len(r.Failures)
		for _, f := range r.Failures {
			s.Failures = append(s.Failures, fmt.Sprintf("%s: %v", f.Path, f.Err))
		}
	}
	return s
}
