package domain

import "time"

// OutcomeStatus is the terminal state of one item.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeDegraded means the content transferred but the metadata
	// attachment failed; the artifact itself is safely stored.
	OutcomeDegraded OutcomeStatus = "degraded"
	OutcomeFailed   OutcomeStatus = "failed"
)

// UploadOutcome is the per-item result. Every item reaches exactly one
// outcome, independent of all other items.
type UploadOutcome struct {
	Item       RecordingItem
	Status     OutcomeStatus
	RemotePath string
	Err        error
}

func Success(item RecordingItem, remotePath string) UploadOutcome {
	return UploadOutcome{Item: item, Status: OutcomeSuccess, RemotePath: remotePath}
}

func Degraded(item RecordingItem, remotePath string, err error) UploadOutcome {
	return UploadOutcome{Item: item, Status: OutcomeDegraded, RemotePath: remotePath, Err: err}
}

func Failure(item RecordingItem, err error) UploadOutcome {
	return UploadOutcome{Item: item, Status: OutcomeFailed, Err: err}
}

// KindCounts aggregates outcomes for one media kind.
type KindCounts struct {
	Attempted int
	Succeeded int
	Degraded  int
	Failed    int
}

// RunSummary is built by the orchestrator and returned as a value; it is the
// basis for the process exit code.
type RunSummary struct {
	Counts       map[MediaKind]*KindCounts
	MemberErrors []MemberError
	Duration     time.Duration
}

func NewRunSummary() *RunSummary {
	return &RunSummary{Counts: make(map[MediaKind]*KindCounts)}
}

// Record folds one outcome into the per-kind counters.
func (s *RunSummary) Record(o UploadOutcome) {
	kind := o.Item.Kind()
	counts, ok := s.Counts[kind]
	if !ok {
		counts = &KindCounts{}
		s.Counts[kind] = counts
	}

	counts.Attempted++
	switch o.Status {
	case OutcomeSuccess:
		counts.Succeeded++
	case OutcomeDegraded:
		counts.Degraded++
	case OutcomeFailed:
		counts.Failed++
	}
}

func (s *RunSummary) TotalAttempted() int { return s.total(func(c *KindCounts) int { return c.Attempted }) }
func (s *RunSummary) TotalSucceeded() int { return s.total(func(c *KindCounts) int { return c.Succeeded }) }
func (s *RunSummary) TotalDegraded() int  { return s.total(func(c *KindCounts) int { return c.Degraded }) }
func (s *RunSummary) TotalFailed() int    { return s.total(func(c *KindCounts) int { return c.Failed }) }

func (s *RunSummary) total(pick func(*KindCounts) int) int {
	n := 0
	for _, c := range s.Counts {
		n += pick(c)
	}
	return n
}

// OK reports whether the run earned a zero exit code: no failed items and no
// member listing errors. A run with zero items is OK.
func (s *RunSummary) OK() bool {
	return s.TotalFailed() == 0 && len(s.MemberErrors) == 0
}
