package core

// BotMetrics is the finalized quality signal for one bot. Ratios are in [0,1]
// and all zero when TotalComments is zero.
type BotMetrics struct {
	CriticalBugRatio float64 `json:"critical_bug_ratio" yaml:"critical_bug_ratio"`
	NitpickRatio     float64 `json:"nitpick_ratio" yaml:"nitpick_ratio"`
	OtherRatio       float64 `json:"other_ratio" yaml:"other_ratio"`
	TotalComments    int     `json:"total_comments" yaml:"total_comments"`
}

// Count returns the raw number of comments in category c, recovered from the ratio.
func (m BotMetrics) Count(c Category) int {
	var ratio float64
	switch c {
	case CategoryCriticalBug:
		ratio = m.CriticalBugRatio
	case CategoryNitpick:
		ratio = m.NitpickRatio
	default:
		ratio = m.OtherRatio
	}
	return int(ratio*float64(m.TotalComments) + 0.5)
}

// Ratio returns the ratio for category c.
func (m BotMetrics) Ratio(c Category) float64 {
	switch c {
	case CategoryCriticalBug:
		return m.CriticalBugRatio
	case CategoryNitpick:
		return m.NitpickRatio
	default:
		return m.OtherRatio
	}
}

// Tally holds the raw running counts for one bot during classification.
// It is a distinct type from BotMetrics so finalization can only happen once.
type Tally struct {
	CriticalBug int
	Nitpick     int
	Other       int
	Total       int
}

// Add records one classified comment.
func (t *Tally) Add(c Category) {
	switch c {
	case CategoryCriticalBug:
		t.CriticalBug++
	case CategoryNitpick:
		t.Nitpick++
	default:
		t.Other++
	}
	t.Total++
}

// Merge adds the counts of o into t.
func (t *Tally) Merge(o Tally) {
	t.CriticalBug += o.CriticalBug
	t.Nitpick += o.Nitpick
	t.Other += o.Other
	t.Total += o.Total
}

// Finalize converts the raw counts into ratios.
func (t Tally) Finalize() BotMetrics {
	if t.Total <= 0 {
		return BotMetrics{}
	}
	total := float64(t.Total)
	return BotMetrics{
		CriticalBugRatio: float64(t.CriticalBug) / total,
		NitpickRatio:     float64(t.Nitpick) / total,
		OtherRatio:       float64(t.Other) / total,
		TotalComments:    t.Total,
	}
}

// FinalizeAll finalizes every tally.
func FinalizeAll(tallies map[string]Tally) map[string]BotMetrics {
	out := make(map[string]BotMetrics, len(tallies))
	for bot, t := range tallies {
		out[bot] = t.Finalize()
	}
	return out
}
