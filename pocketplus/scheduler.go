package pocketplus

// Scheduler derives the per-packet new_mask/send_mask/uncompressed flags
// that CompressPacket needs, so a caller only has to feed packets in and
// never has to reason about countdown counters directly.
//
// CCSDS 124.0-B-1 section 4.6 describes the schedule as three independent
// "countdown to 1, then reset" counters, each initialized to its
// configured period (Lp, Lf, Lr) and evaluated only once the
// initialization window (t <= R) has passed; within the window the three
// flags are forced to (new_mask, send_mask, uncompressed) = (0, 1, 1)
// regardless of the counters. Section 8's trigger-arithmetic property
// gives the same schedule in closed form — ṗₜ fires exactly when
// (t-R) mod Lp == 0 and t > R — which is what this type computes
// directly; it is equivalent to running the countdown counters and
// sidesteps the off-by-one mistake of naively writing t % Lp == 0 (that
// fires at t=0 and ignores R entirely, which is wrong: the spec is
// explicit that the first firing is at t = Lp + R).
type Scheduler struct {
	robustness int
	periodP    int
	periodF    int
	periodR    int
}

// NewScheduler builds a Scheduler for the given robustness window and
// period limits. CompressorConfig.Validate rejects a period <= 0 before
// a Compressor (and its Scheduler) is ever built; fires treats such a
// period as "never fires on its own schedule" purely as a defensive
// fallback for callers that construct a Scheduler directly.
func NewScheduler(robustness, periodP, periodF, periodR int) *Scheduler {
	return &Scheduler{robustness: robustness, periodP: periodP, periodF: periodF, periodR: periodR}
}

// Next returns the (new_mask, send_mask, uncompressed) flags for packet t.
func (s *Scheduler) Next(t int) (newMaskFlag, sendMaskFlag, uncompressedFlag bool) {
	if t <= s.robustness {
		return false, true, true
	}
	elapsed := t - s.robustness
	return fires(elapsed, s.periodP), fires(elapsed, s.periodF), fires(elapsed, s.periodR)
}

func fires(elapsed, period int) bool {
	return period > 0 && elapsed%period == 0
}
