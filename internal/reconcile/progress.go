package reconcile

import "taruvae-orders/internal/models"

// ProgressNotApplicable is the sentinel for statuses outside the
// fulfillment timeline (cancelled, unknown). It must never be
// rendered as a timeline position.
const ProgressNotApplicable = 0

// ProgressSteps is the number of steps in the fulfillment timeline.
var ProgressSteps = len(models.StatusProgression)

// Progress maps a status to its 1-based position in the fulfillment
// timeline (confirmed=1 .. delivered=5). Cancelled and unrecognized
// statuses yield ProgressNotApplicable.
func Progress(status string) int {
	for i, s := range models.StatusProgression {
		if s == status {
			return i + 1
		}
	}
	return ProgressNotApplicable
}

// ProgressFraction is the canonical progress-bar fill for a status:
// 0.0 at confirmed, 1.0 at delivered, 0.0 for statuses outside the
// timeline. Every screen rendering a progress bar uses this one
// formula.
func ProgressFraction(status string) float64 {
	step := Progress(status)
	if step == ProgressNotApplicable {
		return 0
	}
	return float64(step-1) / float64(ProgressSteps-1)
}
