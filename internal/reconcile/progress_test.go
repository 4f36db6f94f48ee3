package reconcile

import (
	"testing"

	"taruvae-orders/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 1, Progress(models.StatusConfirmed))
	assert.Equal(t, 2, Progress(models.StatusProcessing))
	assert.Equal(t, 3, Progress(models.StatusShipped))
	assert.Equal(t, 4, Progress(models.StatusOutForDelivery))
	assert.Equal(t, 5, Progress(models.StatusDelivered))
}

func TestProgressCancelledIsNotOnTimeline(t *testing.T) {
	// Scenario E: cancelled must never map to a timeline position.
	assert.Equal(t, ProgressNotApplicable, Progress(models.StatusCancelled))
}

func TestProgressUnknownStatus(t *testing.T) {
	assert.Equal(t, ProgressNotApplicable, Progress("lost_in_transit"))
	assert.Equal(t, ProgressNotApplicable, Progress(""))
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.0, ProgressFraction(models.StatusConfirmed))
	assert.Equal(t, 0.25, ProgressFraction(models.StatusProcessing))
	assert.Equal(t, 0.5, ProgressFraction(models.StatusShipped))
	assert.Equal(t, 0.75, ProgressFraction(models.StatusOutForDelivery))
	assert.Equal(t, 1.0, ProgressFraction(models.StatusDelivered))
	assert.Equal(t, 0.0, ProgressFraction(models.StatusCancelled))
}
