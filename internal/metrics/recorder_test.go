package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.ObserveStageDuration("load_theme", time.Millisecond)
		r.ObserveBuildDuration(time.Millisecond)
		r.IncStageResult("load_theme", ResultFatal)
		r.IncBuildOutcome(OutcomeCanceled)
		r.AddEntitiesRendered("starter", 1)
		r.AddFilesWritten("asset", 1)
	})
	var _ Recorder = (*PrometheusRecorder)(nil)
}
