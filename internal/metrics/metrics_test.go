package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveResolution(t *testing.T) {
	before := testutil.ToFloat64(resolutions.WithLabelValues(SourceAPI, "copy", "none"))

	ObserveResolution(SourceAPI, "copy", "none", 50*time.Microsecond)
	ObserveResolution(SourceAPI, "copy", "none", 70*time.Microsecond)

	assert.Equal(t, before+2, testutil.ToFloat64(resolutions.WithLabelValues(SourceAPI, "copy", "none")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(duration, namespace+"_resolver_duration_seconds"), 1)
}

func TestObserveRejection(t *testing.T) {
	ObserveRejection(SourceState, ReasonNotFound)
	assert.GreaterOrEqual(t, testutil.ToFloat64(failures.WithLabelValues(SourceState, ReasonNotFound)), 1.0)
}

func TestSetProfileReplacesQualityLabel(t *testing.T) {
	SetProfile("high_quality", 4)
	SetProfile("max_quality", 8)

	want := `
# HELP transcodeargs_profile_info Active encoding profile; the value is the CPU count used for thread decisions
# TYPE transcodeargs_profile_info gauge
transcodeargs_profile_info{quality="max_quality"} 8
`
	assert.NoError(t, testutil.CollectAndCompare(profileInfo, strings.NewReader(want)))
}

func TestSetStatesLoaded(t *testing.T) {
	SetStatesLoaded(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(statesLoaded))
}
