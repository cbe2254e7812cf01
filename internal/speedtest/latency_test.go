package speedtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceProbesAllFailedAborts(t *testing.T) {
	latency, jitter, ok := reduceProbes([pingProbes]int64{0, 0, 0, 0, 0, 0})
	assert.False(t, ok)
	assert.Equal(t, float64(0), latency)
	assert.Equal(t, float64(0), jitter)
}

func TestReduceProbesUniformHasZeroJitter(t *testing.T) {
	latency, jitter, ok := reduceProbes([pingProbes]int64{20000, 20000, 20000, 20000, 20000, 20000})
	require := assert.New(t)
	require.True(ok)
	require.Equal(20.0, latency)
	require.Equal(0.0, jitter)
}

func TestReduceProbesMinAndJitter(t *testing.T) {
	// microseconds: min is 10000 -> 10ms. deviations from min over the
	// other five: 0 + 10000 + 20000 + 0 + 5000 = 35000us / 5000 = 7.0ms.
	probes := [pingProbes]int64{10000, 20000, 30000, 10000, 15000, 10000}
	latency, jitter, ok := reduceProbes(probes)
	assert.True(t, ok)
	assert.Equal(t, 10.0, latency)
	assert.Equal(t, 7.0, jitter)
}

func TestReduceProbesIgnoresFailedProbesInReduction(t *testing.T) {
	// A zero entry is a failed probe and contributes neither to min nor jitter.
	probes := [pingProbes]int64{0, 20000, 0, 10000, 0, 30000}
	latency, jitter, ok := reduceProbes(probes)
	assert.True(t, ok)
	assert.Equal(t, 10.0, latency)
	// deviations: (20000-10000)+(10000-10000)+(30000-10000) = 30000 / 5000 = 6.0
	assert.Equal(t, 6.0, jitter)
}
