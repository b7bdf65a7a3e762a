package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhases(t *testing.T) {
	p := NewProfiler()
	p.Begin("repair")
	p.Begin("deserialize")
	time.Sleep(time.Millisecond)
	assert.Positive(t, p.End("deserialize"))
	p.End("repair")
	assert.Zero(t, p.End("never-started"))

	phases := p.Report()
	require.Len(t, phases, 2)
	assert.Equal(t, "deserialize", phases[0].Name)
	assert.Equal(t, "repair", phases[1].Name)
	assert.GreaterOrEqual(t, phases[1].Duration, phases[0].Duration)
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	p.Begin("x")
	assert.Zero(t, p.End("x"))
	assert.Nil(t, p.Report())
}
