package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canique/goulv/pkg/adc"
)

// step scripts one conversion attempt of the fake peripheral.
type step struct {
	wake   adc.WakeReason
	busy   bool // conversion still in flight after the wake
	result uint16
}

// playback is a fake peripheral replaying a fixed sequence of conversion
// attempts. Each StartConversion consumes one scripted step.
type playback struct {
	steps  []step
	starts int
}

func (p *playback) Enable()                             {}
func (p *playback) Disable()                            {}
func (p *playback) SelectReference(adc.ReferenceSource) {}

func (p *playback) StartConversion() { p.starts++ }

func (p *playback) SleepUntilDone() adc.WakeReason { return p.step().wake }
func (p *playback) Busy() bool                     { return p.step().busy }
func (p *playback) Result() uint16                 { return p.step().result }

func (p *playback) step() step {
	if p.starts == 0 || p.starts > len(p.steps) {
		return step{}
	}
	return p.steps[p.starts-1]
}

func TestCollect_AllValid(t *testing.T) {
	periph := &playback{steps: []step{
		{wake: adc.WakeConversionDone, result: 370},
		{wake: adc.WakeConversionDone, result: 372},
		{wake: adc.WakeConversionDone, result: 374},
	}}

	batch := New(periph).Collect(3)

	assert.Equal(t, 3, batch.ValidCount)
	assert.Equal(t, uint32(370+372+374), batch.SumCounts)
	assert.Equal(t, 3, periph.starts, "exactly one conversion per attempt")
}

func TestCollect_SpuriousWakesAreDiscarded(t *testing.T) {
	periph := &playback{steps: []step{
		{wake: adc.WakeConversionDone, result: 400},
		{wake: adc.WakeOther, busy: true},
		{wake: adc.WakeConversionDone, result: 402},
		{wake: adc.WakeOther, busy: true},
	}}

	batch := New(periph).Collect(4)

	assert.Equal(t, 2, batch.ValidCount)
	assert.Equal(t, uint32(802), batch.SumCounts)
	assert.Equal(t, 4, periph.starts, "a spurious wake still consumes its attempt")
}

func TestCollect_AllSpurious(t *testing.T) {
	periph := &playback{steps: []step{
		{wake: adc.WakeOther, busy: true},
		{wake: adc.WakeOther, busy: true},
		{wake: adc.WakeOther, busy: true},
	}}

	batch := New(periph).Collect(3)

	assert.Equal(t, 0, batch.ValidCount)
	assert.Equal(t, uint32(0), batch.SumCounts)
}

func TestCollect_ZeroAttempts(t *testing.T) {
	periph := &playback{}

	batch := New(periph).Collect(0)

	assert.Equal(t, Batch{}, batch)
	assert.Equal(t, 0, periph.starts)
}

func TestCollect_FilterDisabledReadsCompletedConversions(t *testing.T) {
	// The older board sketch reads the converter no matter what ended the
	// sleep. With the filter off, only a genuinely unfinished conversion is
	// rejected.
	periph := &playback{steps: []step{
		{wake: adc.WakeOther, busy: false, result: 500}, // completed despite odd wake
		{wake: adc.WakeOther, busy: true},               // genuinely unfinished
		{wake: adc.WakeConversionDone, result: 502},
	}}

	acq := New(periph)
	acq.SetFilterSpurious(false)
	batch := acq.Collect(3)

	assert.Equal(t, 2, batch.ValidCount)
	assert.Equal(t, uint32(1002), batch.SumCounts)
}

func TestCollect_FilterEnabledRejectsOddWakes(t *testing.T) {
	// Same script, strict policy: the odd wake is rejected even though the
	// conversion happened to finish.
	periph := &playback{steps: []step{
		{wake: adc.WakeOther, busy: false, result: 500},
		{wake: adc.WakeOther, busy: true},
		{wake: adc.WakeConversionDone, result: 502},
	}}

	batch := New(periph).Collect(3)

	assert.Equal(t, 1, batch.ValidCount)
	assert.Equal(t, uint32(502), batch.SumCounts)
}
