package acquire

import "github.com/canique/goulv/pkg/adc"

// Batch is the aggregate of one cycle's conversion attempts. Individual
// samples are not retained past aggregation.
type Batch struct {
	SumCounts  uint32 // sum of valid raw counts
	ValidCount int    // number of valid samples, 0..n
}

// Acquirer performs noise-reduction-sleep sampling against a peripheral that
// the power controller has already enabled.
type Acquirer struct {
	periph         adc.Peripheral
	filterSpurious bool
}

// New creates an acquirer with spurious-wake filtering on.
func New(periph adc.Peripheral) *Acquirer {
	return &Acquirer{
		periph:         periph,
		filterSpurious: true,
	}
}

// SetFilterSpurious toggles the spurious-wake filter. With the filter off a
// wake is only rejected when the conversion is genuinely unfinished, matching
// the older board sketch that reads the converter regardless of what woke it.
func (a *Acquirer) SetFilterSpurious(on bool) {
	a.filterSpurious = on
}

// Collect runs exactly n conversion attempts and returns the aggregated
// batch. Each attempt starts one conversion and suspends in noise-reduction
// sleep until a wake event. A spurious wake discards that attempt without a
// retry; the attempt budget is consumed regardless, so ValidCount may be 0.
//
// Attempts are strictly sequential: attempt i+1 does not begin until attempt
// i's read-out or rejection completes.
func (a *Acquirer) Collect(n int) Batch {
	var batch Batch

	for i := 0; i < n; i++ {
		a.periph.StartConversion()
		reason := a.periph.SleepUntilDone()

		if a.filterSpurious && reason != adc.WakeConversionDone {
			continue
		}
		if a.periph.Busy() {
			// Conversion still in flight, nothing to read yet.
			continue
		}

		batch.SumCounts += uint32(a.periph.Result())
		batch.ValidCount++
	}

	return batch
}
