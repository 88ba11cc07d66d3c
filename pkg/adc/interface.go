package adc

// ReferenceSource selects the ADC reference voltage.
type ReferenceSource int

const (
	// ReferenceInternal1V1 is the internal 1.1 V bandgap reference used for
	// battery measurement. It needs several milliseconds to stabilize after
	// the peripheral is enabled.
	ReferenceInternal1V1 ReferenceSource = iota
	// ReferenceVCC is the supply rail, kept for bring-up diagnostics.
	ReferenceVCC
)

// WakeReason reports why a noise-reduction sleep ended.
type WakeReason int

const (
	// WakeConversionDone means the conversion-complete event ended the sleep.
	WakeConversionDone WakeReason = iota
	// WakeOther means some other asynchronous event fired first and the
	// conversion may still be running.
	WakeOther
)

// Peripheral is the interface for the analog peripheral (real or simulated).
// All methods are called from a single thread of control; implementations are
// not required to be safe for concurrent use.
type Peripheral interface {
	// Enable powers up the converter. Readings are not trustworthy until the
	// selected reference has stabilized.
	Enable()
	// Disable powers the converter back down to its lowest-power state.
	Disable()
	// SelectReference picks the reference voltage for subsequent conversions.
	SelectReference(ReferenceSource)
	// StartConversion begins a single conversion.
	StartConversion()
	// SleepUntilDone suspends in noise-reduction sleep until the conversion
	// completes or some other event causes a wake.
	SleepUntilDone() WakeReason
	// Busy reports whether a conversion is still in progress.
	Busy() bool
	// Result returns the raw count of the last completed conversion.
	Result() uint16
}

// Ensure Sim implements Peripheral.
var _ Peripheral = (*Sim)(nil)
