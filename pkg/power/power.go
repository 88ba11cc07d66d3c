package power

import (
	"time"

	"github.com/canique/goulv/pkg/adc"
)

// EnablePin is the GPIO driving the measurement circuit's enable signal.
type EnablePin interface {
	High()
	Low()
}

// NopPin is an EnablePin for boards where the divider is permanently wired,
// and for host-side simulation.
type NopPin struct{}

func (NopPin) High() {}
func (NopPin) Low()  {}

// Controller owns the analog peripheral and the enable GPIO and sequences
// them into and out of the measuring state.
//
// The measurement circuit (divider plus reference) draws current only while
// enabled; gating it to the brief measurement window is the dominant
// power-saving lever of the whole design. The circuit must be disabled before
// every deep sleep so no current leaks through the divider.
type Controller struct {
	periph adc.Peripheral
	pin    EnablePin

	warmup time.Duration
	settle time.Duration

	sleep   func(time.Duration)
	enabled bool
}

// New creates a controller for the given peripheral and enable pin. The
// warm-up delay must be long enough for the internal reference to stabilize
// (several milliseconds); the settle delay lets the divider node reach its
// final voltage (hundreds of microseconds).
func New(periph adc.Peripheral, pin EnablePin, warmup, settle time.Duration) *Controller {
	if pin == nil {
		pin = NopPin{}
	}
	return &Controller{
		periph: periph,
		pin:    pin,
		warmup: warmup,
		settle: settle,
		sleep:  time.Sleep,
	}
}

// SetSleep replaces the blocking primitive used for the stabilization delays.
// Tests use this to avoid real sleeps.
func (c *Controller) SetSleep(sleep func(time.Duration)) {
	if sleep != nil {
		c.sleep = sleep
	}
}

// EnableMeasurementCircuit raises the enable signal, selects the internal
// 1.1 V reference, powers the converter and blocks for the warm-up delay.
// No sample is trustworthy before this returns.
func (c *Controller) EnableMeasurementCircuit() {
	c.pin.High()
	c.periph.SelectReference(adc.ReferenceInternal1V1)
	c.periph.Enable()
	c.sleep(c.warmup)
	c.enabled = true
}

// ArmPerCycleSettle blocks for the pre-sample settle delay. Called once per
// cycle, after the enable signal is raised and before the first conversion.
func (c *Controller) ArmPerCycleSettle() {
	c.sleep(c.settle)
}

// DisableMeasurementCircuit powers the converter down and clears the enable
// signal, returning the node to its lowest-power baseline.
func (c *Controller) DisableMeasurementCircuit() {
	c.periph.Disable()
	c.pin.Low()
	c.enabled = false
}

// Enabled reports whether the measurement circuit is currently powered.
func (c *Controller) Enabled() bool {
	return c.enabled
}
