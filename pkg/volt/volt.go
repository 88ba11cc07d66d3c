package volt

import "math"

// Calibration holds the static conversion constants for one physical board.
// It is set once at startup and never mutated afterwards.
type Calibration struct {
	VRef       float64 // ADC reference voltage (V), 1.1 for the internal reference
	FullScale  uint16  // ADC full-scale count (1023 for a 10-bit converter)
	R1         float64 // upper divider resistor (ohm)
	R2         float64 // lower divider resistor (ohm)
	Correction float64 // field-measured correction factor, 1.0 when uncalibrated
}

// DividerRatio returns the resistor-divider scale factor (R1+R2)/R2 that maps
// the voltage at the ADC node back to the battery voltage.
func (c Calibration) DividerRatio() float64 {
	return (c.R1 + c.R2) / c.R2
}

// Multiplier returns the combined voltage multiplier: the divider ratio scaled
// by the per-unit correction factor.
func (c Calibration) Multiplier() float64 {
	return c.Correction * c.DividerRatio()
}

// ComputeMillivolts converts one cycle's aggregated raw counts into a battery
// voltage in millivolts.
//
// A validCount of zero means every conversion attempt in the cycle was
// discarded; the sentinel value 0 is returned and must not be read as a 0 V
// battery downstream.
func ComputeMillivolts(sumCounts uint32, validCount int, cal Calibration) uint16 {
	if validCount == 0 {
		return 0
	}

	average := float64(sumCounts) / float64(validCount)
	rawVoltage := average * cal.VRef / float64(cal.FullScale)
	mv := math.Round(1000 * rawVoltage * cal.Multiplier())

	if mv < 0 {
		return 0
	}
	if mv > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(mv)
}
