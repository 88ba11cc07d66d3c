//go:generate tinygo flash -target=arduino

//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/canique/goulv/pkg/volt"
)

// cal holds the conversion constants for the 3.3 V board variant. After
// comparing a unit against a multimeter, set Correction to
// (true voltage / reported voltage) for that unit and reflash.
var cal = volt.Calibration{
	VRef:       1.1,
	FullScale:  1023,
	R1:         680000,
	R2:         309000,
	Correction: 1.0,
}

var (
	adcBattery machine.ADC
	uart       = machine.UART0
)

func main() {
	// Enable pin drives the divider's high side; keep it low outside the
	// measurement window so no current leaks through the divider.
	PIN_ENABLE.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_ENABLE.Low()

	PIN_BATTERY_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})

	machine.InitADC()
	adcBattery = machine.ADC{Pin: PIN_BATTERY_ADC}
	adcBattery.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	for {
		mv := measureOnce()
		outputReading(mv)
		time.Sleep(SLEEP_INTERVAL)
	}
}

// measureOnce powers the measurement circuit, collects NUM_SAMPLES raw counts
// and converts their average to millivolts.
func measureOnce() uint16 {
	PIN_ENABLE.High()
	time.Sleep(WARMUP_DELAY) // let the internal reference stabilize
	time.Sleep(SETTLE_DELAY) // let the divider node settle

	var sum uint32
	var count int
	for i := 0; i < NUM_SAMPLES; i++ {
		// Get returns a 16-bit scaled value regardless of hardware
		// resolution; shift back down to the native 10-bit count.
		raw := adcBattery.Get() >> (16 - ADC_RESOLUTION)
		sum += uint32(raw)
		count++
	}

	PIN_ENABLE.Low()

	return volt.ComputeMillivolts(sum, count, cal)
}

// outputReading prints the reading line over UART.
// Format: "Canique ULV Board battery voltage: <mv> mv\n"
func outputReading(mv uint16) {
	print("Canique ULV Board battery voltage: ")
	print(mv)
	print(" mv\n")
}
