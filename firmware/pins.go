//go:build tinygo

package main

import (
	"machine"
	"time"
)

const (
	// Sampling configuration
	NUM_SAMPLES  = 8                      // Conversion attempts per cycle
	WARMUP_DELAY = 5 * time.Millisecond   // Internal reference stabilization
	SETTLE_DELAY = 500 * time.Microsecond // Divider node settle, once per cycle

	// Sleep configuration
	SLEEP_INTERVAL = 8 * time.Second // Interval between measurement cycles

	// ADC configuration
	ADC_REFERENCE_MV = 1100 // Internal reference voltage in millivolts
	ADC_RESOLUTION   = 10   // ADC resolution in bits (10-bit = 0-1023)

	// Measurement circuit enable pin (drives the divider's high side)
	PIN_ENABLE = machine.D4

	// Battery divider ADC pin
	PIN_BATTERY_ADC = machine.A0

	// Serial configuration
	// One short line every SLEEP_INTERVAL; any common baud rate is plenty.
	UART_BAUD_RATE = 115200
)
