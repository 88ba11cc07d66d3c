package cycle

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/canique/goulv/pkg/acquire"
	"github.com/canique/goulv/pkg/power"
	"github.com/canique/goulv/pkg/report"
	"github.com/canique/goulv/pkg/volt"
)

// State identifies where the scheduler is within a measurement cycle.
type State int

const (
	StateIdle State = iota
	StateMeasuring
	StateNoiseSleep
	StateReporting
	StateDeepSleep
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMeasuring:
		return "measuring"
	case StateNoiseSleep:
		return "noise-sleep"
	case StateReporting:
		return "reporting"
	case StateDeepSleep:
		return "deep-sleep"
	default:
		return "unknown"
	}
}

// DeepSleeper parks the device between measurement cycles. On hardware this
// is power-down sleep woken by a low-power timer; on the host it is a plain
// timer wait.
type DeepSleeper interface {
	DeepSleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper is the host-side DeepSleeper. The wait ends early if the
// context is cancelled.
type TimerSleeper struct{}

// DeepSleep waits for d or until ctx is done.
func (TimerSleeper) DeepSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures a Scheduler.
type Options struct {
	Interval    time.Duration // deep-sleep interval between cycles
	SampleCount int           // conversion attempts per cycle
	MaxCycles   int           // 0 = run forever
	Sleeper     DeepSleeper   // nil = TimerSleeper
	Logger      logrus.FieldLogger
}

// Scheduler is the outer control loop: run one full measurement cycle, emit
// the reading, then park the device in deep sleep for a fixed interval before
// repeating.
type Scheduler struct {
	pwr      *power.Controller
	acq      *acquire.Acquirer
	cal      volt.Calibration
	reporter report.Reporter

	sleeper     DeepSleeper
	interval    time.Duration
	sampleCount int
	maxCycles   int

	log   logrus.FieldLogger
	state State
}

// New creates a scheduler for the given measurement chain.
func New(pwr *power.Controller, acq *acquire.Acquirer, cal volt.Calibration, reporter report.Reporter, opts Options) *Scheduler {
	if opts.Sleeper == nil {
		opts.Sleeper = TimerSleeper{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = 8
	}
	if opts.Interval <= 0 {
		opts.Interval = 8 * time.Second
	}

	return &Scheduler{
		pwr:         pwr,
		acq:         acq,
		cal:         cal,
		reporter:    reporter,
		sleeper:     opts.Sleeper,
		interval:    opts.Interval,
		sampleCount: opts.SampleCount,
		maxCycles:   opts.MaxCycles,
		log:         opts.Logger,
		state:       StateIdle,
	}
}

// State returns the scheduler's current cycle state.
func (s *Scheduler) State() State {
	return s.state
}

// Run executes measurement cycles until ctx is cancelled or, when MaxCycles
// is set, until that many cycles have completed. On hardware the loop never
// terminates during normal operation; the cycle bound exists for host-side
// harnesses.
//
// The measurement circuit is always disabled before entering deep sleep so no
// current leaks through the divider while parked.
func (s *Scheduler) Run(ctx context.Context) error {
	for n := 0; s.maxCycles == 0 || n < s.maxCycles; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.setState(StateMeasuring)
		s.pwr.EnableMeasurementCircuit()
		s.pwr.ArmPerCycleSettle()

		s.setState(StateNoiseSleep)
		batch := s.acq.Collect(s.sampleCount)

		s.pwr.DisableMeasurementCircuit()

		s.setState(StateReporting)
		mv := volt.ComputeMillivolts(batch.SumCounts, batch.ValidCount, s.cal)
		s.log.WithFields(logrus.Fields{
			"valid":      batch.ValidCount,
			"attempts":   s.sampleCount,
			"millivolts": mv,
		}).Debug("cycle complete")

		// A failed hand-off must not kill the loop; the next cycle produces a
		// fresh reading anyway.
		if err := s.reporter.Report(mv); err != nil {
			s.log.WithError(err).Warn("failed to report reading")
		}

		s.setState(StateDeepSleep)
		if err := s.sleeper.DeepSleep(ctx, s.interval); err != nil {
			return err
		}
		s.setState(StateIdle)
	}

	return nil
}

func (s *Scheduler) setState(st State) {
	s.state = st
	s.log.WithField("state", st.String()).Trace("state transition")
}
