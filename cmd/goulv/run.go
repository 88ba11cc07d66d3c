package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/canique/goulv/pkg/acquire"
	"github.com/canique/goulv/pkg/adc"
	"github.com/canique/goulv/pkg/config"
	"github.com/canique/goulv/pkg/cycle"
	"github.com/canique/goulv/pkg/power"
	"github.com/canique/goulv/pkg/report"
	"github.com/canique/goulv/pkg/volt"
)

func newRunCommand() *cobra.Command {
	var (
		portFlag     string
		cyclesFlag   int
		intervalFlag time.Duration
		quietFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the measurement cycle against the simulated peripheral",
		Long: `Run executes the measure-report-sleep cycle on the host using the
simulated analog peripheral. The real peripheral lives in the board firmware;
the host build exists to exercise the cycle logic and to feed readings into a
serial sink for integration work.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}
			if portFlag != "" {
				cfg.Serial.Port = portFlag
			}
			if intervalFlag > 0 {
				cfg.Sleep.Interval = intervalFlag
			}

			cal := calibrationFromConfig(cfg)
			logrus.WithFields(logrus.Fields{
				"variant":    cfg.Board.Variant,
				"multiplier": cal.Multiplier(),
				"interval":   cfg.Sleep.Interval,
			}).Info("starting measurement loop")

			periph := adc.NewSim(&cfg.Sim, cal)
			pwr := power.New(periph, power.NopPin{}, cfg.Sampling.WarmupDelay, cfg.Sampling.SettleDelay)

			acq := acquire.New(periph)
			acq.SetFilterSpurious(!cfg.Sampling.KeepSpurious)

			reporters := report.MultiReporter{}
			if !quietFlag {
				reporters = append(reporters, report.NewWriter(cmd.OutOrStdout()))
			}
			if portFlag != "" {
				sr, err := report.OpenSerial(cfg.Serial.Port, cfg.Serial.BaudRate)
				if err != nil {
					return errors.Wrap(err, "failed to open serial sink")
				}
				defer sr.Close()
				reporters = append(reporters, sr)
			}
			if len(reporters) == 0 {
				reporters = append(reporters, report.NewLog(logrus.StandardLogger()))
			}

			sched := cycle.New(pwr, acq, cal, reporters, cycle.Options{
				Interval:    cfg.Sleep.Interval,
				SampleCount: cfg.Sampling.SampleCount,
				MaxCycles:   cyclesFlag,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "measurement loop failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&portFlag, "port", "p", "", "serial port to mirror readings to (e.g. /dev/ttyACM0)")
	cmd.Flags().IntVarP(&cyclesFlag, "cycles", "n", 0, "number of cycles to run (0 = forever)")
	cmd.Flags().DurationVarP(&intervalFlag, "interval", "i", 0, "deep-sleep interval override")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress stdout reading lines")

	return cmd
}

// calibrationFromConfig builds the immutable calibration constants from the
// board section of the configuration.
func calibrationFromConfig(cfg *config.Config) volt.Calibration {
	return volt.Calibration{
		VRef:       cfg.Board.VRef,
		FullScale:  cfg.Board.FullScale,
		R1:         cfg.Board.R1,
		R2:         cfg.Board.R2,
		Correction: cfg.Board.Correction,
	}
}
