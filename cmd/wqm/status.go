package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/config"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/types"
)

type statusData struct {
	status      *types.Status
	calibration *types.CalibrationStatus
	config      *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	st, err := apiClient.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	cal, err := apiClient.GetCalibration()
	if err != nil {
		return nil, fmt.Errorf("failed to get calibration: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		status:      st,
		calibration: cal,
		config:      conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of wqm",
		Long:    `Get the water state, calibration and monitor configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Get various info first.
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			conf := config.NewFileFromConfig(data.config, "")

			// Water status.
			cmd.Println(bold("Water status:"))
			cmd.Printf("  State: %s\n", stateText(data.status.State))
			cmd.Printf("  Turbidity index: %s\n", bold("%d / 100", data.status.Index))
			cmd.Printf("  Raw median: %s  Smoothed: %s\n",
				bold("%d", data.status.RawMedian), bold("%.1f", data.status.EMARaw))
			uptime := time.Duration(data.status.ElapsedMS) * time.Millisecond
			cmd.Printf("  Monitoring for: %s\n", bold("%s", uptime.Round(time.Second)))
			if !data.status.Calibrated {
				cmd.Println("    Readings are uncalibrated. The index is a rough full-range mapping.")
			}

			cmd.Println()

			// Calibration.
			cmd.Println(bold("Calibration:"))
			cmd.Println("  Loaded: " + bool2Text(data.calibration.Loaded))
			if data.calibration.Loaded {
				cmd.Printf("  Clear reference: %s\n", bold("%d", data.calibration.ClearRaw))
				cmd.Printf("  Cloudy reference: %s\n", bold("%d", data.calibration.CloudyRaw))
			}
			switch data.calibration.Stage {
			case "WaitClear":
				cmd.Println("  Next step: put the sensor in clear reference water, then run \"wqm calibrate capture\" or hold the button.")
			case "WaitCloudy":
				cmd.Println("  Next step: put the sensor in cloudy reference water, then run \"wqm calibrate capture\" or hold the button.")
			}

			cmd.Println()

			// Config.
			cmd.Println(bold("Monitor configuration:"))
			cmd.Printf("  Samples per cycle: %s\n", bold("%d", conf.SampleCount()))
			cmd.Printf("  Sample delay: %s\n", bold("%s", conf.SampleDelay()))
			cmd.Printf("  Loop interval: %s\n", bold("%s", conf.LoopInterval()))
			cmd.Printf("  Smoothing alpha: %s\n", bold("%v", conf.SmoothingAlpha()))
			cmd.Printf("  Long press duration: %s\n", bold("%s", conf.LongPressDuration()))
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			return nil
		},
	}
}
