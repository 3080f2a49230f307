package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewCalibrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calibrate",
		Short:   "Manage the two-point calibration",
		GroupID: gBasic,
		Long: `Manage the two-point calibration.

The monitor maps raw readings between two captured references: one taken in
clear water and one in cloudy water. Captures can be taken with the hardware
button (press and hold) or with "wqm calibrate capture".`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the stored calibration and the capture flow stage",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cal, err := apiClient.GetCalibration()
				if err != nil {
					return fmt.Errorf("failed to get calibration: %v", err)
				}

				cmd.Println("Loaded: " + bool2Text(cal.Loaded))
				if cal.Loaded {
					cmd.Printf("Clear reference: %s\n", bold("%d", cal.ClearRaw))
					cmd.Printf("Cloudy reference: %s\n", bold("%d", cal.CloudyRaw))
				}
				cmd.Printf("Stage: %s\n", bold("%s", cal.Stage))

				return nil
			},
		},
		&cobra.Command{
			Use:   "capture",
			Short: "Capture the next calibration reference",
			Long: `Capture the next calibration reference.

This does exactly what a long press on the hardware button does: in the
WaitClear stage it captures the clear reference, in the WaitCloudy stage it
captures the cloudy reference and saves the calibration. When a calibration
is already saved, it is invalidated and the flow restarts.`,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := apiClient.Capture()
				if err != nil {
					return fmt.Errorf("failed to capture: %v", err)
				}

				logrus.Infof("daemon responded: %s", ret)

				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Discard the calibration and restart the capture flow",
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := apiClient.ResetCalibration()
				if err != nil {
					return fmt.Errorf("failed to reset calibration: %v", err)
				}

				logrus.Infof("daemon responded: %s", ret)

				return nil
			},
		},
	)

	return cmd
}
