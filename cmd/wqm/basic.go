package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/version"
)

func getVersion() (string, string, error) {
	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "index",
		Short:   "Print the current turbidity index",
		GroupID: gBasic,
		Long: `Print the current turbidity index.

The index is a number from 0 (clear reference) to 100 (cloudy reference),
suitable for scripting. Use "wqm status" for a human-readable view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			index, err := apiClient.GetIndex()
			if err != nil {
				return fmt.Errorf("failed to get turbidity index: %v", err)
			}

			cmd.Printf("%d\n", index)

			return nil
		},
	}
}

func NewAlphaCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "alpha [value]",
		Short:   "Set the smoothing factor",
		GroupID: gAdvanced,
		Long: `Set the exponential smoothing factor.

This is a number strictly between 0 and 1. Smaller values smooth more and
react slower; larger values follow the raw readings more closely. The running
average is kept, so the displayed value does not jump when you change it.`,
		RunE: func(_ *cobra.Command, args []string) error {
			alpha, err := parseFloatArg(args, "alpha")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetAlpha(alpha)
			if err != nil {
				return fmt.Errorf("failed to set alpha: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set smoothing alpha to %v", alpha)

			return nil
		},
	}
}
