package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

func parseFloatArg(args []string, valueName string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func stateText(state string) string {
	switch state {
	case "CLEAR":
		return color.New(color.Bold, color.FgGreen).Sprint(state)
	case "MODERATE":
		return color.New(color.Bold, color.FgYellow).Sprint(state)
	case "TURBID":
		return color.New(color.Bold, color.FgRed).Sprint(state)
	}
	return bold("%s", state)
}
