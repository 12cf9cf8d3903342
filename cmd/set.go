// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Voltbench

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltbench/dps150ctl/pkg/dps150"
)

var (
	setGroupVoltage float64
	setGroupCurrent float64
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one device setting and exit",
	Long: `One-shot setting changes.

Examples:
  dps150ctl set voltage 5.0 --port /dev/ttyACM0
  dps150ctl set current 1.5 --port /dev/ttyACM0
  dps150ctl set output on --port /dev/ttyACM0
  dps150ctl set metering off --port /dev/ttyACM0
  dps150ctl set brightness 7 --port /dev/ttyACM0
  dps150ctl set protection ovp 21.0 --port /dev/ttyACM0
  dps150ctl set group 2 --voltage 12.0 --current 2.0 --port /dev/ttyACM0`,
}

var setVoltageCmd = &cobra.Command{
	Use:   "voltage <volts>",
	Short: "Set the output voltage setpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		volts, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid voltage %q: %v", args[0], err)
		}
		return withSession(func(s *dps150.Session) error {
			return s.SetVoltage(volts)
		})
	},
}

var setCurrentCmd = &cobra.Command{
	Use:   "current <amps>",
	Short: "Set the output current limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amps, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid current %q: %v", args[0], err)
		}
		return withSession(func(s *dps150.Session) error {
			return s.SetCurrent(amps)
		})
	},
}

var setOutputCmd = &cobra.Command{
	Use:   "output <on|off>",
	Short: "Enable or disable the output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *dps150.Session) error {
			if on {
				return s.Enable()
			}
			return s.Disable()
		})
	},
}

var setMeteringCmd = &cobra.Command{
	Use:   "metering <on|off>",
	Short: "Start or stop the capacity/energy meters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *dps150.Session) error {
			if on {
				return s.StartMetering()
			}
			return s.StopMetering()
		})
	},
}

var setBrightnessCmd = &cobra.Command{
	Use:   "brightness <level>",
	Short: "Set the display backlight level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseByteLevel(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *dps150.Session) error {
			return s.SetBrightness(level)
		})
	},
}

var setVolumeCmd = &cobra.Command{
	Use:   "volume <level>",
	Short: "Set the beeper volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseByteLevel(args[0])
		if err != nil {
			return err
		}
		return withSession(func(s *dps150.Session) error {
			return s.SetVolume(level)
		})
	},
}

var setProtectionCmd = &cobra.Command{
	Use:   "protection <ovp|ocp|opp|otp|lvp> <value>",
	Short: "Set a protection threshold",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseProtectionKind(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid threshold %q: %v", args[1], err)
		}
		return withSession(func(s *dps150.Session) error {
			return s.SetProtection(kind, value)
		})
	},
}

var setGroupCmd = &cobra.Command{
	Use:   "group <1-6>",
	Short: "Store a voltage/current preset group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid group %q: %v", args[0], err)
		}

		var voltage, current *float64
		if cmd.Flags().Changed("voltage") {
			voltage = &setGroupVoltage
		}
		if cmd.Flags().Changed("current") {
			current = &setGroupCurrent
		}
		if voltage == nil && current == nil {
			return fmt.Errorf("nothing to set: pass --voltage and/or --current")
		}

		return withSession(func(s *dps150.Session) error {
			return s.SetGroup(n, voltage, current)
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setVoltageCmd, setCurrentCmd, setOutputCmd, setMeteringCmd,
		setBrightnessCmd, setVolumeCmd, setProtectionCmd, setGroupCmd)

	setGroupCmd.Flags().Float64Var(&setGroupVoltage, "voltage", 0, "Preset voltage in volts")
	setGroupCmd.Flags().Float64Var(&setGroupCurrent, "current", 0, "Preset current in amps")
}

// withSession opens a session, runs fn, and tears the session down again.
func withSession(fn func(*dps150.Session) error) error {
	session, _, err := openSession(dps150.Config{})
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1":
		return true, nil
	case "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func parseByteLevel(s string) (uint8, error) {
	level, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q (0-255): %v", s, err)
	}
	return uint8(level), nil
}

func parseProtectionKind(s string) (dps150.ProtectionKind, error) {
	switch strings.ToLower(s) {
	case "ovp":
		return dps150.OVP, nil
	case "ocp":
		return dps150.OCP, nil
	case "opp":
		return dps150.OPP, nil
	case "otp":
		return dps150.OTP, nil
	case "lvp":
		return dps150.LVP, nil
	default:
		return 0, fmt.Errorf("unknown protection kind %q (ovp, ocp, opp, otp, lvp)", s)
	}
}
