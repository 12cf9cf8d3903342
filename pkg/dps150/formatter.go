// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"fmt"
	"sort"
	"strings"
)

// FormatUpdate formats one decoded update as indented key/value lines,
// keys sorted for stable output.
func FormatUpdate(u Update) string {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, FormatValue(Key(k), u[Key(k)]))
	}
	return b.String()
}

// FormatSnapshot renders the full snapshot as a human-readable report.
func FormatSnapshot(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device:     %s (hw %s, fw %s)\n", s.ModelName, s.HardwareVersion, s.FirmwareVersion)
	fmt.Fprintf(&b, "Input:      %.3f V\n", s.InputVoltage)
	fmt.Fprintf(&b, "Setpoint:   %.3f V  %.3f A\n", s.SetVoltage, s.SetCurrent)
	fmt.Fprintf(&b, "Output:     %.3f V  %.3f A  %.3f W  (%s, %s)\n",
		s.OutputVoltage, s.OutputCurrent, s.OutputPower, onOff(s.OutputClosed), s.Mode)
	fmt.Fprintf(&b, "Limits:     %.3f V  %.3f A\n", s.UpperLimitVoltage, s.UpperLimitCurrent)
	fmt.Fprintf(&b, "Protection: OVP %.2f  OCP %.2f  OPP %.2f  OTP %.2f  LVP %.2f",
		s.OverVoltageProtection, s.OverCurrentProtection, s.OverPowerProtection,
		s.OverTemperatureProtection, s.LowVoltageProtection)
	if s.ProtectionState != ProtectionNone {
		fmt.Fprintf(&b, "  [%s TRIPPED]", s.ProtectionState)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Temp:       %.1f °C\n", s.Temperature)
	fmt.Fprintf(&b, "Metering:   %s  %.3f Ah  %.3f Wh\n", onOff(!s.MeteringClosed), s.OutputCapacity, s.OutputEnergy)
	fmt.Fprintf(&b, "Display:    brightness %d, volume %d\n", s.Brightness, s.Volume)

	for i, g := range s.Groups {
		fmt.Fprintf(&b, "Group %d:    %.3f V  %.3f A\n", i+1, g.Voltage, g.Current)
	}

	return b.String()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
