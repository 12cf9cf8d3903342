// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

// Mode is the regulation mode reported by the device.
type Mode int

// Regulation modes.
const (
	ModeConstantCurrent Mode = iota
	ModeConstantVoltage
)

// String returns the conventional short name for the mode.
func (m Mode) String() string {
	if m == ModeConstantCurrent {
		return "CC"
	}
	return "CV"
}

// modeFromByte maps the wire byte to a Mode. The device sends 0 for CC and
// 1 for CV; anything else is treated as CV, matching observed firmware
// behavior.
func modeFromByte(b byte) Mode {
	if b == 0 {
		return ModeConstantCurrent
	}
	return ModeConstantVoltage
}

// ProtectionState reports which protection, if any, has tripped.
type ProtectionState int

// Protection states, in wire index order. ProtectionUnknown is the safe
// fallback for indexes the firmware table does not define.
const (
	ProtectionNone ProtectionState = iota
	ProtectionOverVoltage
	ProtectionOverCurrent
	ProtectionOverPower
	ProtectionOverTemperature
	ProtectionLowVoltage
	ProtectionReverse
	ProtectionUnknown
)

var protectionNames = [...]string{"", "OVP", "OCP", "OPP", "OTP", "LVP", "REP"}

// String returns the device's short label for the protection state.
func (p ProtectionState) String() string {
	if p < 0 || int(p) >= len(protectionNames) {
		return "UNKNOWN"
	}
	return protectionNames[p]
}

// ProtectionStateFromByte maps the wire index to a ProtectionState. The
// second result is false for indexes outside the firmware's 7-entry table.
func ProtectionStateFromByte(b byte) (ProtectionState, bool) {
	if int(b) >= len(protectionNames) {
		return ProtectionUnknown, false
	}
	return ProtectionState(b), true
}

// GroupSetting is one of the six stored voltage/current presets.
type GroupSetting struct {
	Voltage float64
	Current float64
}

// Snapshot is the accumulated set of last-known decoded values for a
// session. It is a persistent merge: Apply only touches the keys present in
// an update, and no key is ever cleared implicitly.
type Snapshot struct {
	InputVoltage float64
	SetVoltage   float64
	SetCurrent   float64

	OutputVoltage float64
	OutputCurrent float64
	OutputPower   float64
	Temperature   float64

	Groups [6]GroupSetting

	OverVoltageProtection     float64
	OverCurrentProtection     float64
	OverPowerProtection       float64
	OverTemperatureProtection float64
	LowVoltageProtection      float64

	Brightness     uint8
	Volume         uint8
	MeteringClosed bool // metering stopped

	OutputCapacity float64
	OutputEnergy   float64

	OutputClosed    bool // circuit closed, i.e. output on
	ProtectionState ProtectionState
	Mode            Mode

	ModelName       string
	HardwareVersion string
	FirmwareVersion string

	UpperLimitVoltage float64
	UpperLimitCurrent float64
}

// Apply merges an update into the snapshot. Keys absent from the update are
// left untouched; values with an unexpected dynamic type are ignored.
func (s *Snapshot) Apply(u Update) {
	for key, value := range u {
		switch key {
		case KeyInputVoltage:
			setFloat(&s.InputVoltage, value)
		case KeySetVoltage:
			setFloat(&s.SetVoltage, value)
		case KeySetCurrent:
			setFloat(&s.SetCurrent, value)
		case KeyOutputVoltage:
			setFloat(&s.OutputVoltage, value)
		case KeyOutputCurrent:
			setFloat(&s.OutputCurrent, value)
		case KeyOutputPower:
			setFloat(&s.OutputPower, value)
		case KeyTemperature:
			setFloat(&s.Temperature, value)

		case KeyGroup1SetVoltage:
			setFloat(&s.Groups[0].Voltage, value)
		case KeyGroup1SetCurrent:
			setFloat(&s.Groups[0].Current, value)
		case KeyGroup2SetVoltage:
			setFloat(&s.Groups[1].Voltage, value)
		case KeyGroup2SetCurrent:
			setFloat(&s.Groups[1].Current, value)
		case KeyGroup3SetVoltage:
			setFloat(&s.Groups[2].Voltage, value)
		case KeyGroup3SetCurrent:
			setFloat(&s.Groups[2].Current, value)
		case KeyGroup4SetVoltage:
			setFloat(&s.Groups[3].Voltage, value)
		case KeyGroup4SetCurrent:
			setFloat(&s.Groups[3].Current, value)
		case KeyGroup5SetVoltage:
			setFloat(&s.Groups[4].Voltage, value)
		case KeyGroup5SetCurrent:
			setFloat(&s.Groups[4].Current, value)
		case KeyGroup6SetVoltage:
			setFloat(&s.Groups[5].Voltage, value)
		case KeyGroup6SetCurrent:
			setFloat(&s.Groups[5].Current, value)

		case KeyOverVoltageProtection:
			setFloat(&s.OverVoltageProtection, value)
		case KeyOverCurrentProtection:
			setFloat(&s.OverCurrentProtection, value)
		case KeyOverPowerProtection:
			setFloat(&s.OverPowerProtection, value)
		case KeyOverTemperatureProtection:
			setFloat(&s.OverTemperatureProtection, value)
		case KeyLowVoltageProtection:
			setFloat(&s.LowVoltageProtection, value)

		case KeyBrightness:
			setByte(&s.Brightness, value)
		case KeyVolume:
			setByte(&s.Volume, value)
		case KeyMeteringClosed:
			setBool(&s.MeteringClosed, value)

		case KeyOutputCapacity:
			setFloat(&s.OutputCapacity, value)
		case KeyOutputEnergy:
			setFloat(&s.OutputEnergy, value)

		case KeyOutputClosed:
			setBool(&s.OutputClosed, value)
		case KeyProtectionState:
			if v, ok := value.(ProtectionState); ok {
				s.ProtectionState = v
			}
		case KeyMode:
			if v, ok := value.(Mode); ok {
				s.Mode = v
			}

		case KeyModelName:
			setString(&s.ModelName, value)
		case KeyHardwareVersion:
			setString(&s.HardwareVersion, value)
		case KeyFirmwareVersion:
			setString(&s.FirmwareVersion, value)

		case KeyUpperLimitVoltage:
			setFloat(&s.UpperLimitVoltage, value)
		case KeyUpperLimitCurrent:
			setFloat(&s.UpperLimitCurrent, value)
		}
	}
}

func setFloat(dst *float64, value interface{}) {
	if v, ok := value.(float64); ok {
		*dst = v
	}
}

func setByte(dst *uint8, value interface{}) {
	if v, ok := value.(uint8); ok {
		*dst = v
	}
}

func setBool(dst *bool, value interface{}) {
	if v, ok := value.(bool); ok {
		*dst = v
	}
}

func setString(dst *string, value interface{}) {
	if v, ok := value.(string); ok {
		*dst = v
	}
}
