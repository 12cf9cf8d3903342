// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import "fmt"

// AnomalyType classifies telemetry anomalies.
type AnomalyType int

const (
	AnomalyNegativeValue AnomalyType = iota
	AnomalyInvalidTemp
	AnomalyAboveLimit
	AnomalyUnknownProtection
)

// ValidationError reports one suspicious decoded value. The frame itself
// passed checksum validation; this is a plausibility check on its contents.
type ValidationError struct {
	Type    AnomalyType
	Key     Key
	Message string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return v.Message
}

// physical plausibility bounds for the DPS-150 (30 V / 5 A class supply)
const (
	maxPlausibleVolts = 60.0
	maxPlausibleAmps  = 10.0
	minPlausibleTemp  = -40.0
	maxPlausibleTemp  = 125.0
)

// ValidateUpdate checks decoded values for anomalies and returns one
// ValidationError per finding (empty slice if the update is plausible).
func ValidateUpdate(u Update) []ValidationError {
	errors := []ValidationError{}

	for key, value := range u {
		v, ok := value.(float64)
		if !ok {
			continue
		}

		switch key {
		case KeyInputVoltage, KeyOutputVoltage, KeySetVoltage,
			KeyOutputCurrent, KeySetCurrent, KeyOutputPower,
			KeyOutputCapacity, KeyOutputEnergy:
			if v < 0 {
				errors = append(errors, ValidationError{
					Type:    AnomalyNegativeValue,
					Key:     key,
					Message: fmt.Sprintf("negative %s: %.3f", key, v),
				})
			}
		}

		switch key {
		case KeyInputVoltage, KeyOutputVoltage, KeySetVoltage:
			if v > maxPlausibleVolts {
				errors = append(errors, ValidationError{
					Type:    AnomalyAboveLimit,
					Key:     key,
					Message: fmt.Sprintf("%s=%.3f V above plausible maximum %.0f V", key, v, maxPlausibleVolts),
				})
			}
		case KeyOutputCurrent, KeySetCurrent:
			if v > maxPlausibleAmps {
				errors = append(errors, ValidationError{
					Type:    AnomalyAboveLimit,
					Key:     key,
					Message: fmt.Sprintf("%s=%.3f A above plausible maximum %.0f A", key, v, maxPlausibleAmps),
				})
			}
		case KeyTemperature:
			if v < minPlausibleTemp || v > maxPlausibleTemp {
				errors = append(errors, ValidationError{
					Type:    AnomalyInvalidTemp,
					Key:     key,
					Message: fmt.Sprintf("temperature %.1f °C out of range (%.0f to %.0f)", v, minPlausibleTemp, maxPlausibleTemp),
				})
			}
		}
	}

	if state, ok := u[KeyProtectionState].(ProtectionState); ok && state == ProtectionUnknown {
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownProtection,
			Key:     KeyProtectionState,
			Message: "protection state not in firmware table",
		})
	}

	return errors
}
