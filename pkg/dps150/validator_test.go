// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import "testing"

func TestValidateUpdate_Plausible(t *testing.T) {
	update := Update{
		KeyOutputVoltage:   5.004,
		KeyOutputCurrent:   1.002,
		KeyTemperature:     28.5,
		KeyProtectionState: ProtectionNone,
	}
	if errors := ValidateUpdate(update); len(errors) != 0 {
		t.Errorf("expected no anomalies, got %v", errors)
	}
}

func TestValidateUpdate_Anomalies(t *testing.T) {
	tests := []struct {
		name   string
		update Update
		want   AnomalyType
	}{
		{
			name:   "negative voltage",
			update: Update{KeyOutputVoltage: -1.0},
			want:   AnomalyNegativeValue,
		},
		{
			name:   "implausible voltage",
			update: Update{KeySetVoltage: 500.0},
			want:   AnomalyAboveLimit,
		},
		{
			name:   "implausible current",
			update: Update{KeyOutputCurrent: 99.0},
			want:   AnomalyAboveLimit,
		},
		{
			name:   "temperature out of range",
			update: Update{KeyTemperature: 300.0},
			want:   AnomalyInvalidTemp,
		},
		{
			name:   "unknown protection state",
			update: Update{KeyProtectionState: ProtectionUnknown},
			want:   AnomalyUnknownProtection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateUpdate(tt.update)
			if len(errors) == 0 {
				t.Fatal("expected an anomaly, got none")
			}
			found := false
			for _, e := range errors {
				if e.Type == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("no anomaly of type %d in %v", tt.want, errors)
			}
		})
	}
}
