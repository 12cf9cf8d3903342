// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench
//
// dps150ctl - FNIRSI DPS-150 bench power supply control
//
// A CLI tool for monitoring and controlling the DPS-150 over its
// serial/USB-CDC protocol.

package main

import (
	"os"

	"github.com/voltbench/dps150ctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
