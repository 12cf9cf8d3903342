// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Voltbench

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var listPortsCmd = &cobra.Command{
	Use:   "list-ports",
	Short: "List available serial ports",
	Long: `Enumerate serial ports on this machine.

The DPS-150 shows up as a USB-CDC serial device (typically /dev/ttyACM*
on Linux).`,
	RunE: runListPorts,
}

func init() {
	rootCmd.AddCommand(listPortsCmd)
}

func runListPorts(cmd *cobra.Command, args []string) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("failed to enumerate serial ports: %v", err)
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	for _, port := range ports {
		fmt.Println(port)
	}
	return nil
}
