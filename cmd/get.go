// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Voltbench

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltbench/dps150ctl/pkg/dps150"
)

var getTimeout int

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a full device snapshot",
	Long: `Connect, request the bulk snapshot, and print it once received.

Exit codes:
  0 - Snapshot received
  1 - Timed out waiting for the device`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().IntVar(&getTimeout, "timeout", 5, "Seconds to wait for the bulk snapshot")
}

func runGet(cmd *cobra.Command, args []string) error {
	bulk := make(chan struct{}, 1)

	cfg := dps150.Config{
		OnUpdate: func(u dps150.Update) {
			// The bulk frame is the only one carrying the limit fields.
			if _, ok := u[dps150.KeyUpperLimitCurrent]; ok {
				select {
				case bulk <- struct{}{}:
				default:
				}
			}
		},
	}

	session, _, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	select {
	case <-bulk:
	case <-time.After(time.Duration(getTimeout) * time.Second):
		return fmt.Errorf("timed out after %ds waiting for device snapshot", getTimeout)
	}

	fmt.Print(dps150.FormatSnapshot(session.Snapshot()))
	return nil
}
