// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Voltbench

package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltbench/dps150ctl/pkg/dps150"
)

var (
	monitorCheck bool
	monitorStats bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Stream decoded telemetry in human-readable format",
	Long: `Continuously decode and display DPS-150 telemetry as it arrives.

Each telemetry frame is shown as the set of fields it updated, with
timestamps. The device pushes measurements on its own once streaming is
enabled; a full snapshot is requested at startup.

Flags:
  --check   run plausibility checks on decoded values and flag anomalies
  --stats   print decoder statistics on exit

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorCheck, "check", false, "Flag implausible telemetry values")
	monitorCmd.Flags().BoolVar(&monitorStats, "stats", false, "Print decoder statistics on exit")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	readErr := make(chan error, 1)

	cfg := dps150.Config{
		OnUpdate: func(u dps150.Update) {
			fmt.Printf("[%s]\n%s", time.Now().Format("15:04:05.000"), dps150.FormatUpdate(u))
			if monitorCheck {
				for _, anomaly := range dps150.ValidateUpdate(u) {
					fmt.Printf("  [ANOMALY] %s\n", anomaly.Message)
				}
			}
		},
		OnDecodeError: func(err error) {
			log.Printf("decode: %v", err)
		},
		OnReadError: func(err error) {
			readErr <- err
		},
	}

	session, connInfo, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("dps150ctl - Telemetry Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
	case err := <-readErr:
		log.Printf("Read error: %v", err)
	}

	if monitorStats {
		stats := session.Stats()
		fmt.Printf("\nPackets: %d  Checksum failures: %d  Bytes discarded: %d\n",
			stats.Packets, stats.ChecksumFailures, stats.BytesDiscarded)
	}

	return nil
}
