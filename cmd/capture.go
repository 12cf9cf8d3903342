// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Voltbench

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/voltbench/dps150ctl/pkg/dps150"
)

// captureRecord is one telemetry update in a capture file: a CBOR stream of
// these, in decode order.
type captureRecord struct {
	UnixMillis int64                  `cbor:"1,keyasint"`
	Fields     map[string]interface{} `cbor:"2,keyasint"`
}

var captureCmd = &cobra.Command{
	Use:   "capture <file>",
	Short: "Record decoded telemetry to a CBOR capture file",
	Long: `Record every decoded telemetry update to a file for later replay.

Records are written as a CBOR stream, one timestamped record per decoded
frame. Use the replay command to print a capture file.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a telemetry capture file",
	Long: `Decode a capture file written by the capture command and print each
record the way monitor would have shown it live.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(replayCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	file, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create capture file: %v", err)
	}
	defer file.Close()

	var mu sync.Mutex
	encoder := cbor.NewEncoder(file)
	records := 0
	readErr := make(chan error, 1)

	cfg := dps150.Config{
		OnUpdate: func(u dps150.Update) {
			record := captureRecord{
				UnixMillis: time.Now().UnixMilli(),
				Fields:     make(map[string]interface{}, len(u)),
			}
			for k, v := range u {
				record.Fields[string(k)] = captureValue(v)
			}

			mu.Lock()
			defer mu.Unlock()
			if err := encoder.Encode(record); err != nil {
				log.Printf("capture write: %v", err)
				return
			}
			records++
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

	fmt.Printf("dps150ctl - Telemetry Capture\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Writing to: %s\n", args[0])
	fmt.Printf("Press Ctrl+C to stop\n\n")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
	case err := <-readErr:
		log.Printf("Read error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Printf("\n%d records captured\n", records)
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture file: %v", err)
	}
	defer file.Close()

	decoder := cbor.NewDecoder(file)
	records := 0
	for {
		var record captureRecord
		if err := decoder.Decode(&record); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("corrupt capture file after %d records: %v", records, err)
		}

		ts := time.UnixMilli(record.UnixMillis)
		fmt.Printf("[%s]\n", ts.Format("15:04:05.000"))
		keys := make([]string, 0, len(record.Fields))
		for k := range record.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %v\n", k, record.Fields[k])
		}
		records++
	}

	fmt.Printf("\n%d records replayed\n", records)
	return nil
}

// captureValue converts engine value types to CBOR-friendly primitives.
func captureValue(v interface{}) interface{} {
	switch val := v.(type) {
	case dps150.Mode:
		return val.String()
	case dps150.ProtectionState:
		return val.String()
	default:
		return val
	}
}
