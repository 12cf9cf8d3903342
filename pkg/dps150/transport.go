// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import "io"

// Transport is the byte-stream boundary the engine drives. Concrete
// implementations (serial port, USB-CDC, a WebSocket bridge) live outside
// this package.
//
// Read should either block until bytes are available or return (0, nil) on
// a read timeout; the session reader handles both. Close must unblock a
// pending Read so disconnection has bounded latency.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}
