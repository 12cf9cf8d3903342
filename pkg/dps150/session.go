// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"fmt"
	"sync"
	"time"
)

// State is the session lifecycle state.
type State int

// Session lifecycle states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateInitializing
	StateStreaming
	StateDisconnecting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateInitializing:
		return "initializing"
	case StateStreaming:
		return "streaming"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// ProtectionKind selects one of the device's protection thresholds.
type ProtectionKind int

// Protection threshold kinds accepted by SetProtection.
const (
	OVP ProtectionKind = iota // over-voltage
	OCP                       // over-current
	OPP                       // over-power
	OTP                       // over-temperature
	LVP                       // low-voltage
)

// String returns the threshold's short name.
func (k ProtectionKind) String() string {
	switch k {
	case OVP:
		return "OVP"
	case OCP:
		return "OCP"
	case OPP:
		return "OPP"
	case OTP:
		return "OTP"
	case LVP:
		return "LVP"
	default:
		return "unknown"
	}
}

func (k ProtectionKind) fieldID() (byte, bool) {
	switch k {
	case OVP:
		return FieldOVP, true
	case OCP:
		return FieldOCP, true
	case OPP:
		return FieldOPP, true
	case OTP:
		return FieldOTP, true
	case LVP:
		return FieldLVP, true
	default:
		return 0, false
	}
}

// Config carries session options. The zero value is usable.
type Config struct {
	// BaudRate is the rate the transport was opened with; it selects the
	// index sent in the baud-select init command. Defaults to
	// DefaultBaudRate.
	BaudRate int

	// SettleDelay is the mandatory pause after each write. Defaults to
	// DefaultSettleDelay.
	SettleDelay time.Duration

	// OnUpdate receives the newly decoded keys of each telemetry frame,
	// never the full snapshot. It runs on the session's reader goroutine;
	// callers updating UIs must redispatch themselves.
	OnUpdate func(Update)

	// OnDecodeError, if set, receives per-field decode failures. These are
	// best-effort drops, not session faults.
	OnDecodeError func(error)

	// OnReadError, if set, receives the transport error that stopped the
	// reader. Not called for reads failing due to Close.
	OnReadError func(error)
}

// Session owns one transport, its decoder, and the device snapshot, and
// sequences the connect → initialize → stream → disconnect lifecycle.
//
// All command methods are safe for concurrent use: writes are serialized
// under a single-writer lock with a settle delay after each frame, because
// the device cannot accept back-to-back commands.
type Session struct {
	transport Transport
	cfg       Config
	decoder   *Decoder

	writeMu sync.Mutex

	mu       sync.RWMutex
	state    State
	snapshot Snapshot

	done       chan struct{}
	readerDone chan struct{}
	opened     bool
	closeOnce  sync.Once
}

// NewSession creates a session over an already-open transport.
func NewSession(t Transport, cfg Config) *Session {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Session{
		transport:  t,
		cfg:        cfg,
		decoder:    NewDecoder(),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
}

// Open starts the inbound reader and issues the device initialization
// sequence, then transitions to streaming. Initialization is fire-and-forget:
// replies arrive asynchronously through the reader. On failure the session
// tears down fully: the reader is stopped and the transport is closed.
func (s *Session) Open() error {
	s.mu.Lock()
	if s.state != StateDisconnected || s.opened {
		s.mu.Unlock()
		return fmt.Errorf("open: session already started")
	}
	s.state = StateConnecting
	s.opened = true
	s.mu.Unlock()

	go s.readLoop()

	s.setState(StateInitializing)
	if err := s.initialize(); err != nil {
		s.Close()
		return fmt.Errorf("initialize: %w", err)
	}

	s.setState(StateStreaming)
	return nil
}

// initialize sends the fixed startup sequence. Order matters: stream toggle
// on, baud select, identity requests, then a full snapshot request.
func (s *Session) initialize() error {
	baudIdx, ok := BaudIndex(s.cfg.BaudRate)
	if !ok {
		return fmt.Errorf("unsupported baud rate %d: %w", s.cfg.BaudRate, ErrOutOfRange)
	}

	if err := s.send(CmdStream, 0, []byte{1}); err != nil {
		return err
	}
	if err := s.send(CmdBaud, 0, []byte{baudIdx}); err != nil {
		return err
	}
	for _, field := range []byte{FieldModelName, FieldHardwareVersion, FieldFirmwareVersion} {
		if err := s.send(CmdGet, field, []byte{0}); err != nil {
			return err
		}
	}
	return s.GetAll()
}

// Close sends the stream-off toggle as a courtesy, stops the reader, and
// closes the transport. It is idempotent and reachable from any state.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.setState(StateDisconnecting)

		// Courtesy toggle; the device keeps working if this is lost.
		_ = s.send(CmdStream, 0, []byte{0})

		close(s.done)
		err = s.transport.Close()

		s.mu.RLock()
		opened := s.opened
		s.mu.RUnlock()
		if opened {
			<-s.readerDone
		}

		s.setState(StateDisconnected)
	})
	return err
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns a copy of the accumulated device snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Stats returns the decoder counters.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decoder.Stats()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// writeFrame pushes one encoded frame to the transport under the
// single-writer lock, then holds the lock for the settle delay. Interleaved
// or back-to-back writes corrupt the device's receive buffer.
func (s *Session) writeFrame(frame []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.transport.Write(frame); err != nil {
		return fmt.Errorf("transport write: %w", err)
	}
	time.Sleep(s.cfg.SettleDelay)
	return nil
}

func (s *Session) send(command, fieldID byte, payload []byte) error {
	frame, err := EncodeCommand(HeaderHost, command, fieldID, payload)
	if err != nil {
		return err
	}
	return s.writeFrame(frame)
}

// SetFloatValue encodes and sends a float SET command for the given field.
func (s *Session) SetFloatValue(fieldID byte, value float64) error {
	frame, err := EncodeFloat(HeaderHost, CmdSet, fieldID, float32(value))
	if err != nil {
		return err
	}
	return s.writeFrame(frame)
}

// SetByteValue encodes and sends a single-byte SET command.
func (s *Session) SetByteValue(fieldID, value byte) error {
	return s.send(CmdSet, fieldID, []byte{value})
}

// SetVoltage sets the output voltage setpoint.
func (s *Session) SetVoltage(volts float64) error {
	return s.SetFloatValue(FieldVoltageSet, volts)
}

// SetCurrent sets the output current limit.
func (s *Session) SetCurrent(amps float64) error {
	return s.SetFloatValue(FieldCurrentSet, amps)
}

// Enable switches the output on.
func (s *Session) Enable() error {
	return s.SetByteValue(FieldOutputEnable, 1)
}

// Disable switches the output off.
func (s *Session) Disable() error {
	return s.SetByteValue(FieldOutputEnable, 0)
}

// StartMetering starts the capacity/energy meters.
func (s *Session) StartMetering() error {
	return s.SetByteValue(FieldMeteringEnable, 1)
}

// StopMetering stops the capacity/energy meters.
func (s *Session) StopMetering() error {
	return s.SetByteValue(FieldMeteringEnable, 0)
}

// SetBrightness sets the display backlight level.
func (s *Session) SetBrightness(level uint8) error {
	return s.SetByteValue(FieldBrightness, level)
}

// SetVolume sets the beeper volume.
func (s *Session) SetVolume(level uint8) error {
	return s.SetByteValue(FieldVolume, level)
}

// GetAll requests the bulk snapshot frame.
func (s *Session) GetAll() error {
	return s.send(CmdGet, FieldAll, []byte{0})
}

// SetProtection sets one of the five protection thresholds.
func (s *Session) SetProtection(kind ProtectionKind, value float64) error {
	fieldID, ok := kind.fieldID()
	if !ok {
		return fmt.Errorf("protection kind %d: %w", kind, ErrOutOfRange)
	}
	return s.SetFloatValue(fieldID, value)
}

// SetGroup stores a voltage and/or current preset for group n (1-6). Nil
// components are left unchanged on the device.
func (s *Session) SetGroup(n int, voltage, current *float64) error {
	if n < 1 || n > 6 {
		return fmt.Errorf("group %d (valid 1-6): %w", n, ErrOutOfRange)
	}
	base := byte(FieldGroup1VoltageSet + 2*(n-1))
	if voltage != nil {
		if err := s.SetFloatValue(base, *voltage); err != nil {
			return err
		}
	}
	if current != nil {
		if err := s.SetFloatValue(base+1, *current); err != nil {
			return err
		}
	}
	return nil
}

// readLoop drains the transport, feeds the decoder, and dispatches decoded
// updates. It owns the accumulation buffer; no other goroutine touches the
// decoder while the loop runs.
func (s *Session) readLoop() {
	defer close(s.readerDone)

	buf := make([]byte, 512)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		n, err := s.transport.Read(buf)
		if err != nil {
			select {
			case <-s.done:
			default:
				if s.cfg.OnReadError != nil {
					s.cfg.OnReadError(fmt.Errorf("transport read: %w", err))
				}
			}
			return
		}
		if n == 0 {
			continue
		}

		s.mu.Lock()
		packets := s.decoder.Feed(buf[:n])
		s.mu.Unlock()

		for _, pkt := range packets {
			s.handlePacket(pkt)
		}
	}
}

func (s *Session) handlePacket(p *Packet) {
	update, err := DecodeField(p.FieldID(), p.Payload())
	if err != nil && s.cfg.OnDecodeError != nil {
		s.cfg.OnDecodeError(err)
	}
	if len(update) == 0 {
		return
	}

	s.mu.Lock()
	s.snapshot.Apply(update)
	s.mu.Unlock()

	if s.cfg.OnUpdate != nil {
		s.cfg.OnUpdate(update)
	}
}
