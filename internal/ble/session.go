package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/config"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// connectAttempts bounds connection retries. BLE connects fail
// transiently often enough that a single attempt is useless, but after
// three the device is genuinely unreachable.
const connectAttempts = 3

// ConnectBackoff is the delay before the first connection retry,
// doubling per attempt. A variable so tests don't sleep.
var ConnectBackoff = 500 * time.Millisecond

// Session owns one connect/operate/disconnect lifecycle against a
// single device. It is created per command invocation and must be
// closed on every exit path; Close is idempotent.
type Session struct {
	addr device.Address
	conn Conn

	mu     sync.Mutex
	closed bool
}

// Open connects to the device, retrying with backoff up to the attempt
// bound. Exhausting the bound reports ErrConnect; the caller fails the
// whole command rather than retrying further.
func Open(t Transport, addr device.Address, timeout time.Duration) (*Session, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(backoffDelay(attempt - 1))
		}
		config.Debugf("Connecting to %s (attempt %d/%d)...", addr, attempt, connectAttempts)
		conn, err := t.Connect(addr.String(), timeout)
		if err == nil {
			return &Session{addr: addr, conn: conn}, nil
		}
		config.Debugf("Attempt %d failed: %v", attempt, err)
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrConnect, addr, connectAttempts, lastErr)
}

// backoffDelay returns the delay before retry number attempt (1-based),
// doubling from ConnectBackoff.
func backoffDelay(attempt int) time.Duration {
	d := ConnectBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Address returns the device this session is bound to.
func (s *Session) Address() device.Address { return s.addr }

// Characteristics exposes the discovered GATT table, for diagnostics.
func (s *Session) Characteristics() []CharRef {
	return s.conn.Characteristics()
}

// HasCharacteristic reports whether the device exposes the given
// characteristic. Legacy firmware is detected by the absence of the
// auth-verify characteristic.
func (s *Session) HasCharacteristic(uuid string) bool {
	_, err := s.char(uuid)
	return err == nil
}

func (s *Session) char(uuid string) (Characteristic, error) {
	for _, ref := range s.conn.Characteristics() {
		if strings.EqualFold(ref.UUID, uuid) {
			return ref.Char, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrCharacteristicMissing, uuid, s.addr)
}

// Read reads one characteristic value.
func (s *Session) Read(uuid string) ([]byte, error) {
	char, err := s.char(uuid)
	if err != nil {
		return nil, err
	}
	p, err := char.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uuid, err)
	}
	config.Debugf("Read %s: %X", uuid, p)
	return p, nil
}

// Write writes one characteristic value.
func (s *Session) Write(uuid string, p []byte) error {
	char, err := s.char(uuid)
	if err != nil {
		return err
	}
	config.Debugf("Write %s: %X", uuid, p)
	if err := char.Write(p); err != nil {
		return fmt.Errorf("write %s: %w", uuid, err)
	}
	return nil
}

// SubscribeAndWait subscribes to notifications on uuid, runs trigger,
// and blocks until the first notification, the wait window elapsing
// (ErrTimeout), or ctx cancellation. The subscription does not outlive
// the session's connection.
func (s *Session) SubscribeAndWait(ctx context.Context, uuid string, trigger func() error, wait time.Duration) ([]byte, error) {
	char, err := s.char(uuid)
	if err != nil {
		return nil, err
	}

	ch := make(chan []byte, 1)
	err = char.Subscribe(func(p []byte) {
		cp := make([]byte, len(p))
		copy(cp, p)
		select {
		case ch <- cp:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", uuid, err)
	}

	if trigger != nil {
		if err := trigger(); err != nil {
			return nil, err
		}
	}

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(wait):
		return nil, fmt.Errorf("%w: no notification on %s within %s", ErrTimeout, uuid, wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close disconnects. Safe to call more than once and on every exit
// path.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	config.Debugf("Disconnecting from %s", s.addr)
	return s.conn.Disconnect()
}
