package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
)

// The command tests drive a fake BLE stack: an in-memory transport that
// replays advertisements and hands out canned GATT tables per address.

type fakeChar struct {
	mu       sync.Mutex
	value    []byte
	readErr  error
	writeErr error
	writes   [][]byte
	onWrite  func(p []byte)
	notifyFn func(p []byte)
}

func (c *fakeChar) Read() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	out := make([]byte, len(c.value))
	copy(out, c.value)
	return out, nil
}

func (c *fakeChar) Write(p []byte) error {
	c.mu.Lock()
	if c.writeErr != nil {
		c.mu.Unlock()
		return c.writeErr
	}
	cp := append([]byte(nil), p...)
	c.writes = append(c.writes, cp)
	onWrite := c.onWrite
	c.mu.Unlock()
	if onWrite != nil {
		onWrite(cp)
	}
	return nil
}

func (c *fakeChar) Subscribe(fn func(p []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifyFn = fn
	return nil
}

func (c *fakeChar) sendNotification(p []byte) {
	c.mu.Lock()
	fn := c.notifyFn
	c.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

func (c *fakeChar) setValue(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = append([]byte(nil), p...)
}

func (c *fakeChar) recordedWrites() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

type fakeConn struct {
	refs []ble.CharRef

	mu          sync.Mutex
	disconnects int
}

func newFakeConn(chars map[string]*fakeChar) *fakeConn {
	conn := &fakeConn{}
	for uuid, char := range chars {
		conn.refs = append(conn.refs, ble.CharRef{
			ServiceUUID: ble.SwitchmateServiceUUID,
			UUID:        uuid,
			Char:        char,
		})
	}
	return conn
}

func (c *fakeConn) Characteristics() []ble.CharRef { return c.refs }

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return nil
}

func (c *fakeConn) disconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

type fakeTransport struct {
	enableErr error
	adverts   []ble.Advertisement

	mu       sync.Mutex
	conns    map[string]*fakeConn
	connects int

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		conns:  make(map[string]*fakeConn),
		stopCh: make(chan struct{}),
	}
}

func (t *fakeTransport) Enable() error { return t.enableErr }

func (t *fakeTransport) Scan(fn func(ble.Advertisement)) error {
	for i := 0; i < 3; i++ {
		for _, adv := range t.adverts {
			select {
			case <-t.stopCh:
				return nil
			default:
			}
			fn(adv)
		}
	}
	<-t.stopCh
	return nil
}

func (t *fakeTransport) StopScan() error {
	t.stopOnce.Do(func() { close(t.stopCh) })
	return nil
}

func (t *fakeTransport) Connect(address string, timeout time.Duration) (ble.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connects++
	conn, ok := t.conns[address]
	if !ok {
		return nil, fmt.Errorf("no fake device at %s", address)
	}
	return conn, nil
}
