package ble

import (
	"context"
	"sync"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/config"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// Scanner listens for Switchmate advertisements for a bounded window.
type Scanner struct {
	t Transport
}

func NewScanner(t Transport) *Scanner {
	return &Scanner{t: t}
}

// Watch streams every Switchmate advertisement (deduplication is the
// caller's concern) to fn until the window elapses or ctx is cancelled.
func (s *Scanner) Watch(ctx context.Context, duration time.Duration, fn func(Advertisement)) error {
	if err := s.t.Enable(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		case <-done:
			return
		}
		// Adapters discard a stop issued before the scan has registered,
		// so keep re-issuing it until the scan actually returns.
		for {
			s.t.StopScan()
			select {
			case <-done:
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}()

	err := s.t.Scan(func(adv Advertisement) {
		if !adv.HasService(SwitchmateServiceUUID) {
			return
		}
		fn(adv)
	})
	close(done)
	return err
}

// Scan collects the deduplicated set of Switchmate addresses seen
// during the window, in first-seen order. With a filter address it
// stops as soon as that device is seen and yields at most that one
// address.
func (s *Scanner) Scan(ctx context.Context, duration time.Duration, filter device.Address) ([]device.Address, error) {
	var mu sync.Mutex
	seen := make(map[device.Address]bool)
	var found []device.Address

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := s.Watch(cctx, duration, func(adv Advertisement) {
		addr, err := device.ParseAddress(adv.Address)
		if err != nil {
			config.Debugf("Ignoring unparsable advertisement address %q", adv.Address)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if seen[addr] {
			return
		}
		seen[addr] = true

		if filter != "" {
			if addr == filter {
				found = append(found, addr)
				cancel()
			}
			return
		}
		config.Debugf("Found Switchmate %s (rssi %d)", addr, adv.RSSI)
		found = append(found, addr)
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return found, nil
}
