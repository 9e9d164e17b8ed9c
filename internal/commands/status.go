package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/config"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// Status reads and prints the switch state of one device, or of every
// discovered device when addr is empty. A device that fails to connect
// or read is reported as unknown; the batch continues to the next
// address rather than aborting.
func Status(ctx context.Context, t ble.Transport, addr device.Address, scanDuration, timeout time.Duration) error {
	targets := []device.Address{addr}
	if addr == "" {
		fmt.Println("Looking for switchmate status...")
		scanner := ble.NewScanner(t)
		found, err := scanner.Scan(ctx, scanDuration, "")
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("No Switchmate devices found")
			return nil
		}
		targets = found
	} else if err := t.Enable(); err != nil {
		return err
	}

	for _, target := range targets {
		state, err := readState(t, target, timeout)
		if err != nil {
			config.Debugf("Status of %s failed: %v", target, err)
			fmt.Printf("%s %s\n", target, device.StateUnknown)
			continue
		}
		fmt.Printf("%s %s\n", target, state)
	}
	return nil
}

// readState opens a session for the single status read and always
// releases it.
func readState(t ble.Transport, addr device.Address, timeout time.Duration) (device.State, error) {
	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return device.StateUnknown, err
	}
	defer session.Close()

	payload, err := session.Read(ble.StatusCharUUID)
	if err != nil {
		return device.StateUnknown, err
	}
	return device.DecodeState(payload), nil
}
