package commands

import (
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// Battery reads and prints the battery level percentage.
func Battery(t ble.Transport, addr device.Address, timeout time.Duration) error {
	if err := t.Enable(); err != nil {
		return err
	}

	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return err
	}
	defer session.Close()

	payload, err := session.Read(ble.BatteryLevelCharUUID)
	if err != nil {
		return err
	}
	level, err := device.DecodeBattery(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ble.ErrDecode, err)
	}

	fmt.Printf("Battery level: %d%%\n", level)
	return nil
}
