package ble

import (
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/switchmate-tool/internal/config"
)

// SystemTransport returns the Transport backed by the platform BLE
// stack (BlueZ on Linux, CoreBluetooth on macOS, WinRT on Windows).
func SystemTransport() Transport {
	return &tinygoTransport{adapter: bluetooth.DefaultAdapter}
}

type tinygoTransport struct {
	adapter *bluetooth.Adapter
	enabled bool
}

func (t *tinygoTransport) Enable() error {
	if t.enabled {
		return nil
	}
	if err := t.adapter.Enable(); err != nil {
		return fmt.Errorf("%w: %v", ErrAdapter, err)
	}
	t.enabled = true
	return nil
}

func (t *tinygoTransport) Scan(fn func(Advertisement)) error {
	svcUUID, err := bluetooth.ParseUUID(SwitchmateServiceUUID)
	if err != nil {
		return err
	}

	err = t.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv := Advertisement{
			Address:   result.Address.String(),
			LocalName: result.LocalName(),
			RSSI:      int(result.RSSI),
		}
		// The payload only answers point queries for service UUIDs, so
		// record the one service discovery filters on.
		if result.HasServiceUUID(svcUUID) {
			adv.ServiceUUIDs = append(adv.ServiceUUIDs, SwitchmateServiceUUID)
		}
		for _, sd := range result.ServiceData() {
			if adv.ServiceData == nil {
				adv.ServiceData = make(map[string][]byte)
			}
			data := make([]byte, len(sd.Data))
			copy(data, sd.Data)
			adv.ServiceData[sd.UUID.String()] = data
		}
		fn(adv)
	})
	if err != nil {
		return fmt.Errorf("%w: scan: %v", ErrAdapter, err)
	}
	return nil
}

func (t *tinygoTransport) StopScan() error {
	return t.adapter.StopScan()
}

func (t *tinygoTransport) Connect(address string, timeout time.Duration) (Conn, error) {
	var addr bluetooth.Address
	addr.Set(address)

	dev, err := t.adapter.Connect(addr, bluetooth.ConnectionParams{
		ConnectionTimeout: bluetooth.NewDuration(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}

	config.Debugf("Connected to %s, discovering services...", address)

	services, err := dev.DiscoverServices(nil)
	if err != nil {
		dev.Disconnect()
		return nil, fmt.Errorf("discover services on %s: %w", address, err)
	}

	var refs []CharRef
	for i := range services {
		svcUUID := services[i].UUID().String()
		chars, err := services[i].DiscoverCharacteristics(nil)
		if err != nil {
			config.Debugf("Characteristic discovery failed for service %s: %v", svcUUID, err)
			continue
		}
		for j := range chars {
			config.Debugf("Found characteristic %s in service %s", chars[j].UUID().String(), svcUUID)
			refs = append(refs, CharRef{
				ServiceUUID: svcUUID,
				UUID:        chars[j].UUID().String(),
				Char:        &tinygoCharacteristic{char: &chars[j]},
			})
		}
	}

	return &tinygoConn{device: dev, refs: refs}, nil
}

type tinygoConn struct {
	device bluetooth.Device
	refs   []CharRef
}

func (c *tinygoConn) Characteristics() []CharRef { return c.refs }

func (c *tinygoConn) Disconnect() error { return c.device.Disconnect() }

type tinygoCharacteristic struct {
	char *bluetooth.DeviceCharacteristic
}

func (c *tinygoCharacteristic) Read() ([]byte, error) {
	buf := make([]byte, 256)
	n, err := c.char.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (c *tinygoCharacteristic) Write(p []byte) error {
	_, err := c.char.WriteWithoutResponse(p)
	return err
}

func (c *tinygoCharacteristic) Subscribe(fn func([]byte)) error {
	return c.char.EnableNotifications(func(buf []byte) {
		fn(buf)
	})
}
