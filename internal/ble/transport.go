// Package ble drives the Switchmate session protocol: advertisement
// scanning, the per-command GATT session lifecycle, and the pairing
// handshake. The underlying BLE stack is consumed through the narrow
// Transport interface so the protocol logic is testable without
// hardware.
package ble

import (
	"strings"
	"time"
)

// Advertisement is one observed BLE advertisement, reduced to the
// fields discovery needs. ServiceData is keyed by service UUID.
type Advertisement struct {
	Address      string
	LocalName    string
	RSSI         int
	ServiceUUIDs []string
	ServiceData  map[string][]byte
}

// HasService reports whether the advertisement carries the given
// service UUID. UUID comparison is case-insensitive everywhere.
func (a Advertisement) HasService(uuid string) bool {
	for _, u := range a.ServiceUUIDs {
		if strings.EqualFold(u, uuid) {
			return true
		}
	}
	return false
}

// SwitchStateFromServiceData decodes the on/off bit Switchmate
// advertises in its service data (bit 0x0100 of the first two bytes).
// Returns on and ok; ok is false when the advertisement carries no
// usable service data.
func (a Advertisement) SwitchStateFromServiceData() (on, ok bool) {
	for uuid, data := range a.ServiceData {
		if !strings.EqualFold(uuid, SwitchmateServiceUUID) || len(data) < 2 {
			continue
		}
		return data[1]&0x01 != 0, true
	}
	return false, false
}

// Characteristic is one GATT characteristic on a connected device.
type Characteristic interface {
	Read() ([]byte, error)
	Write(p []byte) error
	// Subscribe registers a notification callback. The callback stays
	// registered until the connection drops.
	Subscribe(fn func(p []byte)) error
}

// CharRef pairs a discovered characteristic with its UUIDs.
type CharRef struct {
	ServiceUUID string
	UUID        string
	Char        Characteristic
}

// Conn is one established connection with its discovered GATT table.
type Conn interface {
	Characteristics() []CharRef
	Disconnect() error
}

// Transport abstracts the platform BLE stack: advertisement scanning
// and connection establishment. Implementations must allow StopScan
// from another goroutine while Scan blocks.
type Transport interface {
	// Enable powers on the adapter. Failure is fatal (ErrAdapter).
	Enable() error
	// Scan streams advertisements to fn until StopScan is called.
	Scan(fn func(Advertisement)) error
	StopScan() error
	// Connect establishes a single connection attempt to the address.
	Connect(address string, timeout time.Duration) (Conn, error)
}
