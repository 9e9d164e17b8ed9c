package ble

import "errors"

// Error classes for BLE failures. Callers match with errors.Is; the CLI
// maps each class to a distinct exit code.
var (
	// ErrAdapter means the BLE adapter could not be opened (missing
	// hardware or permissions). Fatal, never retried.
	ErrAdapter = errors.New("bluetooth adapter unavailable")

	// ErrConnect means connection attempts to a device were exhausted.
	ErrConnect = errors.New("could not connect to device")

	// ErrTimeout means a read, write, or notification wait expired.
	ErrTimeout = errors.New("operation timed out")

	// ErrAuthRequired means the device rejected an unauthenticated or
	// wrongly-keyed write.
	ErrAuthRequired = errors.New("device rejected auth key")

	// ErrAuthTimeout means no button press was observed during the
	// pairing window.
	ErrAuthTimeout = errors.New("no button press observed")

	// ErrDecode means a characteristic payload had an unexpected shape.
	ErrDecode = errors.New("unexpected characteristic payload")

	// ErrCharacteristicMissing means the device does not expose an
	// expected characteristic.
	ErrCharacteristicMissing = errors.New("characteristic not found")
)
