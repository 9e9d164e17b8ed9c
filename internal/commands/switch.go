package commands

import (
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/config"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
	"github.com/vitaminmoo/switchmate-tool/internal/protocol"
)

// Switch sets the device to the requested state and verifies the result
// by reading the status back.
func Switch(t ble.Transport, addr device.Address, key device.AuthKey, target device.State, timeout time.Duration) error {
	if err := t.Enable(); err != nil {
		return err
	}

	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return err
	}
	defer session.Close()

	return performSwitch(session, key, target)
}

// Toggle reads the current state, computes the inverse, and runs the
// switch path for it over the same session.
func Toggle(t ble.Transport, addr device.Address, key device.AuthKey, timeout time.Duration) error {
	if err := t.Enable(); err != nil {
		return err
	}

	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return err
	}
	defer session.Close()

	payload, err := session.Read(ble.StatusCharUUID)
	if err != nil {
		return err
	}
	current := device.DecodeState(payload)
	if current == device.StateUnknown {
		return fmt.Errorf("%w: cannot toggle, current state unreadable", ble.ErrDecode)
	}

	return performSwitch(session, key, current.Inverse())
}

// performSwitch runs the write path on an open session: verify the key
// if the firmware supports it, write the target state, read the status
// back and compare.
func performSwitch(session *ble.Session, key device.AuthKey, target device.State) error {
	// Modern firmware exposes a verify characteristic; legacy firmware
	// instead requires every switch write to be signed under the key.
	legacy := !session.HasCharacteristic(ble.AuthVerifyCharUUID)

	if key.Present() && !legacy {
		if err := verifyKey(session, key); err != nil {
			return err
		}
	}

	payload := []byte{target.Byte()}
	if legacy && key.Present() {
		payload = protocol.SignedSwitchCommand(target.Byte(), key.Bytes())
	}

	if err := session.Write(ble.SwitchCharUUID, payload); err != nil {
		if !key.Present() {
			// Unauthenticated writes are attempted regardless; some
			// firmware accepts them. A denied ack means a key is needed.
			return fmt.Errorf("%w: %v", ble.ErrAuthRequired, err)
		}
		return err
	}

	observed, err := session.Read(ble.StatusCharUUID)
	if err != nil {
		return fmt.Errorf("switch write sent but verification failed: %w", err)
	}
	if got := device.DecodeState(observed); got != target {
		return fmt.Errorf("switch verification mismatch: device reports %s, wanted %s", got, target)
	}

	if target == device.StateOn {
		fmt.Println("Switched on!")
	} else {
		fmt.Println("Switched off!")
	}
	return nil
}

// verifyKey writes the key to the verify characteristic and checks the
// 1-byte ack.
func verifyKey(session *ble.Session, key device.AuthKey) error {
	if err := session.Write(ble.AuthVerifyCharUUID, key.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ble.ErrAuthRequired, err)
	}
	ack, err := session.Read(ble.AuthVerifyCharUUID)
	if err != nil {
		return fmt.Errorf("read verify ack: %w", err)
	}
	if !protocol.AckAccepted(ack) {
		config.Debugf("Verify ack: %X", ack)
		return fmt.Errorf("%w (ack %X)", ble.ErrAuthRequired, ack)
	}
	return nil
}
