package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
	"github.com/vitaminmoo/switchmate-tool/internal/protocol"
)

// Auth performs the one-time pairing handshake: trigger the exchange,
// have the operator press the device button, and wait for the key
// notification. The minted key is printed and returned so the CLI layer
// can persist it; the handshake itself never caches anything.
func Auth(ctx context.Context, t ble.Transport, addr device.Address, timeout, wait time.Duration) (device.AuthKey, error) {
	if err := t.Enable(); err != nil {
		return device.NoAuth, err
	}

	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return device.NoAuth, err
	}
	defer session.Close()

	fmt.Println("Press button on Switchmate to get auth key")

	payload, err := session.SubscribeAndWait(ctx, ble.AuthNotifyCharUUID, func() error {
		return session.Write(ble.AuthTriggerCharUUID, protocol.AuthInitValue)
	}, wait)
	if err != nil {
		if errors.Is(err, ble.ErrTimeout) {
			return device.NoAuth, fmt.Errorf("%w within %s", ble.ErrAuthTimeout, wait)
		}
		return device.NoAuth, err
	}

	raw, err := protocol.DecodeAuthKey(payload)
	if err != nil {
		return device.NoAuth, fmt.Errorf("%w: %v", ble.ErrDecode, err)
	}
	key, err := device.KeyFromBytes(raw)
	if err != nil {
		return device.NoAuth, fmt.Errorf("%w: %v", ble.ErrDecode, err)
	}

	fmt.Printf("Auth key is %s\n", key)
	return key, nil
}
