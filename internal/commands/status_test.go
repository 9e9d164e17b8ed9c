package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	old := ble.ConnectBackoff
	ble.ConnectBackoff = time.Millisecond
	t.Cleanup(func() { ble.ConnectBackoff = old })
}

func switchmateAdvert(addr string) ble.Advertisement {
	return ble.Advertisement{
		Address:      addr,
		RSSI:         -60,
		ServiceUUIDs: []string{ble.SwitchmateServiceUUID},
	}
}

func TestStatusSingleDevice(t *testing.T) {
	tr := newFakeTransport()
	conn := newFakeConn(map[string]*fakeChar{
		ble.StatusCharUUID: {value: []byte{0x01}},
	})
	tr.conns[testAddr.String()] = conn

	err := Status(context.Background(), tr, testAddr, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.disconnectCount())
}

func TestStatusScansWhenNoAddressGiven(t *testing.T) {
	tr := newFakeTransport()
	tr.adverts = []ble.Advertisement{switchmateAdvert(testAddr.String())}
	conn := newFakeConn(map[string]*fakeChar{
		ble.StatusCharUUID: {value: []byte{0x00}},
	})
	tr.conns[testAddr.String()] = conn

	err := Status(context.Background(), tr, "", 20*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.disconnectCount())
}

func TestStatusContinuesPastFailingDevice(t *testing.T) {
	fastBackoff(t)
	unreachable := device.Address("c2:00:00:00:00:01")
	tr := newFakeTransport()
	tr.adverts = []ble.Advertisement{
		switchmateAdvert(unreachable.String()),
		switchmateAdvert(testAddr.String()),
	}
	// Only testAddr has a connectable fake; the other device's connect
	// attempts all fail.
	conn := newFakeConn(map[string]*fakeChar{
		ble.StatusCharUUID: {value: []byte{0x01}},
	})
	tr.conns[testAddr.String()] = conn

	err := Status(context.Background(), tr, "", 20*time.Millisecond, time.Second)
	require.NoError(t, err, "one unreachable device must not fail the batch")
	assert.Equal(t, 1, conn.disconnectCount(), "the reachable device is still read")
}

func TestStatusNoDevicesFound(t *testing.T) {
	tr := newFakeTransport()

	err := Status(context.Background(), tr, "", 10*time.Millisecond, time.Second)
	assert.NoError(t, err)
}

func TestStatusAdapterFailure(t *testing.T) {
	tr := newFakeTransport()
	tr.enableErr = ble.ErrAdapter

	err := Status(context.Background(), tr, testAddr, 10*time.Millisecond, time.Second)
	assert.ErrorIs(t, err, ble.ErrAdapter)
}
