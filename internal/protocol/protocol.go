// Package protocol implements the Switchmate wire format: the pairing
// trigger value, the auth key notification payload, the legacy signed
// switch command, and the verify ack.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// AuthInitValue is written to the auth-trigger characteristic to begin
// the pairing exchange. The device then waits for a physical button
// press before notifying the key.
var AuthInitValue = []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00}

// DecodeAuthKey extracts the 4-byte auth key from a pairing
// notification. The firmware prefixes the key with a short header, so
// the key is always the trailing four bytes of the payload.
func DecodeAuthKey(payload []byte) ([]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("auth notification too short: %d bytes", len(payload))
	}
	key := make([]byte, 4)
	copy(key, payload[len(payload)-4:])
	return key, nil
}

// AckAccepted decodes the 1-byte ack the device writes back after a key
// verification: zero means the key was accepted.
func AckAccepted(payload []byte) bool {
	return len(payload) >= 1 && payload[0] == 0x00
}

// Sign computes the authentication signature legacy firmware requires
// on switch commands: a variant of the FNV hash over command||key,
// packed with the first two command bytes into six bytes, little-endian.
func Sign(data, key []byte) []byte {
	if len(data) < 2 {
		panic("protocol: sign needs at least 2 command bytes")
	}
	blob := make([]byte, 0, len(data)+len(key))
	blob = append(blob, data...)
	blob = append(blob, key...)

	x := uint64(blob[0]) << 7
	for _, c := range blob {
		x = 1000003*x ^ uint64(c) ^ uint64(len(blob))
	}

	packed := (x&0xffffffff)<<16 | uint64(data[0])<<48 | uint64(data[1])<<56
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], packed)
	return out[2:]
}

// SignedSwitchCommand builds the legacy switch write: command byte 0x01
// plus the target state, signed under the device key.
func SignedSwitchCommand(target byte, key []byte) []byte {
	return Sign([]byte{0x01, target}, key)
}
