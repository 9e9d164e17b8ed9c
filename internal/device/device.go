// Package device holds per-device identity and protocol state for
// Switchmate switches: BLE address normalization, auth keys, and the
// decoded switch/battery state.
package device

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress reports a malformed BLE MAC address. It is an input
// error: no BLE operation has been attempted.
var ErrInvalidAddress = errors.New("invalid device address")

// ErrInvalidKey reports a malformed auth key argument.
var ErrInvalidKey = errors.New("invalid auth key")

// Address is a normalized BLE MAC address: six octets, lower-case
// colon-separated hex. Always normalize via ParseAddress before using an
// address as a map key or comparing it.
type Address string

// ParseAddress validates and normalizes a BLE MAC address. It accepts
// colon or dash separators and bare 12-digit hex, in any case.
func ParseAddress(s string) (Address, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.ReplaceAll(raw, "-", "")
	raw = strings.ReplaceAll(raw, ":", "")
	if len(raw) != 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(raw[i : i+2])
	}
	return Address(b.String()), nil
}

func (a Address) String() string { return string(a) }

// AuthKey is the 4-byte token minted by the pairing handshake, or the
// "no auth required" sentinel for devices that accept unauthenticated
// writes. The zero value is the sentinel.
type AuthKey struct {
	key     [4]byte
	present bool
}

// NoAuth is the "no auth required" sentinel.
var NoAuth = AuthKey{}

// KeySentinel is the CLI spelling of NoAuth.
const KeySentinel = "none"

// ParseKey parses an auth key argument: either the "none" sentinel or
// exactly eight hex digits.
func ParseKey(s string) (AuthKey, error) {
	if strings.EqualFold(strings.TrimSpace(s), KeySentinel) {
		return NoAuth, nil
	}
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != 4 {
		return AuthKey{}, fmt.Errorf("%w: %q (want 8 hex digits or %q)", ErrInvalidKey, s, KeySentinel)
	}
	return KeyFromBytes(raw)
}

// KeyFromBytes builds an AuthKey from a raw 4-byte key payload.
func KeyFromBytes(raw []byte) (AuthKey, error) {
	if len(raw) != 4 {
		return AuthKey{}, fmt.Errorf("%w: got %d bytes, want 4", ErrInvalidKey, len(raw))
	}
	var k AuthKey
	copy(k.key[:], raw)
	k.present = true
	return k, nil
}

// Present reports whether this is a real key rather than the sentinel.
func (k AuthKey) Present() bool { return k.present }

// Bytes returns the raw 4-byte key, or nil for the sentinel.
func (k AuthKey) Bytes() []byte {
	if !k.present {
		return nil
	}
	out := make([]byte, 4)
	copy(out, k.key[:])
	return out
}

// String formats the key the way auth prints it: eight uppercase hex
// digits, or "none" for the sentinel.
func (k AuthKey) String() string {
	if !k.present {
		return KeySentinel
	}
	return strings.ToUpper(hex.EncodeToString(k.key[:]))
}

// State is the observed switch position.
type State int

const (
	StateUnknown State = iota
	StateOff
	StateOn
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateOn:
		return "on"
	default:
		return "unknown"
	}
}

// Inverse returns the toggle target for a known state. Unknown has no
// inverse and maps to Unknown.
func (s State) Inverse() State {
	switch s {
	case StateOff:
		return StateOn
	case StateOn:
		return StateOff
	default:
		return StateUnknown
	}
}

// Byte returns the wire encoding of a known state for the switch
// characteristic.
func (s State) Byte() byte {
	if s == StateOn {
		return 0x01
	}
	return 0x00
}

// DecodeState decodes a status characteristic payload. Zero means off,
// any nonzero byte means on. Short or empty payloads decode to Unknown,
// never an error: status reads must not crash on firmware quirks.
func DecodeState(payload []byte) State {
	if len(payload) < 1 {
		return StateUnknown
	}
	if payload[0] == 0x00 {
		return StateOff
	}
	return StateOn
}

// DecodeBattery decodes a battery level characteristic payload into a
// percentage.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, errors.New("empty battery payload")
	}
	level := int(payload[0])
	if level > 100 {
		return 0, fmt.Errorf("battery level out of range: %d", level)
	}
	return level, nil
}
