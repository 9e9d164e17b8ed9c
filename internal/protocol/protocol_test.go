package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuthKeyTakesTrailingBytes(t *testing.T) {
	key, err := DecodeAuthKey([]byte{0x20, 0x01, 0x11, 0x22, 0x33, 0x44})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, key)
}

func TestDecodeAuthKeyExactLength(t *testing.T) {
	key, err := DecodeAuthKey([]byte{0xaa, 0xbb, 0xcc, 0xdd})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0xdd}, key)
}

func TestDecodeAuthKeyTooShort(t *testing.T) {
	_, err := DecodeAuthKey([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestDecodeAuthKeyIsACopy(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	key, err := DecodeAuthKey(payload)
	require.NoError(t, err)
	payload[3] = 0xff
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, key)
}

func TestAckAccepted(t *testing.T) {
	assert.True(t, AckAccepted([]byte{0x00}))
	assert.True(t, AckAccepted([]byte{0x00, 0x01}))
	assert.False(t, AckAccepted([]byte{0x01}))
	assert.False(t, AckAccepted(nil))
	assert.False(t, AckAccepted([]byte{}))
}

func TestSignShape(t *testing.T) {
	key := []byte{0x11, 0x22, 0x33, 0x44}
	sig := Sign([]byte{0x01, 0x01}, key)

	// Six bytes, with the two command bytes carried in the tail.
	require.Len(t, sig, 6)
	assert.Equal(t, byte(0x01), sig[4])
	assert.Equal(t, byte(0x01), sig[5])

	off := Sign([]byte{0x01, 0x00}, key)
	require.Len(t, off, 6)
	assert.Equal(t, byte(0x01), off[4])
	assert.Equal(t, byte(0x00), off[5])
}

func TestSignDeterministic(t *testing.T) {
	key := []byte{0xde, 0xad, 0xbe, 0xef}
	a := Sign([]byte{0x01, 0x01}, key)
	b := Sign([]byte{0x01, 0x01}, key)
	assert.Equal(t, a, b)
}

func TestSignKnownVectors(t *testing.T) {
	key := []byte{0x11, 0x22, 0x33, 0x44}
	assert.Equal(t, []byte{0xa2, 0x93, 0xba, 0x34, 0x01, 0x01}, Sign([]byte{0x01, 0x01}, key))
	assert.Equal(t, []byte{0xbf, 0xa8, 0x5b, 0x2e, 0x01, 0x00}, Sign([]byte{0x01, 0x00}, key))
}

func TestSignVariesWithKey(t *testing.T) {
	a := Sign([]byte{0x01, 0x01}, []byte{0x11, 0x22, 0x33, 0x44})
	b := Sign([]byte{0x01, 0x01}, []byte{0x11, 0x22, 0x33, 0x45})
	assert.NotEqual(t, a, b)
}

func TestSignVariesWithTarget(t *testing.T) {
	key := []byte{0x11, 0x22, 0x33, 0x44}
	on := Sign([]byte{0x01, 0x01}, key)
	off := Sign([]byte{0x01, 0x00}, key)
	assert.NotEqual(t, on[:4], off[:4])
}

func TestSignedSwitchCommand(t *testing.T) {
	key := []byte{0x11, 0x22, 0x33, 0x44}
	cmd := SignedSwitchCommand(0x01, key)
	assert.Equal(t, Sign([]byte{0x01, 0x01}, key), cmd)
}
