package crypt

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_KEY", "test-secret-key")
	os.Exit(m.Run())
}

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := Seal([]byte("guest cart payload"))
	require.NoError(t, err)
	assert.NotEqual(t, "guest cart payload", sealed)

	plain, err := Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "guest cart payload", string(plain))
}

func TestOpenRejectsTampering(t *testing.T) {
	sealed, err := Seal([]byte("payload"))
	require.NoError(t, err)

	tampered := []byte(sealed)
	tampered[len(tampered)-1] ^= 'x'

	_, err = Open(string(tampered))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open("not base64!!")
	assert.ErrorIs(t, err, ErrOpen)

	_, err = Open("dG9vc2hvcnQ")
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSealJSON(t *testing.T) {
	type line struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	sealed, err := SealJSON([]line{{ProductID: "abc", Quantity: 2}})
	require.NoError(t, err)

	var out []line
	require.NoError(t, OpenJSON(sealed, &out))
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Quantity)
}
