package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/persistence/middleware"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunLedgerStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()
	original := domain.NewLedger()
	original.Put("1", domain.NewDualEntry("my-secret-sauce"))

	require.NoError(t, secure.Save(ctx, domain.DefaultSlot, original))

	stored, err := underlying.Load(ctx, domain.DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Len(), "entries must be hidden in the envelope")
	assert.Contains(t, stored.Extra, middleware.EnvelopeField)

	loaded, err := secure.Load(ctx, domain.DefaultSlot)
	require.NoError(t, err)
	e, _ := loaded.Entry("1")
	assert.Equal(t, "my-secret-sauce", e.Text)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)

	l := domain.NewLedger()
	l.Put("1", domain.NewDualEntry("encrypted-with-old-key"))
	require.NoError(t, secureOld.Save(ctx, "rotation", l))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "rotation")
	require.NoError(t, err)
	e, _ := loaded.Entry("1")
	assert.Equal(t, "encrypted-with-old-key", e.Text)

	loaded.Put("1", domain.NewDualEntry("encrypted-with-new-key"))
	require.NoError(t, secureNew.Save(ctx, "rotation", loaded))

	_, err = secureOld.Load(ctx, "rotation")
	assert.ErrorIs(t, err, middleware.ErrDecrypt)
	assert.NotErrorIs(t, err, domain.ErrCorruptLedger)
}

func TestEncryptionMiddleware_PlainLedgerRejected(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	plain := domain.NewLedger()
	plain.Put("1", domain.NewDualEntry("not encrypted"))
	require.NoError(t, underlying.Save(ctx, "s", plain))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "s")
	assert.ErrorIs(t, err, middleware.ErrDecrypt)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	_, err = middleware.ParseKey("!!!")
	assert.Error(t, err)
}
