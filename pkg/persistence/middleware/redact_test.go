package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewRedactMiddleware([]string{"email", "phone"})
	require.NoError(t, err)
	secure := mw(underlying)
	ctx := context.Background()

	l := domain.NewLedger()
	e := domain.NewDualEntry("my email is in the text and stays")
	e.Extra = map[string]any{
		"contact_email": "me@example.com",
		"details":       map[string]any{"phone_number": "555", "city": "Lisbon"},
	}
	l.Put("1", e)
	l.Extra = map[string]any{"email": "top@example.com", "theme": "dark"}

	require.NoError(t, secure.Save(ctx, "s", l))

	// In-memory ledger untouched.
	orig, _ := l.Entry("1")
	assert.Equal(t, "me@example.com", orig.Extra["contact_email"])

	stored, err := underlying.Load(ctx, "s")
	require.NoError(t, err)

	se, _ := stored.Entry("1")
	assert.Equal(t, "my email is in the text and stays", se.Text)
	assert.Equal(t, middleware.RedactedValue, se.Extra["contact_email"])
	details := se.Extra["details"].(map[string]any)
	assert.Equal(t, middleware.RedactedValue, details["phone_number"])
	assert.Equal(t, "Lisbon", details["city"])
	assert.Equal(t, middleware.RedactedValue, stored.Extra["email"])
	assert.Equal(t, "dark", stored.Extra["theme"])
}

func TestRedactMiddleware_BadPattern(t *testing.T) {
	_, err := middleware.NewRedactMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	redact, err := middleware.NewRedactMiddleware([]string{"secret"})
	require.NoError(t, err)
	encrypt := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})

	store := middleware.Chain(underlying, redact, encrypt)
	ctx := context.Background()

	l := domain.NewLedger()
	l.Extra = map[string]any{"secret": "x"}
	require.NoError(t, store.Save(ctx, "s", l))

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, middleware.RedactedValue, loaded.Extra["secret"], "redaction runs before encryption")
}
