package port

import (
	"context"
	"errors"
)

// ErrSecretNotFound reports a key with no stored value.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore is an opaque key -> string lookup for credentials and
// operator-maintained values (account id, tokens, symbol id, chain
// address). Set overwrites.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
