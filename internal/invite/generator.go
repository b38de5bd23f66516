package invite

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeLength is the fixed length of an invitation code.
	CodeLength = 8

	// maxAttempts bounds the collision-retry loop. With 36^8 possible codes a
	// collision is astronomically unlikely, but the loop must not be able to
	// spin forever against a broken store.
	maxAttempts = 20
)

// CodeStore answers whether an invitation code is already assigned.
type CodeStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	store CodeStore
}

func New(store CodeStore) *Generator {
	return &Generator{store: store}
}

// Next returns a fresh 8-character code from [A-Z0-9] that does not collide
// with any stored code. It has no side effects beyond the existence check.
func (g *Generator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate invitation code: %w", err)
		}

		exists, err := g.store.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check invitation code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free invitation code after %d attempts", maxAttempts)
}

func randomCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
