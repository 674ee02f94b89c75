// Package slugs derives unique URL identifiers for clubs.
package slugs

import (
	"context"
	"errors"
	"strconv"

	"github.com/gosimple/slug"
)

// Fallback is used when a name transliterates to nothing
const Fallback = "club"

// MaxProbes bounds the linear probe
const MaxProbes = 1000

// ErrExhausted is returned when every probed candidate is taken
var ErrExhausted = errors.New("no free slug candidate")

// ExistsFunc reports whether a slug is already taken
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Base transliterates name into a lowercase URL-safe token
func Base(name string) string {
	s := slug.MakeLang(name, "tr")
	if s == "" {
		return Fallback
	}
	return s
}

// Generate probes base, base-1, base-2, ... and returns the first candidate
// for which exists is false.
func Generate(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := Base(name)
	candidate := base

	for i := 1; i <= MaxProbes; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", ErrExhausted
}
