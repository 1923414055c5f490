package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const hexPrefix = "hex:"

// ParseSecret turns a configured key or IV into bytes. Values prefixed with
// "hex:" are hex-decoded; anything else is used as raw bytes.
func ParseSecret(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, hexPrefix); ok {
		b, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("codec: invalid hex secret: %w", err)
		}
		return b, nil
	}
	return []byte(s), nil
}

// NewFromStrings builds a codec from configured key and IV strings.
func NewFromStrings(key, iv string) (*FrameCodec, error) {
	k, err := ParseSecret(key)
	if err != nil {
		return nil, err
	}
	v, err := ParseSecret(iv)
	if err != nil {
		return nil, err
	}
	return New(k, v)
}
