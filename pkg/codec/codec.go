package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/ssargent/logan/pkg/entry"
)

var (
	ErrCiphertextSize = errors.New("codec: ciphertext is not a multiple of the block size")
	ErrEmptyPayload   = errors.New("codec: empty payload")
	ErrInvalidIV      = errors.New("codec: iv must be 16 bytes")
)

// FrameCodec opens frame payloads with a fixed key and IV.
type FrameCodec struct {
	block cipher.Block
	iv    []byte
}

// New creates a codec. key must be 16, 24 or 32 bytes and iv 16 bytes.
func New(key, iv []byte) (*FrameCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, ErrInvalidIV
	}
	return &FrameCodec{block: block, iv: append([]byte(nil), iv...)}, nil
}

// Open decrypts and inflates one payload.
func (c *FrameCodec) Open(payload []byte) ([]byte, error) {
	plain, err := c.decrypt(payload)
	if err != nil {
		return nil, err
	}
	return inflate(plain)
}

// Decode is Open with failures converted into a placeholder record. The
// returned error is informational only; the bytes are always usable.
func (c *FrameCodec) Decode(payload []byte) ([]byte, error) {
	data, err := c.Open(payload)
	if err != nil {
		return entry.PlaceholderLine("Error: " + err.Error()), err
	}
	return data, nil
}

// Seal compresses and encrypts data into a payload that Open accepts.
func (c *FrameCodec) Seal(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("codec: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("codec: compress: %w", err)
	}

	plain := pad(buf.Bytes())
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, plain)
	return out, nil
}

func (c *FrameCodec) decrypt(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(payload)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertextSize, len(payload))
	}
	plain := make([]byte, len(payload))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plain, payload)
	return plain, nil
}

// inflate reads the first gzip member of plain. Bytes after the member are
// padding. A stream cut short yields whatever was inflated before the cut.
func inflate(plain []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(plain))
	if err != nil {
		return nil, fmt.Errorf("codec: inflate: %w", err)
	}
	zr.Multistream(false)
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && len(data) > 0 {
			return data, nil
		}
		return nil, fmt.Errorf("codec: inflate: %w", err)
	}
	return data, nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}
