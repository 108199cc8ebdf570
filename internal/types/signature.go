package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const SignatureSize = 64

type Signature [SignatureSize]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureSize {
		return s, fmt.Errorf("invalid signature length: got %d, want %d", len(b), SignatureSize)
	}
	copy(s[:], b)
	return s, nil
}
