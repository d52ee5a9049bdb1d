// Package auth verifies signed transaction envelopes. An envelope binds an
// instruction payload to a 32-byte signer identity with an ed25519 signature
// over domain-separated payload bytes.
package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/api"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

// signingDomain tags the signed bytes so envelope signatures can never be
// replayed as signatures over other artifacts of the system.
const signingDomain = "expense-records/transaction/v1"

// SigningBytes returns the exact bytes an envelope signature covers.
func SigningBytes(payload []byte) []byte {
	b := make([]byte, 0, len(signingDomain)+1+len(payload))
	b = append(b, signingDomain...)
	b = append(b, 0x00)
	b = append(b, payload...)
	return b
}

// Sign produces a hex-encoded envelope signature over payload.
func Sign(priv ed25519.PrivateKey, payload []byte) string {
	return hex.EncodeToString(ed25519.Sign(priv, SigningBytes(payload)))
}

// VerifyEnvelope checks the envelope signature against its signer and returns
// the signer's identity. A signature that does not verify wraps
// storage.ErrInvalidCaller; malformed envelopes return plain errors.
func VerifyEnvelope(env *api.TransactionEnvelope) (address.Identity, error) {
	signer, err := address.ParseIdentity(env.Signer)
	if err != nil {
		return address.Identity{}, fmt.Errorf("failed to parse signer: %w", err)
	}

	sig, err := hex.DecodeString(env.Signature)
	if err != nil {
		return address.Identity{}, fmt.Errorf("failed to parse signature: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return address.Identity{}, fmt.Errorf("invalid signature length: expected %d bytes, got %d", ed25519.SignatureSize, len(sig))
	}

	if len(env.Payload) == 0 {
		return address.Identity{}, errors.New("envelope payload is empty")
	}

	if !ed25519.Verify(ed25519.PublicKey(signer[:]), SigningBytes(env.Payload), sig) {
		return address.Identity{}, fmt.Errorf("signature does not verify for signer %s: %w", env.Signer, storage.ErrInvalidCaller)
	}

	return signer, nil
}
