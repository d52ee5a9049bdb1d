// Package address derives deterministic record addresses from an owner
// identity and a record id.
//
// A candidate address is the SHA-256 digest of a domain-separated seed
// string. A candidate is only usable when the digest is not a valid
// edwards25519 point encoding, which keeps derived addresses disjoint from
// the space of real signing keys. Find discovers the canonical bump, the
// first value counting down from 255 whose digest falls outside the curve.
package address

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

// Size is the length in bytes of identities and addresses.
const Size = 32

// derivationDomain tags the address hash so derived addresses can never
// collide with other hashed artifacts of the system.
const derivationDomain = "expense-records/address/v1"

// ErrNoBumpFound is returned when every bump value from 255 down to 0
// produces an on-curve digest. The probability of this is negligible, but
// callers must still handle it.
var ErrNoBumpFound = errors.New("no bump produces a valid address")

// Identity is a 32-byte signer identity, the public half of an ed25519
// keypair.
type Identity [Size]byte

// Hex returns the lowercase hex encoding of the identity.
func (i Identity) Hex() string {
	return hex.EncodeToString(i[:])
}

// ParseIdentity decodes a hex-encoded 32-byte identity.
func ParseIdentity(s string) (Identity, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	if len(b) != Size {
		return Identity{}, fmt.Errorf("invalid identity %q: expected %d bytes, got %d", s, Size, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// Address is a 32-byte derived record address.
type Address [Size]byte

// Hex returns the lowercase hex encoding of the address.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// ParseAddress decodes a hex-encoded 32-byte address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) != Size {
		return Address{}, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, Size, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// Derive returns the candidate address for the given owner, record id and
// bump. The result is only a usable address when its bytes are not a valid
// curve point; use Find to discover the canonical bump.
func Derive(owner Identity, id uint64, bump uint8) Address {
	var idBytes [8]byte
	binary.LittleEndian.PutUint64(idBytes[:], id)

	h := sha256.New()
	h.Write([]byte(derivationDomain))
	h.Write([]byte{0x00})
	h.Write([]byte("expense"))
	h.Write(owner[:])
	h.Write(idBytes[:])
	h.Write([]byte{bump})

	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// Find returns the canonical address for the given owner and record id,
// along with the bump that produced it. The bump counts down from 255 and
// the first off-curve digest wins, so the result is deterministic.
func Find(owner Identity, id uint64) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		a := Derive(owner, id, uint8(bump))
		if !onCurve(a[:]) {
			return a, uint8(bump), nil
		}
	}
	return Address{}, 0, ErrNoBumpFound
}

// onCurve reports whether b is a valid edwards25519 point encoding.
func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
