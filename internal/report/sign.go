package report

import (
	"bytes"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// personalSignPrefix is the literal "\x19Ethereum Signed Message:\n32"
// prefix of the personal_sign convention. The "32" is the byte length of
// the digest being signed and is always literal here since payload hashes
// are fixed at 32 bytes. Signing without this prefix produces signatures
// the contract will never accept; PersonalSign is the only signing path
// this package exposes over payload hashes.
const personalSignPrefix = "\x19Ethereum Signed Message:\n32"

// SignatureLength is r(32) + s(32) + v(1).
const SignatureLength = 65

// Signature is a 65-byte Ethereum signature with v in {27, 28}.
type Signature []byte

// V returns the recovery byte (27 or 28).
func (s Signature) V() byte {
	return s[crypto.RecoveryIDOffset]
}

// SigningError is a fatal internal-consistency fault in the signer.
// It is never retryable.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return "signing failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "signing failed: " + e.Reason
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// KeyPair holds the single account used for both payload signing and
// transaction envelope signing. The private key never leaves this struct.
type KeyPair struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewKeyPairFromHex parses a hex-encoded secp256k1 private key.
// A 0x prefix is accepted but not required.
func NewKeyPairFromHex(hexKey string) (*KeyPair, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	privateKey, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	return &KeyPair{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the 20-byte address derived from the public key.
func (k *KeyPair) Address() common.Address {
	return k.address
}

// SigningDigest returns keccak256(prefix ++ payloadHash), the digest the
// curve signature is actually made over. Exported so verification code and
// tests recompute exactly what the contract recomputes.
func SigningDigest(payloadHash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte(personalSignPrefix), payloadHash.Bytes())
}

// PersonalSign signs a payload hash under the personal_sign convention:
// prefix, keccak, secp256k1 sign (deterministic, low-s), then map the
// recovery id to v = id + 27. The recovery id is validated by recovering
// the public key and comparing it against the keypair's; a mismatch is a
// fatal SigningError, not a retryable condition.
func (k *KeyPair) PersonalSign(payloadHash common.Hash) (Signature, error) {
	digest := SigningDigest(payloadHash)

	sig, err := crypto.Sign(digest.Bytes(), k.privateKey)
	if err != nil {
		return nil, &SigningError{Reason: "secp256k1 signing failed", Err: err}
	}

	recovered, err := crypto.Ecrecover(digest.Bytes(), sig)
	if err != nil {
		return nil, &SigningError{Reason: "recovery id validation failed", Err: err}
	}
	if !bytes.Equal(recovered, crypto.FromECDSAPub(&k.privateKey.PublicKey)) {
		return nil, &SigningError{Reason: "recovered public key does not match signer"}
	}

	// Ethereum encodes the recovery id as v = id + 27; v is 27/28 at every
	// boundary, never the raw 0/1.
	sig[crypto.RecoveryIDOffset] += 27

	return Signature(sig), nil
}

// SignTx signs a transaction envelope with the account's private key.
// This is the chain's native transaction-signing scheme and is distinct
// from PersonalSign, which signs report payloads.
func (k *KeyPair) SignTx(tx *ethtypes.Transaction, signer ethtypes.Signer) (*ethtypes.Transaction, error) {
	signedTx, err := ethtypes.SignTx(tx, signer, k.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction envelope")
	}
	return signedTx, nil
}
