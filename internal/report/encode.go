package report

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// payloadArguments describes the ABI tuple the destination contract hashes
// for signature verification: (string,string,uint256,uint256[6],int256[2]).
// The encoding must be byte-identical to the canonical JavaScript ABI
// encoder for the same values; the contract recovers the signer from a
// keccak over exactly these bytes.
var payloadArguments = abi.Arguments{
	{Name: "serverId", Type: mustNewType("string")},
	{Name: "userCode", Type: mustNewType("string")},
	{Name: "timestamp", Type: mustNewType("uint256")},
	{Name: "sensors", Type: mustNewType("uint256[6]")},
	{Name: "location", Type: mustNewType("int256[2]")},
}

func mustNewType(solidityType string) abi.Type {
	typ, err := abi.NewType(solidityType, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Encode serializes the report with standard ABI head/tail layout.
// Deterministic for a given report; output length is a multiple of 32.
func (r *Report) Encode() ([]byte, error) {
	encoded, err := payloadArguments.Pack(r.ServerID, r.UserCode, r.Timestamp, r.Sensors, r.Location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to ABI-encode report payload")
	}
	return encoded, nil
}

// PayloadHash returns the legacy Keccak-256 digest of the encoded payload.
// This is the digest the signer prefixes and the contract recomputes.
func (r *Report) PayloadHash() (common.Hash, error) {
	encoded, err := r.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}
