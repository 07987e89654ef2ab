package chain

import (
	"context"
	"math/big"
	"sync"

	"github/gather/report-gateway/internal/report"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MethodSignature is the canonical Solidity signature of the contract
// entry point; its keccak prefix is the function selector.
const MethodSignature = "submitReport(string,string,uint256,uint256[6],int256[2],bytes)"

const selectorLength = 4

var methodID = crypto.Keccak256([]byte(MethodSignature))[:selectorLength]

// callArguments is the full argument tuple of submitReport. The trailing
// bytes parameter carries the 65-byte payload signature as a dynamic
// value with its own length-prefixed tail entry, distinct from the
// fixed-layout payload tuple the signature was computed over.
var callArguments = abi.Arguments{
	{Name: "serverId", Type: mustNewType("string")},
	{Name: "userCode", Type: mustNewType("string")},
	{Name: "timestamp", Type: mustNewType("uint256")},
	{Name: "sensors", Type: mustNewType("uint256[6]")},
	{Name: "location", Type: mustNewType("int256[2]")},
	{Name: "signature", Type: mustNewType("bytes")},
}

func mustNewType(solidityType string) abi.Type {
	typ, err := abi.NewType(solidityType, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Submitter signs a report payload and broadcasts it as a submitReport
// contract call.
type Submitter interface {
	// Submit performs exactly one broadcast per successful call and
	// returns the transaction hash. Idempotence is not guaranteed here;
	// the contract rejects duplicates by its own business rules.
	Submit(ctx context.Context, r *report.Report) (common.Hash, error)
}

type submitter struct {
	backend  Backend
	keyPair  *report.KeyPair
	contract common.Address
	gasLimit uint64

	// nonceMu serializes the nonce-fetch → broadcast critical section so
	// concurrent submissions from one account never collide on a nonce.
	// Separate processes sharing the key remain the operator's problem.
	nonceMu sync.Mutex

	chainIDMu sync.Mutex
	chainID   *big.Int
}

// NewSubmitter creates a Submitter for a single account and contract.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSubmitter(backend Backend, keyPair *report.KeyPair, contract common.Address, gasLimit uint64) Submitter {
	return &submitter{
		backend:  backend,
		keyPair:  keyPair,
		contract: contract,
		gasLimit: gasLimit,
	}
}

// Submit runs sign → build → broadcast for one report.
func (s *submitter) Submit(ctx context.Context, r *report.Report) (common.Hash, error) {
	payloadHash, err := r.PayloadHash()
	if err != nil {
		return common.Hash{}, err
	}

	signature, err := s.keyPair.PersonalSign(payloadHash)
	if err != nil {
		return common.Hash{}, err
	}

	data, err := BuildCallData(r, signature)
	if err != nil {
		return common.Hash{}, err
	}

	chainID, err := s.getChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	s.nonceMu.Lock()
	defer s.nonceMu.Unlock()

	nonce, err := s.backend.NonceAt(ctx, s.keyPair.Address())
	if err != nil {
		return common.Hash{}, &RPCError{Op: "get nonce", Err: err}
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, &RPCError{Op: "get gas price", Err: err}
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      s.gasLimit,
		To:       &s.contract,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signedTx, err := s.keyPair.SignTx(tx, ethtypes.LatestSignerForChainID(chainID))
	if err != nil {
		return common.Hash{}, err
	}

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			// The node answered and refused; identical inputs will be
			// refused again.
			return common.Hash{}, &SubmissionRejected{Reason: rpcErr.Error(), Err: err}
		}
		return common.Hash{}, &RPCError{Op: "send transaction", Err: err}
	}

	txHash := signedTx.Hash()
	log.Info().
		Str("tx_hash", txHash.Hex()).
		Str("from", s.keyPair.Address().Hex()).
		Str("contract", s.contract.Hex()).
		Uint64("nonce", nonce).
		Str("server_id", r.ServerID).
		Msg("Report transaction broadcast")

	return txHash, nil
}

// getChainID fetches the chain id once and caches it; the service is
// bound to a single chain for its lifetime.
func (s *submitter) getChainID(ctx context.Context) (*big.Int, error) {
	s.chainIDMu.Lock()
	defer s.chainIDMu.Unlock()

	if s.chainID != nil {
		return s.chainID, nil
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, &RPCError{Op: "get chain id", Err: err}
	}
	s.chainID = chainID
	return chainID, nil
}

// BuildCallData assembles selector ++ ABI(serverId, userCode, timestamp,
// sensors, location, signature).
func BuildCallData(r *report.Report, signature report.Signature) ([]byte, error) {
	args, err := callArguments.Pack(r.ServerID, r.UserCode, r.Timestamp, r.Sensors, r.Location, []byte(signature))
	if err != nil {
		return nil, errors.Wrap(err, "failed to ABI-encode call arguments")
	}

	data := make([]byte, 0, len(methodID)+len(args))
	data = append(data, methodID...)
	data = append(data, args...)
	return data, nil
}
