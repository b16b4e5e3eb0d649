package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

// registryABI covers the subset of the auth contract the client reads.
const registryABI = `[
  {
    "inputs": [{"internalType": "address", "name": "_userAddress", "type": "address"}],
    "name": "getUserProfile",
    "outputs": [
      {
        "components": [
          {"internalType": "address", "name": "walletAddress", "type": "address"},
          {"internalType": "string", "name": "username", "type": "string"},
          {"internalType": "string", "name": "email", "type": "string"},
          {"internalType": "uint256", "name": "registrationTime", "type": "uint256"},
          {"internalType": "bool", "name": "isActive", "type": "bool"},
          {"internalType": "uint256", "name": "reputationScore", "type": "uint256"},
          {"internalType": "string[]", "name": "accessRoles", "type": "string[]"}
        ],
        "internalType": "struct UserProfile",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "username", "type": "string"},
      {"indexed": false, "internalType": "string", "name": "email", "type": "string"}
    ],
    "name": "UserRegistered",
    "type": "event"
  }
]`

// Backend is the part of an RPC client the registry needs. *ethclient.Client
// satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// EthRegistry reads the auth contract over JSON-RPC.
type EthRegistry struct {
	backend  Backend
	contract ethcommon.Address
	abi      abi.ABI
}

var _ Registry = (*EthRegistry)(nil)

// rawProfile mirrors the solidity UserProfile tuple layout.
type rawProfile struct {
	WalletAddress    ethcommon.Address
	Username         string
	Email            string
	RegistrationTime *big.Int
	IsActive         bool
	ReputationScore  *big.Int
	AccessRoles      []string
}

// NewEthRegistry constructs a registry over an already-connected backend.
func NewEthRegistry(backend Backend, contractAddr string) (*EthRegistry, error) {
	if !wallet.IsValid(wallet.Normalize(contractAddr)) {
		return nil, fmt.Errorf("%w: invalid contract address %q", common.ErrValidation, contractAddr)
	}

	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parsing registry abi: %w", err)
	}

	return &EthRegistry{
		backend:  backend,
		contract: ethcommon.HexToAddress(contractAddr),
		abi:      parsed,
	}, nil
}

// Dial connects to the RPC endpoint and builds a registry over it.
func Dial(ctx context.Context, rpcEndpoint string, contractAddr string) (*EthRegistry, error) {
	client, err := ethclient.DialContext(ctx, rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", common.ErrNetwork, rpcEndpoint, err)
	}
	return NewEthRegistry(client, contractAddr)
}

func (r *EthRegistry) GetUserProfile(ctx context.Context, addr string) (*UserProfile, error) {
	addr = wallet.Normalize(addr)
	if !wallet.IsValid(addr) {
		return nil, fmt.Errorf("%w: invalid wallet address %q", common.ErrValidation, addr)
	}

	input, err := r.abi.Pack("getUserProfile", ethcommon.HexToAddress(addr))
	if err != nil {
		return nil, fmt.Errorf("packing getUserProfile: %w", err)
	}

	output, err := r.backend.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: calling getUserProfile: %v", common.ErrNetwork, err)
	}

	results, err := r.abi.Unpack("getUserProfile", output)
	if err != nil {
		return nil, fmt.Errorf("unpacking getUserProfile: %w", err)
	}

	raw := *abi.ConvertType(results[0], new(rawProfile)).(*rawProfile)

	// the contract returns a zero-valued tuple for unknown addresses
	if !raw.IsActive && raw.RegistrationTime.Sign() == 0 {
		return nil, fmt.Errorf("%w: no on-chain profile for %s", common.ErrNotFound, addr)
	}

	return &UserProfile{
		WalletAddress:    wallet.Normalize(raw.WalletAddress.Hex()),
		Username:         raw.Username,
		Email:            raw.Email,
		RegistrationTime: raw.RegistrationTime.Int64(),
		IsActive:         raw.IsActive,
		ReputationScore:  raw.ReputationScore.Int64(),
		AccessRoles:      raw.AccessRoles,
	}, nil
}

func (r *EthRegistry) RegistrationEvents(ctx context.Context, fromBlock *big.Int) ([]Registration, error) {
	eventID := r.abi.Events["UserRegistered"].ID

	logs, err := r.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		Addresses: []ethcommon.Address{r.contract},
		Topics:    [][]ethcommon.Hash{{eventID}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: filtering UserRegistered logs: %v", common.ErrNetwork, err)
	}

	events := make([]Registration, 0, len(logs))
	for _, lg := range logs {
		if len(lg.Topics) < 2 {
			continue
		}

		var data struct {
			Username string
			Email    string
		}
		if err := r.abi.UnpackIntoInterface(&data, "UserRegistered", lg.Data); err != nil {
			return nil, fmt.Errorf("unpacking UserRegistered: %w", err)
		}

		events = append(events, Registration{
			WalletAddress: wallet.Normalize(ethcommon.HexToAddress(lg.Topics[1].Hex()).Hex()),
			Username:      data.Username,
			Email:         data.Email,
			BlockNumber:   lg.BlockNumber,
		})
	}

	return events, nil
}
