package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

// Artifact is a compiled contract: ABI, creation bytecode and the compiler
// metadata needed to verify it
type Artifact struct {
	ContractName      string
	SourceName        string
	ABI               abi.ABI
	Bytecode          []byte
	CompilerVersion   string          // long form, e.g. 0.8.19+commit.7dd6d404
	StandardJSONInput json.RawMessage // solc standard-json input, nil when no build info is available
	OptimizerEnabled  bool
	OptimizerRuns     int
}

// FullyQualifiedName returns source:contract as explorers expect it
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}

// ConstructorValues converts the ordered argument list into ABI-typed values
// for the constructor. Count or type mismatches yield ErrArgumentMismatch.
func (a *Artifact) ConstructorValues(args []ConstructorArg) ([]any, error) {
	inputs := a.ABI.Constructor.Inputs
	if len(inputs) != len(args) {
		return nil, domain.NewError(domain.ErrArgumentMismatch,
			fmt.Sprintf("%s constructor takes %d argument(s), got %d", a.ContractName, len(inputs), len(args)), nil)
	}

	values := make([]any, len(args))
	for i, input := range inputs {
		v, err := convertArg(input.Type, args[i].Value)
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, domain.NewError(domain.ErrArgumentMismatch,
				fmt.Sprintf("argument %s (%s) for constructor input %s %s", args[i].Name, args[i].Value, input.Type.String(), name), err)
		}
		values[i] = v
	}
	return values, nil
}

// PackConstructor ABI-encodes the constructor arguments
func (a *Artifact) PackConstructor(args []ConstructorArg) ([]any, []byte, error) {
	values, err := a.ConstructorValues(args)
	if err != nil {
		return nil, nil, err
	}
	packed, err := a.ABI.Constructor.Inputs.Pack(values...)
	if err != nil {
		return nil, nil, domain.NewError(domain.ErrArgumentMismatch, "encode constructor arguments", err)
	}
	return values, packed, nil
}

// EncodedConstructorArgs returns the constructor arguments as hex without 0x
func (a *Artifact) EncodedConstructorArgs(args []ConstructorArg) (string, error) {
	_, packed, err := a.PackConstructor(args)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(packed), nil
}

// convertArg parses a string into the Go type go-ethereum packs for t
func convertArg(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("not a hex address")
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("not a bool")
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("not 0x-prefixed hex: %w", err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("not 0x-prefixed hex: %w", err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil

	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("not an integer")
		}
		if t.T == abi.UintTy && (n.Sign() < 0 || n.BitLen() > t.Size) {
			return nil, fmt.Errorf("out of range for uint%d", t.Size)
		}
		if t.T == abi.IntTy && n.BitLen() >= t.Size {
			return nil, fmt.Errorf("out of range for int%d", t.Size)
		}
		if t.Size > 64 {
			return n, nil
		}
		v := reflect.New(t.GetType()).Elem()
		if t.T == abi.UintTy {
			v.SetUint(n.Uint64())
		} else {
			v.SetInt(n.Int64())
		}
		return v.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported constructor input type %s", t.String())
	}
}
