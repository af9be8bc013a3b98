package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stellar/go/strkey"
)

var wasmHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// IsContractAddress reports whether s is a contract strkey (C...) with a valid checksum.
func IsContractAddress(s string) bool {
	_, err := strkey.Decode(strkey.VersionByteContract, s)
	return err == nil
}

// IsAccountAddress reports whether s is an account strkey (G...) with a valid checksum.
func IsAccountAddress(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// IsWasmHash reports whether s is a lower-case hex SHA-256 digest.
func IsWasmHash(s string) bool {
	return wasmHashPattern.MatchString(s)
}

// ScValKind is the contract type of an argument value
type ScValKind string

const (
	KindAddress ScValKind = "address"
	KindBool    ScValKind = "bool"
	KindU32     ScValKind = "u32"
	KindI32     ScValKind = "i32"
	KindU64     ScValKind = "u64"
	KindI64     ScValKind = "i64"
	KindU128    ScValKind = "u128"
	KindI128    ScValKind = "i128"
	KindString  ScValKind = "string"
	KindSymbol  ScValKind = "symbol"
	KindBytes   ScValKind = "bytes"
	KindVec     ScValKind = "vec"
)

// ScVal is a typed contract argument. Scalars keep their textual form in Value;
// vectors hold their elements in Items.
type ScVal struct {
	Kind  ScValKind
	Value string
	Items []ScVal
}

func Address(addr string) ScVal   { return ScVal{Kind: KindAddress, Value: addr} }
func U32(v uint32) ScVal          { return ScVal{Kind: KindU32, Value: strconv.FormatUint(uint64(v), 10)} }
func I128(v string) ScVal         { return ScVal{Kind: KindI128, Value: v} }
func String(v string) ScVal       { return ScVal{Kind: KindString, Value: v} }
func Symbol(v string) ScVal       { return ScVal{Kind: KindSymbol, Value: v} }
func Bool(v bool) ScVal           { return ScVal{Kind: KindBool, Value: strconv.FormatBool(v)} }
func Vec(items ...ScVal) ScVal    { return ScVal{Kind: KindVec, Items: append([]ScVal{}, items...)} }
func Bytes(hexValue string) ScVal { return ScVal{Kind: KindBytes, Value: strings.ToLower(hexValue)} }

// Validate checks that the textual value parses for its kind.
func (v ScVal) Validate() error {
	switch v.Kind {
	case KindAddress:
		if !IsContractAddress(v.Value) && !IsAccountAddress(v.Value) {
			return fmt.Errorf("invalid address '%s'", v.Value)
		}
	case KindBool:
		if _, err := strconv.ParseBool(v.Value); err != nil {
			return fmt.Errorf("invalid bool '%s'", v.Value)
		}
	case KindU32:
		if _, err := strconv.ParseUint(v.Value, 10, 32); err != nil {
			return fmt.Errorf("invalid u32 '%s'", v.Value)
		}
	case KindI32:
		if _, err := strconv.ParseInt(v.Value, 10, 32); err != nil {
			return fmt.Errorf("invalid i32 '%s'", v.Value)
		}
	case KindU64:
		if _, err := strconv.ParseUint(v.Value, 10, 64); err != nil {
			return fmt.Errorf("invalid u64 '%s'", v.Value)
		}
	case KindI64:
		if _, err := strconv.ParseInt(v.Value, 10, 64); err != nil {
			return fmt.Errorf("invalid i64 '%s'", v.Value)
		}
	case KindU128, KindI128:
		if !isInteger(v.Value, v.Kind == KindI128) {
			return fmt.Errorf("invalid %s '%s'", v.Kind, v.Value)
		}
	case KindBytes:
		if len(v.Value)%2 != 0 || strings.Trim(v.Value, "0123456789abcdef") != "" {
			return fmt.Errorf("invalid bytes '%s'", v.Value)
		}
	case KindString, KindSymbol:
	case KindVec:
		for i, item := range v.Items {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("vec[%d]: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unsupported value kind '%s'", v.Kind)
	}
	return nil
}

func isInteger(s string, signed bool) bool {
	if signed {
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

// MarshalJSON renders the value the way the stellar CLI parses typed arguments:
// 32/64-bit integers and bools as JSON literals, 128-bit integers, addresses,
// strings, symbols and bytes as JSON strings, vectors as arrays.
func (v ScVal) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindU32, KindI32, KindU64, KindI64, KindBool:
		return []byte(v.Value), nil
	case KindVec:
		items := v.Items
		if items == nil {
			items = []ScVal{}
		}
		return json.Marshal(items)
	default:
		return json.Marshal(v.Value)
	}
}

// CLIValue is the string passed after a --name flag on a contract invocation.
func (v ScVal) CLIValue() (string, error) {
	switch v.Kind {
	case KindAddress, KindString, KindSymbol, KindBytes, KindU32, KindI32, KindU64, KindI64, KindU128, KindI128, KindBool:
		return v.Value, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func (v ScVal) String() string {
	if v.Kind == KindVec {
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%s:%s", v.Kind, v.Value)
}

// Arg is a named contract function or constructor argument
type Arg struct {
	Name  string
	Value ScVal
}
