package felt

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

const hexLength = 2 * fp.Bytes

var ErrInvalidFelt = errors.New("invalid felt")

// Prime is the field modulus, 2^251 + 17*2^192 + 1.
var Prime = fp.Modulus()

// Felt is a field element in the hex form used on the wire.
type Felt string

func FromElement(e *fp.Element) Felt {
	return Felt("0x" + e.Text(16))
}

// FromBig formats v as is, without reducing it into the field.
func FromBig(v *big.Int) Felt {
	return Felt("0x" + v.Text(16))
}

func FromUint64(v uint64) Felt {
	return FromElement(new(fp.Element).SetUint64(v))
}

// FormatAddress left-pads the hex digits of s with zeros up to 64 and prefixes it with 0x.
// Letter case is kept as is.
func FormatAddress(s string) string {
	s = strings.TrimPrefix(s, "0x")
	if len(s) < hexLength {
		s = strings.Repeat("0", hexLength-len(s)) + s
	}
	return "0x" + s
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Element parses a hex felt with an optional single 0x prefix. Leading zeros are allowed,
// values outside of the field are rejected.
func (f Felt) Element() (*fp.Element, error) {
	s := string(f)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidFelt)
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return nil, fmt.Errorf("%w: %q is not a hex number", ErrInvalidFelt, string(f))
		}
	}
	s = strings.TrimLeft(s, "0")
	if len(s) > hexLength {
		return nil, fmt.Errorf("%w: %q is out of field range", ErrInvalidFelt, string(f))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFelt, err)
	}
	buf := make([]byte, fp.Bytes)
	copy(buf[fp.Bytes-len(b):], b)

	e := new(fp.Element)
	if err = e.SetBytesCanonical(buf); err != nil {
		return nil, fmt.Errorf("%w: %q is out of field range", ErrInvalidFelt, string(f))
	}
	return e, nil
}

func (f Felt) Big() (*big.Int, error) {
	e, err := f.Element()
	if err != nil {
		return nil, err
	}
	return e.BigInt(new(big.Int)), nil
}

func (f Felt) Validate() error {
	_, err := f.Element()
	return err
}

// Hex returns the canonical form without leading zeros, as accepted by the rpc endpoint.
func (f Felt) Hex() (string, error) {
	e, err := f.Element()
	if err != nil {
		return "", err
	}
	return FromElement(e).String(), nil
}

// FixedHex returns the lower-case 64 digit form.
func (f Felt) FixedHex() (string, error) {
	e, err := f.Element()
	if err != nil {
		return "", err
	}
	b := e.Bytes()
	return "0x" + hex.EncodeToString(b[:]), nil
}

func (f Felt) Uint8() (uint8, bool) {
	v, ok := f.Uint64()
	if !ok || v > math.MaxUint8 {
		return 0, false
	}
	return uint8(v), true
}

func (f Felt) Uint64() (uint64, bool) {
	e, err := f.Element()
	if err != nil || !e.IsUint64() {
		return 0, false
	}
	return e.Uint64(), true
}

// ShortString decodes a felt holding ascii bytes, like chain ids.
func (f Felt) ShortString() (string, error) {
	e, err := f.Element()
	if err != nil {
		return "", err
	}
	b := e.Bytes()
	return string(bytes.TrimLeft(b[:], "\x00")), nil
}

func (f Felt) String() string {
	return string(f)
}
