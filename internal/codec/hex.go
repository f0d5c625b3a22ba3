package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrOddHexLength is returned when the hex text has an odd number of digits.
var ErrOddHexLength = errors.New("hex text has an odd number of digits")

// HexDecode converts literal hex text into bytes.
// Whitespace, colons and an optional "0x" prefix are ignored so that
// captures copied from packet dumps ("10 0d 00 04 ...") decode as-is.
func HexDecode(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, text)

	if len(cleaned)%2 != 0 {
		return nil, ErrOddHexLength
	}

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex text: %w", err)
	}
	return data, nil
}

// MustHexDecode is like HexDecode but panics on malformed input.
// It is meant for package-level fixtures built from constants.
func MustHexDecode(text string) []byte {
	data, err := HexDecode(text)
	if err != nil {
		panic(err)
	}
	return data
}
