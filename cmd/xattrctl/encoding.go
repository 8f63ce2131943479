package main

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/restic/xattrctl/internal/errors"
)

// Value encodings understood by get and set. Encoded values use the prefixes
// of getfattr/setfattr: "0x" for hex, "0s" for base64, double quotes for text.
const (
	encodingAuto   = "auto"
	encodingText   = "text"
	encodingHex    = "hex"
	encodingBase64 = "base64"
	encodingRaw    = "raw"
)

func checkEncoding(enc string) error {
	switch enc {
	case encodingAuto, encodingText, encodingHex, encodingBase64, encodingRaw:
		return nil
	}
	return errors.Fatalf("invalid encoding %q, must be one of auto, text, hex, base64, raw", enc)
}

func isPrintable(value []byte) bool {
	if !utf8.Valid(value) {
		return false
	}
	for _, r := range string(value) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// encodeValue formats value for output. The raw encoding is not handled here.
func encodeValue(value []byte, enc string) string {
	if enc == encodingAuto {
		enc = encodingBase64
		if isPrintable(value) {
			enc = encodingText
		}
	}

	switch enc {
	case encodingHex:
		return "0x" + hex.EncodeToString(value)
	case encodingBase64:
		return "0s" + base64.StdEncoding.EncodeToString(value)
	default:
		return strconv.Quote(string(value))
	}
}

// decodeValue parses a value given on the command line: "0x" and "0s"
// prefixes select hex and base64, a double-quoted string is unquoted, and
// anything else is used as is.
func decodeValue(s string) ([]byte, error) {
	switch {
	case len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X"):
		value, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, errors.Fatalf("invalid hex value %q: %v", s, err)
		}
		return value, nil
	case len(s) >= 2 && (s[:2] == "0s" || s[:2] == "0S"):
		value, err := base64.StdEncoding.DecodeString(s[2:])
		if err != nil {
			return nil, errors.Fatalf("invalid base64 value %q: %v", s, err)
		}
		return value, nil
	case len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`):
		value, err := strconv.Unquote(s)
		if err != nil {
			return nil, errors.Fatalf("invalid quoted value %s: %v", s, err)
		}
		return []byte(value), nil
	}
	return []byte(s), nil
}
