// Package humanfmt implements the human-readable surface (§6.2): a
// TOML/JSON round trip for the wire schema types, fixed-length byte
// fields as unpadded Base64-URL, opcode operand blobs as lowercase
// hex.
package humanfmt

import (
	"encoding/base64"
	"encoding/hex"
)

// EncodeBytes renders a fixed-length field (bucket ids, PSK ids/salts,
// key material) as unpadded Base64-URL, the §6.2 default.
func EncodeBytes(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

// DecodeBytes is EncodeBytes's inverse.
func DecodeBytes(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

// EncodeHex renders an opcode operand blob as lowercase hex (§6.2:
// "opcode operand blobs as lowercase hex").
func EncodeHex(b []byte) string { return hex.EncodeToString(b) }

// DecodeHex is EncodeHex's inverse.
func DecodeHex(s string) ([]byte, error) { return hex.DecodeString(s) }
