package attrs

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// File names are arbitrary bytes, JSON strings are UTF-8.
// Bytes that are not part of a valid UTF-8 sequence are stored as lone low surrogates
// U+DC80..U+DCFF, the same way Python's json module writes names decoded with surrogateescape.
// encoding/json cannot represent those code points, so in memory a NUL byte followed by two hex
// digits stands in for them. NUL never occurs in a path.

const keyEscape = '\x00'

func encodeKey(path string) string {
	if utf8.ValidString(path) {
		return path
	}
	b := strings.Builder{}
	for i := 0; i < len(path); {
		r, size := utf8.DecodeRuneInString(path[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(keyEscape)
			b.WriteString(hex.EncodeToString([]byte{path[i]}))
		} else {
			b.WriteString(path[i : i+size])
		}
		i += size
	}
	return b.String()
}

func decodeKey(key string) string {
	if strings.IndexByte(key, keyEscape) < 0 {
		return key
	}
	b := strings.Builder{}
	for i := 0; i < len(key); i++ {
		if key[i] == keyEscape && i+2 < len(key) {
			if raw, err := hex.DecodeString(key[i+1 : i+3]); err == nil {
				b.Write(raw)
				i += 2
				continue
			}
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

// nulToSurrogateEscapes rewrites the JSON escapes `\u0000XX` produced for encoded keys into `\udcXX`.
func nulToSurrogateEscapes(data []byte) []byte {
	return rewriteEscapes(data, func(esc []byte, rest []byte) (string, int, bool) {
		if string(esc) != "0000" {
			return "", 0, false
		}
		b, ok := escapedByte(rest)
		if !ok {
			return "", 0, false
		}
		return `\udc` + hex.EncodeToString([]byte{b}), 2, true
	})
}

// surrogateToNulEscapes rewrites the JSON escapes `\udcXX` into `\u0000XX`, the inverse of nulToSurrogateEscapes.
func surrogateToNulEscapes(data []byte) []byte {
	return rewriteEscapes(data, func(esc []byte, rest []byte) (string, int, bool) {
		if isHighSurrogate(esc) && len(rest) >= 6 && rest[0] == '\\' && rest[1] == 'u' {
			// Keep the low half of a surrogate pair.
			return `\u` + string(esc) + string(rest[:6]), 6, true
		}
		if !strings.EqualFold(string(esc[:2]), "dc") {
			return "", 0, false
		}
		b, ok := escapedByte(esc[2:])
		if !ok {
			return "", 0, false
		}
		return `\u0000` + hex.EncodeToString([]byte{b}), 0, true
	})
}

func isHighSurrogate(esc []byte) bool {
	raw, err := hex.DecodeString(string(esc))
	return err == nil && raw[0] >= 0xd8 && raw[0] <= 0xdb
}

// escapedByte parses two leading hex digits as a byte outside the ASCII range.
func escapedByte(digits []byte) (byte, bool) {
	if len(digits) < 2 {
		return 0, false
	}
	raw, err := hex.DecodeString(string(digits[:2]))
	if err != nil || raw[0] < 0x80 {
		return 0, false
	}
	return raw[0], true
}

// rewriteEscapes copies data, handing every `\uXXXX` escape to replace.
// replace receives the four hex digits and the bytes following them and returns the substitute,
// how many of the following bytes it consumed and whether to substitute at all.
// Other escapes are copied as pairs so that an escaped backslash is never mistaken for the start of one.
func rewriteEscapes(data []byte, replace func(esc []byte, rest []byte) (string, int, bool)) []byte {
	out := bytes.Buffer{}
	out.Grow(len(data))
	for i := 0; i < len(data); {
		if data[i] != '\\' || i+1 >= len(data) {
			out.WriteByte(data[i])
			i++
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			if sub, consumed, ok := replace(data[i+2:i+6], data[i+6:]); ok {
				out.WriteString(sub)
				i += 6 + consumed
				continue
			}
		}
		out.Write(data[i : i+2])
		i += 2
	}
	return out.Bytes()
}
