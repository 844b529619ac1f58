// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte view containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Surrogate
// pairs written as consecutive \u escapes are combined. Invalid escapes are
// replaced by the Unicode replacement rune. Unquote reports an error for an
// incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(nil, src), nil
	}

	dec := make([]byte, 0, src.Len())
	putRune := func(r rune) {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}
		src = src.SliceFrom(n)

		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			v, err := parseHex(src.SliceTo(4))
			src = src.SliceFrom(4)
			if err != nil {
				putRune(utf8.RuneError)
				break
			}
			r := rune(v)
			if utf16.IsSurrogate(r) && src.Len() >= 6 &&
				src.At(0) == '\\' && src.At(1) == 'u' {
				// A high surrogate followed by another \u escape: try to
				// combine the pair into a single rune.
				if w, err := parseHex(src.SliceFrom(2).SliceTo(4)); err == nil {
					if c := utf16.DecodeRune(r, rune(w)); c != utf8.RuneError {
						putRune(c)
						src = src.SliceFrom(6)
						break
					}
				}
			}
			if utf16.IsSurrogate(r) {
				putRune(utf8.RuneError)
			} else {
				putRune(r)
			}
		default:
			putRune(utf8.RuneError)
		}

		// Blit up to the next escape sequence, or to the end of the input.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// Quote encodes src as the contents of a JSON string, without the enclosing
// double quotation marks.
func Quote(src mem.RO) []byte {
	enc := make([]byte, 0, src.Len())
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		switch b {
		case '"':
			enc = append(enc, '\\', '"')
		case '\\':
			enc = append(enc, '\\', '\\')
		case '\b':
			enc = append(enc, '\\', 'b')
		case '\f':
			enc = append(enc, '\\', 'f')
		case '\n':
			enc = append(enc, '\\', 'n')
		case '\r':
			enc = append(enc, '\\', 'r')
		case '\t':
			enc = append(enc, '\\', 't')
		default:
			if b < ' ' {
				enc = append(enc, fmt.Sprintf(`\u%04x`, b)...)
			} else {
				enc = append(enc, b)
			}
		}
	}
	return enc
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += int64(b - '0')
		case 'a' <= b && b <= 'f':
			v += int64(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += int64(b - 'A' + 10)
		default:
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
