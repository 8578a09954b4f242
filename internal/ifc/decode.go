package ifc

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// codePages maps the \P?\ directive to ISO 8859 parts
var codePages = map[byte]*charmap.Charmap{
	'A': charmap.ISO8859_1,
	'B': charmap.ISO8859_2,
	'C': charmap.ISO8859_3,
	'D': charmap.ISO8859_4,
	'E': charmap.ISO8859_5,
	'F': charmap.ISO8859_6,
	'G': charmap.ISO8859_7,
	'H': charmap.ISO8859_8,
	'I': charmap.ISO8859_9,
}

// DecodeString resolves the control directives of an exchange file
// string: \\, \S\, \P?\, \X\hh, \X2\...\X0\ and \X4\...\X0\.
func DecodeString(raw string) (string, error) {
	if !strings.Contains(raw, `\`) {
		return raw, nil
	}

	page := charmap.ISO8859_1
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		rest := raw[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			sb.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\S\`) && len(rest) >= 4:
			s, err := decodeBytes(page, []byte{rest[3] | 0x80})
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += 4
		case strings.HasPrefix(rest, `\P`) && len(rest) >= 4 && rest[3] == '\\':
			cm, ok := codePages[rest[2]]
			if !ok {
				return "", fmt.Errorf("unknown code page %q", rest[2])
			}
			page = cm
			i += 4
		case strings.HasPrefix(rest, `\X2\`):
			end := strings.Index(rest, `\X0\`)
			if end < 0 {
				return "", fmt.Errorf("unterminated \\X2\\ directive")
			}
			s, err := decodeHex(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), rest[4:end], 4)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += end + 4
		case strings.HasPrefix(rest, `\X4\`):
			end := strings.Index(rest, `\X0\`)
			if end < 0 {
				return "", fmt.Errorf("unterminated \\X4\\ directive")
			}
			s, err := decodeHex(utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), rest[4:end], 8)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += end + 4
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			b, err := hex.DecodeString(rest[3:5])
			if err != nil {
				return "", fmt.Errorf("invalid \\X\\ directive: %w", err)
			}
			s, err := decodeBytes(charmap.ISO8859_1, b)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += 5
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), nil
}

func decodeBytes(cm *charmap.Charmap, b []byte) (string, error) {
	out, err := cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeHex(enc encoding.Encoding, h string, width int) (string, error) {
	if len(h)%width != 0 {
		return "", fmt.Errorf("hex sequence %q is not a multiple of %d digits", h, width)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
