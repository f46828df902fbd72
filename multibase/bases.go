package multibase

import (
	"encoding/base32"
	"encoding/base64"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-base36"

	"xdao.co/ipld/iplderr"
)

const (
	alpha16      = "0123456789abcdef"
	alpha16Upper = "0123456789ABCDEF"
	alpha32      = "abcdefghijklmnopqrstuvwxyz234567"
	alpha32Upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	alpha32Hex   = "0123456789abcdefghijklmnopqrstuv"
	alpha32HexUp = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
)

func init() {
	register(Identity, "identity",
		func(data []byte) string { return string(data) },
		func(s string) ([]byte, error) { return []byte(s), nil })

	register(Base2, "base2", bitEncoder("01", 1), bitDecoder("01", 1))
	register(Base8, "base8", bitEncoder("01234567", 3), bitDecoder("01234567", 3))

	register(Base16, "base16", hexEncoder(alpha16), hexDecoder(alpha16))
	register(Base16Upper, "base16upper", hexEncoder(alpha16Upper), hexDecoder(alpha16Upper))

	b32 := base32.NewEncoding(alpha32)
	b32up := base32.NewEncoding(alpha32Upper)
	b32hex := base32.NewEncoding(alpha32Hex)
	b32hexUp := base32.NewEncoding(alpha32HexUp)
	b32raw := b32.WithPadding(base32.NoPadding)
	b32upRaw := b32up.WithPadding(base32.NoPadding)
	b32hexRaw := b32hex.WithPadding(base32.NoPadding)
	b32hexUpRaw := b32hexUp.WithPadding(base32.NoPadding)
	register(Base32, "base32", stdEncoder32(b32raw), stdDecoder32(b32raw, false))
	register(Base32Upper, "base32upper", stdEncoder32(b32upRaw), stdDecoder32(b32upRaw, false))
	register(Base32Pad, "base32pad", stdEncoder32(b32), stdDecoder32(b32, true))
	register(Base32PadUpper, "base32padupper", stdEncoder32(b32up), stdDecoder32(b32up, true))
	register(Base32Hex, "base32hex", stdEncoder32(b32hexRaw), stdDecoder32(b32hexRaw, false))
	register(Base32HexUpper, "base32hexupper", stdEncoder32(b32hexUpRaw), stdDecoder32(b32hexUpRaw, false))
	register(Base32HexPad, "base32hexpad", stdEncoder32(b32hex), stdDecoder32(b32hex, true))
	register(Base32HexPadUpper, "base32hexpadupper", stdEncoder32(b32hexUp), stdDecoder32(b32hexUp, true))

	register(Base36, "base36", base36.EncodeToStringLc, decode36)
	register(Base36Upper, "base36upper", base36.EncodeToStringUc, decode36)

	register(Base58BTC, "base58btc",
		base58.Encode,
		func(s string) ([]byte, error) {
			b, err := base58.Decode(s)
			if err != nil {
				return nil, iplderr.Wrap(iplderr.KindInvalidCharacter, "invalid base58btc string", err)
			}
			return b, nil
		})
	register(Base58Flickr, "base58flickr",
		func(data []byte) string { return base58.FastBase58EncodingAlphabet(data, base58.FlickrAlphabet) },
		func(s string) ([]byte, error) {
			b, err := base58.FastBase58DecodingAlphabet(s, base58.FlickrAlphabet)
			if err != nil {
				return nil, iplderr.Wrap(iplderr.KindInvalidCharacter, "invalid base58flickr string", err)
			}
			return b, nil
		})

	register(Base64, "base64", stdEncoder64(base64.RawStdEncoding), stdDecoder64(base64.RawStdEncoding.Strict(), false))
	register(Base64Pad, "base64pad", stdEncoder64(base64.StdEncoding), stdDecoder64(base64.StdEncoding.Strict(), true))
	register(Base64URL, "base64url", stdEncoder64(base64.RawURLEncoding), stdDecoder64(base64.RawURLEncoding.Strict(), false))
	register(Base64URLPad, "base64urlpad", stdEncoder64(base64.URLEncoding), stdDecoder64(base64.URLEncoding.Strict(), true))
}

func decode36(s string) ([]byte, error) {
	b, err := base36.DecodeString(s)
	if err != nil {
		return nil, iplderr.Wrap(iplderr.KindInvalidCharacter, "invalid base36 string", err)
	}
	return b, nil
}

// bitEncoder encodes the input bit stream MSB-first, k bits per character,
// left-aligned with zero bits padding the final character.
func bitEncoder(alpha string, k uint) func([]byte) string {
	return func(data []byte) string {
		var sb strings.Builder
		sb.Grow((len(data)*8 + int(k) - 1) / int(k))
		var acc uint32
		var n uint
		for _, b := range data {
			acc = acc<<8 | uint32(b)
			n += 8
			for n >= k {
				sb.WriteByte(alpha[acc>>(n-k)&(1<<k-1)])
				n -= k
			}
		}
		if n > 0 {
			sb.WriteByte(alpha[acc<<(k-n)&(1<<k-1)])
		}
		return sb.String()
	}
}

func bitDecoder(alpha string, k uint) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		out := make([]byte, 0, len(s)*int(k)/8)
		var acc uint32
		var n uint
		for i := 0; i < len(s); i++ {
			v := strings.IndexByte(alpha, s[i])
			if v < 0 {
				return nil, iplderr.Atf(iplderr.KindInvalidCharacter, i+1, "character %q outside base alphabet", s[i])
			}
			acc = acc<<k | uint32(v)
			n += k
			if n >= 8 {
				out = append(out, byte(acc>>(n-8)))
				n -= 8
			}
		}
		// The leftover must be a partial character's worth of zero bits.
		if n >= k {
			return nil, iplderr.New(iplderr.KindInvalidCharacter, "invalid length for bit-aligned base")
		}
		if acc&(1<<n-1) != 0 {
			return nil, iplderr.New(iplderr.KindInvalidPadding, "non-zero padding bits")
		}
		return out, nil
	}
}

func hexEncoder(alpha string) func([]byte) string {
	return func(data []byte) string {
		out := make([]byte, len(data)*2)
		for i, b := range data {
			out[i*2] = alpha[b>>4]
			out[i*2+1] = alpha[b&0x0f]
		}
		return string(out)
	}
}

func hexDecoder(alpha string) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		if len(s)%2 != 0 {
			return nil, iplderr.New(iplderr.KindInvalidCharacter, "odd-length base16 string")
		}
		out := make([]byte, len(s)/2)
		for i := 0; i < len(s); i++ {
			v := strings.IndexByte(alpha, s[i])
			if v < 0 {
				return nil, iplderr.Atf(iplderr.KindInvalidCharacter, i+1, "character %q outside base alphabet", s[i])
			}
			if i%2 == 0 {
				out[i/2] = byte(v) << 4
			} else {
				out[i/2] |= byte(v)
			}
		}
		return out, nil
	}
}

func stdEncoder32(enc *base32.Encoding) func([]byte) string {
	return enc.EncodeToString
}

func stdDecoder32(enc *base32.Encoding, padded bool) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		if err := checkPadShape(s, padded, 8, "base32"); err != nil {
			return nil, err
		}
		b, err := enc.DecodeString(s)
		if err != nil {
			return nil, mapCorrupt(s, err, "base32")
		}
		return b, nil
	}
}

func stdEncoder64(enc *base64.Encoding) func([]byte) string {
	return enc.EncodeToString
}

func stdDecoder64(enc *base64.Encoding, padded bool) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		if err := checkPadShape(s, padded, 4, "base64"); err != nil {
			return nil, err
		}
		b, err := enc.DecodeString(s)
		if err != nil {
			return nil, mapCorrupt(s, err, "base64")
		}
		return b, nil
	}
}

// checkPadShape enforces the base's padding policy before transcoding:
// padded bases come in whole blocks, unpadded bases never contain '='.
func checkPadShape(s string, padded bool, block int, base string) error {
	if padded {
		if len(s)%block != 0 {
			return iplderr.Newf(iplderr.KindInvalidPadding, "%s input length is not a whole padded block", base)
		}
		return nil
	}
	if strings.ContainsRune(s, '=') {
		return iplderr.Newf(iplderr.KindInvalidPadding, "padding forbidden in unpadded %s", base)
	}
	return nil
}

// mapCorrupt classifies a stdlib decode failure: a fault on the '=' pad
// character is a padding error, anything else is an alphabet violation.
func mapCorrupt(s string, err error, base string) error {
	off := -1
	switch e := err.(type) {
	case base32.CorruptInputError:
		off = int(e)
	case base64.CorruptInputError:
		off = int(e)
	}
	if off >= 0 && off < len(s) && s[off] == '=' {
		return iplderr.Wrap(iplderr.KindInvalidPadding, "malformed "+base+" padding", err)
	}
	return iplderr.Wrap(iplderr.KindInvalidCharacter, "invalid "+base+" string", err)
}
