// Package color maps strings to stable hex colors.
//
// [ToHex] is used to color AST nodes by type in every projection, so equal
// types always share a color across the graph, the tree-map, and the DOT
// output. The mapping is deterministic and must stay bit-for-bit stable:
// front-ends that color nodes on their own side compute the same values.
package color

import (
	"math"
	"unicode/utf16"
)

// ToHex returns a deterministic color string of the form "#dddddd" for s.
// Every digit is a decimal digit.
func ToHex(s string) string {
	rand := newSFC32(hash(s))
	out := make([]byte, 7)
	out[0] = '#'
	for i := 1; i < len(out); i++ {
		d := math.Floor(math.Mod(rand.next()*100000, 10))
		out[i] = '0' + byte(d)
	}
	return string(out)
}

// hash is a rolling hash over the UTF-16 form of s. At a surrogate pair the
// high unit contributes the full code point and the low unit contributes
// itself. The shift wraps to 32 bits; the subtraction and addition do not.
func hash(s string) int64 {
	units := utf16.Encode([]rune(s))
	var h int64
	for i, u := range units {
		cp := rune(u)
		if utf16.IsSurrogate(cp) && i+1 < len(units) {
			if r := utf16.DecodeRune(cp, rune(units[i+1])); r != 0xFFFD {
				cp = r
			}
		}
		h = int64(int32(h)<<2) - h + int64(cp)
	}
	return h
}

// sfc32 is the Simple Fast Counter generator with 32-bit state.
type sfc32 struct {
	a, b, c, d uint32
}

func newSFC32(h int64) *sfc32 {
	h32 := int32(h)
	return &sfc32{
		a: uint32(h),
		b: uint32(h32 >> 2),
		c: uint32(h32 << 2),
		d: uint32(h32),
	}
}

// next returns a value in [0, 1).
func (r *sfc32) next() float64 {
	t := r.a + r.b
	r.a = r.b ^ (r.b >> 9)
	r.b = r.c + (r.c << 3)
	r.c = r.c<<21 | r.c>>11
	r.d++
	t += r.d
	r.c += t
	return float64(t) / 4294967296
}
