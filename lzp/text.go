package lzp

import "fmt"

// Text decodes s and appends a human-readable rendering to dst: literal
// bytes are copied verbatim and every match is replaced with <Length>.
// Failed predictions (matches of length 0) are not shown.
func Text(dst []byte, s Streams) ([]byte, error) {
	type span struct{ pos, length int }
	var spans []span

	var d Decoder
	out, err := d.decode(nil, s, func(pos, n int) {
		if n > 0 {
			spans = append(spans, span{pos, n})
		}
	})
	if err != nil {
		return dst, err
	}

	pos := 0
	for _, m := range spans {
		dst = append(dst, out[pos:m.pos]...)
		dst = fmt.Appendf(dst, "<%d>", m.length)
		pos = m.pos + m.length
	}
	if pos < len(out) {
		dst = append(dst, out[pos:]...)
	}
	return dst, nil
}
