package input

import "unicode/utf8"

const (
	byteCtrlC  = 0x03
	byteEscape = 0x1b
	byteDelete = 0x7f
)

// Decode converts raw terminal bytes into keys.
//
// Recognized input:
//
//	0x03               Interrupt
//	ESC [ ... A / B    Up / Down (CSI, with or without modifier params)
//	ESC O A / B        Up / Down (SS3, application cursor mode)
//	ESC [ ... <final>  any other CSI sequence, consumed and ignored
//	ESC <other>        Escape, then <other> decoded on its own
//	printable UTF-8    Char
//
// Other control bytes are dropped. When the buffer ends inside an escape
// sequence or a multi-byte rune, the unconsumed tail is returned as rest so the
// caller can try a short follow-up read. With final set there is no follow-up:
// an incomplete escape sequence decodes to a single Escape.
func Decode(buf []byte, final bool) (keys []Key, rest []byte) {
	i := 0
	for i < len(buf) {
		b := buf[i]
		switch {
		case b == byteCtrlC:
			keys = append(keys, Interrupt())
			i++

		case b == byteEscape:
			n, key, ok := decodeEscape(buf[i:])
			if !ok {
				if !final {
					return keys, buf[i:]
				}
				keys = append(keys, Escape())
				return keys, nil
			}
			if key != nil {
				keys = append(keys, *key)
			}
			i += n

		case b < 0x20 || b == byteDelete:
			i++

		default:
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size <= 1 {
				if !utf8.FullRune(buf[i:]) && !final {
					return keys, buf[i:]
				}
				i++
				continue
			}
			keys = append(keys, Char(r))
			i += size
		}
	}
	return keys, nil
}

// decodeEscape decodes a sequence starting at an ESC byte. It returns the
// number of bytes consumed and the resulting key (nil for ignored sequences).
// ok is false when the buffer ends before the sequence is complete.
func decodeEscape(buf []byte) (n int, key *Key, ok bool) {
	if len(buf) < 2 {
		return 0, nil, false
	}

	switch buf[1] {
	case '[', 'O':
		// Parameter and intermediate bytes run until a final byte in 0x40-0x7E.
		for j := 2; j < len(buf); j++ {
			c := buf[j]
			if c < 0x40 || c > 0x7e {
				continue
			}
			switch c {
			case 'A':
				k := Up()
				return j + 1, &k, true
			case 'B':
				k := Down()
				return j + 1, &k, true
			default:
				return j + 1, nil, true
			}
		}
		return 0, nil, false

	default:
		// A lone ESC followed by an unrelated byte: the byte is decoded next.
		k := Escape()
		return 1, &k, true
	}
}
