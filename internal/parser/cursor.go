package parser

import "encoding/binary"

// cursor is a minimal byte-slice reader used by every parse function
// in this package. It never allocates a copy of the
// remaining input; callers get the unread suffix back via rest().
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) rest() []byte {
	return c.data[c.pos:]
}

// readBytes reads n bytes and advances the cursor. field names the
// caller's field for the error message.
func (c *cursor) readBytes(n int, field string) ([]byte, error) {
	if c.remaining() < n {
		return nil, invalidDataf("insufficient bytes reading %s", field)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readBytes32(field string) ([32]byte, error) {
	var out [32]byte
	b, err := c.readBytes(32, field)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (c *cursor) readU32(field string) (uint32, error) {
	b, err := c.readBytes(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32(field string) (int32, error) {
	v, err := c.readU32(field)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (c *cursor) readU64(field string) (uint64, error) {
	b, err := c.readBytes(8, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readI64(field string) (int64, error) {
	v, err := c.readU64(field)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func (c *cursor) readByte(field string) (byte, error) {
	b, err := c.readBytes(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readCompactSize reads a Bitcoin/Zcash-style compact size integer: a
// single-byte value below 0xfd, or a marker byte (0xfd/0xfe/0xff)
// followed by a 2/4/8-byte little-endian integer.
func (c *cursor) readCompactSize(field string) (uint64, error) {
	first, err := c.readByte(field)
	if err != nil {
		return 0, err
	}
	switch {
	case first < 0xfd:
		return uint64(first), nil
	case first == 0xfd:
		b, err := c.readBytes(2, field)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case first == 0xfe:
		b, err := c.readBytes(4, field)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		b, err := c.readBytes(8, field)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b), nil
	}
}

// writeCompactSize appends the compact-size encoding of n to buf.
func writeCompactSize(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		buf = append(buf, 0xfd)
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(n))
		return append(buf, tmp[:]...)
	case n <= 0xffffffff:
		buf = append(buf, 0xfe)
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(n))
		return append(buf, tmp[:]...)
	default:
		buf = append(buf, 0xff)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], n)
		return append(buf, tmp[:]...)
	}
}

// compactSizeLen returns the number of bytes needed to encode n as a
// compact size, used to compute serialized lengths without allocating.
func compactSizeLen(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
