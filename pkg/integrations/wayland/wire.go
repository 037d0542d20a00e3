package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Every message starts with the sender object id followed by a word holding
// the total message size in the upper 16 bits and the opcode in the lower 16.
const headerSize = 8

// maxMessageSize is the largest message libwayland will put on the wire.
const maxMessageSize = 4096

var errShortMessage = errors.New("wayland: message body too short")

type message struct {
	sender uint32
	opcode uint16
	body   []byte
}

func readMessage(r io.Reader) (message, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return message{}, err
	}

	sender := binary.NativeEndian.Uint32(hdr[0:4])
	word := binary.NativeEndian.Uint32(hdr[4:8])
	size := int(word >> 16)
	opcode := uint16(word & 0xffff)

	if size < headerSize || size > maxMessageSize {
		return message{}, fmt.Errorf("wayland: invalid message size %d from object %d", size, sender)
	}

	body := make([]byte, size-headerSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return message{}, err
	}

	return message{sender: sender, opcode: opcode, body: body}, nil
}

// encoder builds a request body.
type encoder struct {
	buf []byte
}

func (e *encoder) uint(v uint32) *encoder {
	e.buf = binary.NativeEndian.AppendUint32(e.buf, v)
	return e
}

// string writes a length-prefixed, NUL-terminated string padded to 32 bits.
func (e *encoder) string(s string) *encoder {
	e.uint(uint32(len(s) + 1))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	e.pad()
	return e
}

func (e *encoder) array(b []byte) *encoder {
	e.uint(uint32(len(b)))
	e.buf = append(e.buf, b...)
	e.pad()
	return e
}

func (e *encoder) pad() {
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
}

// frame prefixes the body with a header for sender and opcode.
func (e *encoder) frame(sender uint32, opcode uint16) []byte {
	size := headerSize + len(e.buf)
	out := make([]byte, 0, size)
	out = binary.NativeEndian.AppendUint32(out, sender)
	out = binary.NativeEndian.AppendUint32(out, uint32(size)<<16|uint32(opcode))
	return append(out, e.buf...)
}

// decoder reads event arguments in order. The first failure sticks and every
// later read returns a zero value.
type decoder struct {
	b   []byte
	err error
}

func (d *decoder) uint() uint32 {
	if d.err != nil {
		return 0
	}
	if len(d.b) < 4 {
		d.err = errShortMessage
		return 0
	}
	v := binary.NativeEndian.Uint32(d.b)
	d.b = d.b[4:]
	return v
}

func (d *decoder) bytes() []byte {
	n := d.uint()
	if d.err != nil {
		return nil
	}
	padded := (uint64(n) + 3) &^ 3
	if padded > uint64(len(d.b)) {
		d.err = errShortMessage
		return nil
	}
	v := d.b[:n:n]
	d.b = d.b[padded:]
	return v
}

func (d *decoder) string() string {
	raw := d.bytes()
	if d.err != nil || len(raw) == 0 {
		// A zero length encodes a null string.
		return ""
	}
	if raw[len(raw)-1] != 0 {
		d.err = errors.New("wayland: string argument is not NUL terminated")
		return ""
	}
	return string(raw[:len(raw)-1])
}

func (d *decoder) array() []byte {
	raw := d.bytes()
	if d.err != nil {
		return nil
	}
	return append([]byte(nil), raw...)
}
