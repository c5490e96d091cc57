// Package frame carries pixel data over a byte stream such as a USB serial
// console, so a host can drive a strip attached to a board.
//
// A frame on the wire is
//
//	0x7E | seq | len (2 bytes, big endian) | payload | crc16 (2 bytes, big endian)
//
// where the CRC covers seq, len and payload. The payload is the strip's
// pixels as R, G, B triplets; the receiver applies its own color order.
package frame

import (
	"errors"
	"io"
)

// Sync marks the start of a frame.
const Sync = 0x7E

// MaxPayload is the largest payload Encode accepts.
const MaxPayload = 0xFFFF

const headerLen = 4

var (
	ErrChecksum     = errors.New("frame: bad checksum")
	ErrFrameTooLong = errors.New("frame: payload too long")
)

// Frame is one decoded frame.
type Frame struct {
	Seq     byte
	Payload []byte
}

// Encode returns the wire form of a frame.
func Encode(seq byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, ErrFrameTooLong
	}
	b := make([]byte, headerLen+len(payload)+2)
	b[0] = Sync
	b[1] = seq
	b[2] = byte(len(payload) >> 8)
	b[3] = byte(len(payload))
	copy(b[headerLen:], payload)
	crc := CRC16(b[1 : headerLen+len(payload)])
	b[len(b)-2] = byte(crc >> 8)
	b[len(b)-1] = byte(crc)
	return b, nil
}

// WriteTo writes the wire form of f to w.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := Encode(f.Seq, f.Payload)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

type parseState uint8

const (
	stateSync parseState = iota // waiting for Sync
	stateSeq
	stateLenHi
	stateLenLo
	statePayload
	stateCRCHi
	stateCRCLo
)

// Parser decodes frames one byte at a time. Bytes outside a frame are
// skipped until the next Sync.
type Parser struct {
	max     int
	state   parseState
	frame   Frame
	buf     []byte
	length  int
	crc     uint16
	wantCRC uint16
}

// NewParser returns a Parser rejecting payloads longer than max bytes.
func NewParser(max int) *Parser {
	if max <= 0 || max > MaxPayload {
		max = MaxPayload
	}
	return &Parser{max: max}
}

// Feed consumes one byte. It returns a frame once its last byte has been
// fed, and an error when a frame is rejected; both are nil otherwise. The
// returned payload is only valid until the next call to Feed.
func (p *Parser) Feed(b byte) (*Frame, error) {
	switch p.state {
	case stateSync:
		if b == Sync {
			p.crc = 0xFFFF
			p.state = stateSeq
		}
	case stateSeq:
		p.frame.Seq = b
		p.crc = crc16Update(p.crc, b)
		p.state = stateLenHi
	case stateLenHi:
		p.length = int(b) << 8
		p.crc = crc16Update(p.crc, b)
		p.state = stateLenLo
	case stateLenLo:
		p.length |= int(b)
		p.crc = crc16Update(p.crc, b)
		if p.length > p.max {
			p.state = stateSync
			return nil, ErrFrameTooLong
		}
		p.buf = p.buf[:0]
		p.state = statePayload
		if p.length == 0 {
			p.state = stateCRCHi
		}
	case statePayload:
		p.buf = append(p.buf, b)
		p.crc = crc16Update(p.crc, b)
		if len(p.buf) == p.length {
			p.state = stateCRCHi
		}
	case stateCRCHi:
		p.wantCRC = uint16(b) << 8
		p.state = stateCRCLo
	case stateCRCLo:
		p.wantCRC |= uint16(b)
		p.state = stateSync
		if p.wantCRC != p.crc {
			return nil, ErrChecksum
		}
		p.frame.Payload = p.buf
		return &p.frame, nil
	}
	return nil, nil
}

// Reset drops any partially received frame.
func (p *Parser) Reset() {
	p.state = stateSync
	p.buf = p.buf[:0]
}
