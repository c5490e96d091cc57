package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRC16(t *testing.T) {
	require.Equal(t, uint16(0xFFFF), CRC16(nil))
	require.Equal(t, uint16(0x6F91), CRC16([]byte("123456789")))
	require.NotEqual(t, CRC16([]byte{1, 2, 3}), CRC16([]byte{1, 2, 4}))
}

func TestEncode(t *testing.T) {
	b, err := Encode(1, []byte{0xAA, 0xBB, 0xCC})
	require.NoError(t, err)
	require.Equal(t, []byte{Sync, 1, 0, 3, 0xAA, 0xBB, 0xCC, 0x87, 0x9D}, b)

	_, err = Encode(0, make([]byte, MaxPayload+1))
	require.Equal(t, ErrFrameTooLong, err)
}

func feed(t *testing.T, p *Parser, data []byte) (frames []Frame, errs []error) {
	t.Helper()
	for _, b := range data {
		f, err := p.Feed(b)
		if err != nil {
			errs = append(errs, err)
		}
		if f != nil {
			frames = append(frames, Frame{Seq: f.Seq, Payload: append([]byte(nil), f.Payload...)})
		}
	}
	return frames, errs
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name    string
		seq     byte
		payload []byte
	}{
		{"empty", 7, nil},
		{"one pixel", 8, []byte{0x10, 0x20, 0x30}},
		{"payload containing sync", 9, []byte{Sync, Sync, 0x00, Sync}},
		{"long", 10, bytes.Repeat([]byte{1, 2, 3}, 300)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := Frame{Seq: tc.seq, Payload: tc.payload}
			n, err := f.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, int64(len(tc.payload)+6), n)

			frames, errs := feed(t, NewParser(0), buf.Bytes())
			require.Empty(t, errs)
			require.Len(t, frames, 1)
			require.Equal(t, tc.seq, frames[0].Seq)
			require.Equal(t, tc.payload, frames[0].Payload)
		})
	}
}

func TestParserSkipsNoise(t *testing.T) {
	a, _ := Encode(1, []byte{1, 2, 3})
	b, _ := Encode(2, []byte{4, 5, 6})
	stream := append([]byte{0x00, 0x13, 0xFF}, a...)
	stream = append(stream, 0x42)
	stream = append(stream, b...)

	frames, errs := feed(t, NewParser(0), stream)
	require.Empty(t, errs)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{4, 5, 6}, frames[1].Payload)
}

func TestParserChecksum(t *testing.T) {
	bad, _ := Encode(1, []byte{1, 2, 3})
	bad[5] ^= 0x01
	good, _ := Encode(2, []byte{7, 8, 9})

	frames, errs := feed(t, NewParser(0), append(bad, good...))
	require.Equal(t, []error{ErrChecksum}, errs)
	require.Len(t, frames, 1)
	require.Equal(t, byte(2), frames[0].Seq)
}

func TestParserTooLong(t *testing.T) {
	big, _ := Encode(1, make([]byte, 10))
	small, _ := Encode(2, []byte{1})

	p := NewParser(4)
	frames, errs := feed(t, p, big[:headerLen])
	require.Empty(t, frames)
	require.Equal(t, []error{ErrFrameTooLong}, errs)

	frames, errs = feed(t, p, small)
	require.Empty(t, errs)
	require.Len(t, frames, 1)
}

func TestParserReset(t *testing.T) {
	a, _ := Encode(1, []byte{1, 2, 3})
	p := NewParser(0)
	frames, _ := feed(t, p, a[:5])
	require.Empty(t, frames)
	p.Reset()
	frames, errs := feed(t, p, a)
	require.Empty(t, errs)
	require.Len(t, frames, 1)
}
