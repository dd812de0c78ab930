package protocol_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/platformatic/http-handler/protocol"
)

func TestParseSimpleTextFrame(t *testing.T) {
	data := []byte{0x81, 0x05, 'H', 'e', 'l', 'l', 'o'}

	f, consumed, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if consumed != 7 {
		t.Errorf("consumed = %d, want 7", consumed)
	}
	if !f.Fin {
		t.Error("Fin not set")
	}
	if f.Opcode != protocol.OpcodeText {
		t.Errorf("Opcode = %#x, want text", f.Opcode)
	}
	if !bytes.Equal(f.Payload, []byte("Hello")) {
		t.Errorf("Payload = %q, want %q", f.Payload, "Hello")
	}
}

func TestParseMaskedFrame(t *testing.T) {
	// Masked "Hello" with the RFC 6455 section 5.7 example key.
	data := []byte{
		0x81, 0x85, 0x37, 0xFA, 0x21, 0x3D,
		0x7F, 0x9F, 0x4D, 0x51, 0x58,
	}

	f, consumed, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if consumed != 11 {
		t.Errorf("consumed = %d, want 11", consumed)
	}
	if !f.Masked {
		t.Error("Masked not set")
	}
	if !bytes.Equal(f.Payload, []byte("Hello")) {
		t.Errorf("Payload = %q, want %q", f.Payload, "Hello")
	}
}

func TestEncodeTextFrame(t *testing.T) {
	f := protocol.NewTextFrame("Hello", true)
	encoded := f.Encode(nil)

	want := []byte{0x81, 0x05, 'H', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(encoded, want) {
		t.Errorf("Encode = %v, want %v", encoded, want)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":       nil,
		"short":       []byte("hi"),
		"medium_200":  bytes.Repeat([]byte{0xAB}, 200),
		"large_70000": bytes.Repeat([]byte{0xCD}, 70000),
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			f := protocol.NewBinaryFrame(payload, true)
			data := f.Encode(nil)
			got, consumed, err := protocol.ParseFrame(data)
			if err != nil {
				t.Fatalf("ParseFrame failed: %v", err)
			}
			if consumed != len(data) {
				t.Errorf("consumed = %d, want %d", consumed, len(data))
			}
			if got.Opcode != f.Opcode || got.Fin != f.Fin {
				t.Error("opcode/fin mismatch after round trip")
			}
			if !bytes.Equal(got.Payload, payload) {
				t.Error("payload mismatch after round trip")
			}
		})
	}
}

func TestEncodeParseRoundTripMasked(t *testing.T) {
	key := protocol.NewMaskKey()
	f := protocol.NewTextFrame("masked payload", true)
	data := f.Encode(&key)

	if data[1]&0x80 == 0 {
		t.Fatal("mask bit not set on masked encode")
	}
	got, _, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if !got.Masked {
		t.Error("Masked not set after parse")
	}
	if !bytes.Equal(got.Payload, []byte("masked payload")) {
		t.Errorf("Payload = %q after unmask", got.Payload)
	}
	// The input frame must be untouched by masked encoding.
	if !bytes.Equal(f.Payload, []byte("masked payload")) {
		t.Error("Encode mutated the source payload")
	}
}

func TestMaskIsInvolutive(t *testing.T) {
	key := [4]byte{0x12, 0x34, 0x56, 0x78}
	payload := []byte("The quick brown fox jumps over the lazy dog")

	f := protocol.NewBinaryFrame(payload, true)
	once := f.Encode(&key)
	got, _, err := protocol.ParseFrame(once)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Error("mask applied twice did not restore the payload")
	}
}

func TestExtendedLength16(t *testing.T) {
	payload := make([]byte, 200)
	data := append([]byte{0x82, 126, 0x00, 0xC8}, payload...)

	f, consumed, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if consumed != 204 {
		t.Errorf("consumed = %d, want 204", consumed)
	}
	if len(f.Payload) != 200 {
		t.Errorf("payload length = %d, want 200", len(f.Payload))
	}
}

func TestExtendedLength64(t *testing.T) {
	payload := make([]byte, 70000)
	hdr := []byte{0x82, 127, 0, 0, 0, 0, 0, 0x01, 0x11, 0x70}
	data := append(hdr, payload...)

	f, consumed, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
	if len(f.Payload) != 70000 {
		t.Errorf("payload length = %d, want 70000", len(f.Payload))
	}
}

func TestCloseFrameRoundTrip(t *testing.T) {
	code := uint16(protocol.CloseNormalClosure)
	f := protocol.NewCloseFrame(&code, "Normal closure")

	parsed, _, err := protocol.ParseFrame(f.Encode(nil))
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	gotCode, reason, ok := parsed.ClosePayload()
	if !ok {
		t.Fatal("ClosePayload not ok")
	}
	if gotCode != 1000 || reason != "Normal closure" {
		t.Errorf("close payload = (%d, %q)", gotCode, reason)
	}
}

func TestCloseFrameWithoutCode(t *testing.T) {
	f := protocol.NewCloseFrame(nil, "ignored")
	if len(f.Payload) != 0 {
		t.Errorf("payload length = %d, want 0", len(f.Payload))
	}
	if _, _, ok := f.ClosePayload(); ok {
		t.Error("ClosePayload ok on empty close payload")
	}
}

func TestControlFrameTooLarge(t *testing.T) {
	data := []byte{0x88, 126, 0x00, 0x7F}

	_, _, err := protocol.ParseFrame(data)
	if !errors.Is(err, protocol.ErrControlFrameTooLarge) {
		t.Errorf("err = %v, want ErrControlFrameTooLarge", err)
	}
}

func TestControlFrameFragmented(t *testing.T) {
	// Ping with FIN=0.
	data := []byte{0x09, 0x00}

	_, _, err := protocol.ParseFrame(data)
	if !errors.Is(err, protocol.ErrControlFrameFragmented) {
		t.Errorf("err = %v, want ErrControlFrameFragmented", err)
	}
}

func TestReservedBitsSet(t *testing.T) {
	for _, b0 := range []byte{0xC1, 0xA1, 0x91} {
		_, _, err := protocol.ParseFrame([]byte{b0, 0x00})
		if !errors.Is(err, protocol.ErrReservedBitsSet) {
			t.Errorf("b0=%#x: err = %v, want ErrReservedBitsSet", b0, err)
		}
	}
}

func TestInvalidOpcode(t *testing.T) {
	for _, op := range []byte{0x3, 0x7, 0xB, 0xF} {
		_, _, err := protocol.ParseFrame([]byte{0x80 | op, 0x00})
		if !errors.Is(err, protocol.ErrInvalidOpcode) {
			t.Errorf("opcode %#x: err = %v, want ErrInvalidOpcode", op, err)
		}
	}
}

func TestIncompleteFrame(t *testing.T) {
	cases := map[string][]byte{
		"one_byte":          {0x81},
		"missing_len16":     {0x81, 126, 0x01},
		"missing_len64":     {0x81, 127, 0, 0, 0, 0},
		"missing_mask_key":  {0x81, 0x85, 0x37, 0xFA},
		"truncated_payload": {0x81, 0x05, 'H', 'e'},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := protocol.ParseFrame(data)
			if !errors.Is(err, protocol.ErrIncompleteFrame) {
				t.Errorf("err = %v, want ErrIncompleteFrame", err)
			}
			if protocol.IsFatal(err) {
				t.Error("ErrIncompleteFrame classified as fatal")
			}
		})
	}
}

func TestFrameTooLarge(t *testing.T) {
	if math.MaxInt != math.MaxInt64 {
		t.Skip("only meaningful on 64-bit platforms")
	}
	data := []byte{0x82, 127, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

	_, _, err := protocol.ParseFrame(data)
	if !errors.Is(err, protocol.ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestInvalidUTF8TextFrame(t *testing.T) {
	data := []byte{0x81, 0x02, 0xFF, 0xFE}

	_, _, err := protocol.ParseFrame(data)
	if !errors.Is(err, protocol.ErrInvalidUTF8) {
		t.Errorf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestNonFinalTextFragmentSkipsUTF8Check(t *testing.T) {
	// A fragment may split a multi-byte rune; validation applies to
	// final text frames only.
	data := []byte{0x01, 0x01, 0xE2}

	f, _, err := protocol.ParseFrame(data)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if f.Fin {
		t.Error("Fin set on fragment")
	}
}

func TestTextHelper(t *testing.T) {
	f := protocol.NewTextFrame("héllo", true)
	s, ok := f.Text()
	if !ok || s != "héllo" {
		t.Errorf("Text() = (%q, %v)", s, ok)
	}
	if _, ok := protocol.NewBinaryFrame([]byte("x"), true).Text(); ok {
		t.Error("Text() ok on binary frame")
	}
}

func TestEncodeLongReason(t *testing.T) {
	code := uint16(protocol.CloseGoingAway)
	f := protocol.NewCloseFrame(&code, strings.Repeat("r", 50))
	if len(f.Payload) != 52 {
		t.Errorf("payload length = %d, want 52", len(f.Payload))
	}
}

func TestNewMaskKeyVaries(t *testing.T) {
	a, b := protocol.NewMaskKey(), protocol.NewMaskKey()
	if a == b {
		t.Log("two random keys collided; suspicious but possible")
	}
}
