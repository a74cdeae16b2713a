package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogicalRoundtripJSON(t *testing.T) {
	payload := []byte(`{"id":1,"name":"shop"}`)
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	raw, err := EncodeLogical(payload, exp)
	if err != nil {
		t.Fatalf("EncodeLogical: %v", err)
	}
	// JSON payloads embed verbatim, per the documented wire format
	if !bytes.Contains(raw, payload) {
		t.Fatalf("entity JSON not embedded verbatim: %s", raw)
	}
	if strings.Contains(string(raw), "base64") {
		t.Fatalf("JSON payload should not be base64-tagged: %s", raw)
	}

	got, gotExp, err := DecodeLogical(raw)
	if err != nil {
		t.Fatalf("DecodeLogical: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload roundtrip: got %s", got)
	}
	if !gotExp.Equal(exp) {
		t.Fatalf("expiry roundtrip: got %v want %v", gotExp, exp)
	}
}

func TestLogicalRoundtripBinary(t *testing.T) {
	payload := []byte{0x82, 0xa2, 0x69, 0x64, 0x01, 0x00} // not valid JSON
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	raw, err := EncodeLogical(payload, exp)
	if err != nil {
		t.Fatalf("EncodeLogical: %v", err)
	}
	got, _, err := DecodeLogical(raw)
	if err != nil {
		t.Fatalf("DecodeLogical: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("binary payload roundtrip: got %x want %x", got, payload)
	}
}

func TestDecodeLogicalCorrupt(t *testing.T) {
	cases := map[string][]byte{
		"not json":        []byte("][garbage"),
		"empty":           nil,
		"missing expiry":  []byte(`{"data":{"id":1}}`),
		"missing data":    []byte(`{"expireTime":"2024-11-15T09:32:00Z"}`),
		"unknown fields":  []byte(`{"data":{},"expireTime":"2024-11-15T09:32:00Z","extra":1}`),
		"bad base64":      []byte(`{"data":"%%%","encoding":"base64","expireTime":"2024-11-15T09:32:00Z"}`),
		"foreign payload": []byte("plain cached value from another writer"),
	}
	for name, raw := range cases {
		if _, _, err := DecodeLogical(raw); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: err = %v, want ErrCorrupt", name, err)
		}
	}
}
