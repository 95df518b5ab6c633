package middleware

import (
	"bytes"
	"net/http"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"trains":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatal(err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header = %v", gotHdr)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsCorruptInput(t *testing.T) {
	for _, bs := range [][]byte{
		nil,
		{1, 2, 3},                      // too short
		{0, 0, 0, 200, 0, 0, 0, 99},     // header length past the end
		{0, 0, 0, 200, 0, 0, 0, 1, '{'}, // truncated header JSON
	} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%v) succeeded on corrupt input", bs)
		}
	}
}
