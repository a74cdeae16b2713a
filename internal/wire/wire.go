// Package wire encodes logical-expiration cache entries.
//
// The envelope is JSON: {"data": <payload JSON>, "expireTime": <RFC3339>}.
// The expiry lives inside the value on purpose: entries written with this
// envelope carry no store-level TTL, staleness is judged by comparing
// expireTime to the clock. Payloads produced by a non-JSON codec are
// base64-wrapped and tagged with "encoding":"base64".
package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrCorrupt = errors.New("wire: corrupt logical entry")

type envelope struct {
	Data       json.RawMessage `json:"data"`
	ExpireTime time.Time       `json:"expireTime"`
	Encoding   string          `json:"encoding,omitempty"`
}

// EncodeLogical wraps payload with an embedded logical expiry.
func EncodeLogical(payload []byte, expireAt time.Time) ([]byte, error) {
	env := envelope{ExpireTime: expireAt}
	if json.Valid(payload) {
		env.Data = json.RawMessage(payload)
	} else {
		s, err := json.Marshal(base64.StdEncoding.EncodeToString(payload))
		if err != nil {
			return nil, err
		}
		env.Data = s
		env.Encoding = "base64"
	}
	return json.Marshal(env)
}

// DecodeLogical returns the inner payload and its logical expiry.
// Anything that does not strictly parse as an envelope is ErrCorrupt;
// callers treat that as a cache miss and self-heal.
func DecodeLogical(raw []byte) ([]byte, time.Time, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, time.Time{}, ErrCorrupt
	}
	if env.ExpireTime.IsZero() || len(env.Data) == 0 {
		return nil, time.Time{}, ErrCorrupt
	}
	if env.Encoding == "base64" {
		var s string
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, time.Time{}, ErrCorrupt
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, time.Time{}, ErrCorrupt
		}
		return b, env.ExpireTime, nil
	}
	return []byte(env.Data), env.ExpireTime, nil
}
