package venue

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// PayloadType is the wire discriminant carried by every message.
type PayloadType uint32

const (
	PayloadApplicationAuthReq PayloadType = 2100
	PayloadApplicationAuthRes PayloadType = 2101
	PayloadAccountAuthReq     PayloadType = 2102
	PayloadAccountAuthRes     PayloadType = 2103
	PayloadTraderReq          PayloadType = 2121
	PayloadTraderRes          PayloadType = 2122
	PayloadReconcileReq       PayloadType = 2124
	PayloadReconcileRes       PayloadType = 2125
	PayloadDealListReq        PayloadType = 2133
	PayloadDealListRes        PayloadType = 2134
	PayloadErrorRes           PayloadType = 2142
	PayloadRefreshTokenReq    PayloadType = 2173
	PayloadRefreshTokenRes    PayloadType = 2174
)

var knownPayloads = map[PayloadType]struct{}{
	PayloadApplicationAuthReq: {},
	PayloadApplicationAuthRes: {},
	PayloadAccountAuthReq:     {},
	PayloadAccountAuthRes:     {},
	PayloadTraderReq:          {},
	PayloadTraderRes:          {},
	PayloadReconcileReq:       {},
	PayloadReconcileRes:       {},
	PayloadDealListReq:        {},
	PayloadDealListRes:        {},
	PayloadErrorRes:           {},
	PayloadRefreshTokenReq:    {},
	PayloadRefreshTokenRes:    {},
}

// Envelope is the outer message: a discriminant, an optional caller
// correlation id, and the raw body.
type Envelope struct {
	PayloadType PayloadType         `json:"payloadType"`
	ClientMsgID string              `json:"clientMsgId,omitempty"`
	Payload     jsoniter.RawMessage `json:"payload,omitempty"`
}

// Known reports whether the discriminant is one this client speaks.
// Unknown messages are not an error; sessions skip them.
func (e Envelope) Known() bool {
	_, ok := knownPayloads[e.PayloadType]
	return ok
}

// DecodeBody unmarshals the envelope body into v.
func (e Envelope) DecodeBody(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := codec.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode payload %d: %w", e.PayloadType, err)
	}
	return nil
}

// Encode builds one framed-ready message from a typed body.
func Encode(pt PayloadType, clientMsgID string, body any) ([]byte, error) {
	raw, err := codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode payload %d: %w", pt, err)
	}
	return codec.Marshal(Envelope{PayloadType: pt, ClientMsgID: clientMsgID, Payload: raw})
}

// Decode parses the outer envelope. The body stays raw until the
// caller knows what it is expecting.
func Decode(raw []byte) (Envelope, error) {
	var e Envelope
	if err := codec.Unmarshal(raw, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}
