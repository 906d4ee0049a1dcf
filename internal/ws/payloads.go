package ws

import "encoding/json"

// Message is the envelope for both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// client → server
type StartPayload struct {
	Difficulty string `json:"difficulty"`
	Rows       int    `json:"rows,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	Mines      int    `json:"mines,omitempty"`
}

type CellPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// server → client
type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	m := Message{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		m.Payload = raw
	}
	return json.Marshal(m)
}
