package connectrpc

import (
	"bytes"
	"encoding/json"
)

// JSONCodec marshals plain Go structs. It replaces connect's protojson codec
// under the same name, so application/json requests reach it.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

// Unmarshal treats an empty body as an empty object.
func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
