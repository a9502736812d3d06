package request

import (
	"bytes"
	"encoding/json"
	"io"
)

func JSONDECODE[T any](body io.Reader, dest *T) error {
	return json.NewDecoder(body).Decode(dest)
}

// DecodeBytes decodes an already buffered JSON payload into a new T.
func DecodeBytes[T any](data []byte) (T, error) {
	var dest T
	err := JSONDECODE(bytes.NewReader(data), &dest)
	return dest, err
}
