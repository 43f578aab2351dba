package docstore

import (
	"fmt"

	"github.com/bytedance/sonic"
)

func Encode(v any) ([]byte, error) {
	body, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return body, nil
}

// Decode unmarshals a document body. An empty body decodes to the zero value.
func Decode[T any](doc Document) (T, error) {
	var out T
	if len(doc.Body) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(doc.Body, &out); err != nil {
		return out, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return out, nil
}

// MergeFields overwrites the top-level keys of body with fields.
func MergeFields(body []byte, fields map[string]any) ([]byte, error) {
	merged := map[string]any{}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &merged); err != nil {
			return nil, fmt.Errorf("decode document body: %w", err)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return Encode(merged)
}
