package docstore

import (
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEncodeDecode(t *testing.T) {
	body, err := Encode(sample{Name: "Kohli", Count: 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode[sample](Document{Collection: "players", ID: "p1", Body: body})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (sample{Name: "Kohli", Count: 3}) {
		t.Fatalf("unexpected decoded value: %+v", got)
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	got, err := Decode[sample](Document{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (sample{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestMergeFields(t *testing.T) {
	body, _ := Encode(sample{Name: "Kohli", Count: 3})

	merged, err := MergeFields(body, map[string]any{"count": 5, "extra": "x"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := Decode[map[string]any](Document{Body: merged})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["name"] != "Kohli" || got["count"] != float64(5) || got["extra"] != "x" {
		t.Fatalf("unexpected merged body: %+v", got)
	}
}

func TestOpsCopiesInput(t *testing.T) {
	var ops Ops
	body := []byte(`{"a":1}`)
	fields := map[string]any{"a": 2}
	ops.Set("players", "p1", body)
	ops.Update("players", "p1", fields)
	body[0] = 'x'
	fields["a"] = 3

	items := ops.Items()
	if ops.Len() != 2 || string(items[0].Body) != `{"a":1}` || items[1].Fields["a"] != 2 {
		t.Fatalf("expected buffered ops to be isolated from caller mutation: %+v", items)
	}
}
