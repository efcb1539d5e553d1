package larch

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEditWireFormat(t *testing.T) {
	b, err := json.Marshal([]Edit{Deletion(1, 2), Insertion(3, "x")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"type":"deletion","start":1,"end":2},{"type":"insertion","start":3,"text":"x"}]`
	if string(b) != want {
		t.Fatalf("wire = %s; want %s", b, want)
	}

	var back []Edit
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0] != Deletion(1, 2) || back[1] != Insertion(3, "x") {
		t.Fatalf("decoded = %#v", back)
	}
}

func TestEditUnmarshalRejectsIncomplete(t *testing.T) {
	for _, in := range []string{
		`{"type":"deletion","start":1}`,
		`{"type":"insertion","start":1}`,
		`{"type":"insertion","text":"x"}`,
		`{"type":"replace","start":1,"end":2}`,
	} {
		var e Edit
		if err := json.Unmarshal([]byte(in), &e); err == nil {
			t.Fatalf("Unmarshal(%s) succeeded; want error", in)
		}
	}
	if _, err := json.Marshal(Edit{Type: "replace"}); err == nil {
		t.Fatalf("Marshal of unknown edit type succeeded")
	}
}

func TestApplySplice(t *testing.T) {
	edits := []Edit{Deletion(1, 2), Insertion(3, "👨‍👩‍👧‍👦"), Deletion(4, 5), Insertion(10, "!")}
	got, err := Apply("0123456789", edits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if want := "02👨‍👩‍👧‍👦356789!"; got != want {
		t.Fatalf("Apply = %q; want %q", got, want)
	}
}

func TestApplyCountsCodePoints(t *testing.T) {
	// U+1D7D8.. take four bytes and two UTF-16 units each.
	got, err := Apply("\U0001D7D8\U0001D7D9\U0001D7DA", []Edit{Deletion(1, 2)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if want := "\U0001D7D8\U0001D7DA"; got != want {
		t.Fatalf("Apply = %q; want %q", got, want)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	cases := [][]Edit{
		{Insertion(4, "x")},
		{Deletion(1, 5)},
		{Deletion(2, 1)},
		{Deletion(0, 2), Deletion(1, 3)},
	}
	for _, edits := range cases {
		if _, err := Apply("abc", edits); !errors.Is(err, ErrEditOutOfRange) {
			t.Fatalf("Apply(%v) err = %v; want ErrEditOutOfRange", edits, err)
		}
	}
}

func TestApplyKeepsOrderOfEqualStarts(t *testing.T) {
	got, err := Apply("ab", []Edit{Insertion(1, "x"), Insertion(1, "y")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "axyb" {
		t.Fatalf("Apply = %q; want %q", got, "axyb")
	}
}
