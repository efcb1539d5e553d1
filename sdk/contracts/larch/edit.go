package larch

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// EditType discriminates edit operations on the wire.
type EditType string

const (
	EditDeletion  EditType = "deletion"
	EditInsertion EditType = "insertion"
)

// ErrEditOutOfRange is returned by Apply for edits that fall outside the
// original text or overlap a previous edit.
var ErrEditOutOfRange = errors.New("edit out of range")

// Edit is a single operation in the original text's code point space.
// Deletions use Start and End, insertions use Start and Text.
type Edit struct {
	Type  EditType
	Start int
	End   int
	Text  string
}

// Deletion removes code points [start, end).
func Deletion(start, end int) Edit {
	return Edit{Type: EditDeletion, Start: start, End: end}
}

// Insertion inserts text before code point start.
func Insertion(start int, text string) Edit {
	return Edit{Type: EditInsertion, Start: start, Text: text}
}

type deletionWire struct {
	Type  EditType `json:"type"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}

type insertionWire struct {
	Type  EditType `json:"type"`
	Start int      `json:"start"`
	Text  string   `json:"text"`
}

func (e Edit) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EditDeletion:
		return json.Marshal(deletionWire{Type: e.Type, Start: e.Start, End: e.End})
	case EditInsertion:
		return json.Marshal(insertionWire{Type: e.Type, Start: e.Start, Text: e.Text})
	default:
		return nil, fmt.Errorf("larch: unknown edit type %q", e.Type)
	}
}

func (e *Edit) UnmarshalJSON(b []byte) error {
	var w struct {
		Type  EditType `json:"type"`
		Start *int     `json:"start"`
		End   *int     `json:"end"`
		Text  *string  `json:"text"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Start == nil {
		return fmt.Errorf("larch: %s edit without start", w.Type)
	}
	switch w.Type {
	case EditDeletion:
		if w.End == nil {
			return errors.New("larch: deletion without end")
		}
		*e = Deletion(*w.Start, *w.End)
	case EditInsertion:
		if w.Text == nil {
			return errors.New("larch: insertion without text")
		}
		*e = Insertion(*w.Start, *w.Text)
	default:
		return fmt.Errorf("larch: unknown edit type %q", w.Type)
	}
	return nil
}

// Apply replays edits against original the way an editor client does: edits
// are stably ordered by start and applied left to right, each expressed in
// the original text's code point offsets.
func Apply(original string, edits []Edit) (string, error) {
	src := []rune(original)
	ordered := slices.Clone(edits)
	slices.SortStableFunc(ordered, func(a, b Edit) int { return cmp.Compare(a.Start, b.Start) })

	var sb strings.Builder
	pos := 0
	for _, e := range ordered {
		if e.Start < pos || e.Start > len(src) {
			return "", fmt.Errorf("%w: %s at %d", ErrEditOutOfRange, e.Type, e.Start)
		}
		sb.WriteString(string(src[pos:e.Start]))
		pos = e.Start
		switch e.Type {
		case EditInsertion:
			sb.WriteString(e.Text)
		case EditDeletion:
			if e.End < e.Start || e.End > len(src) {
				return "", fmt.Errorf("%w: deletion [%d, %d)", ErrEditOutOfRange, e.Start, e.End)
			}
			pos = e.End
		default:
			return "", fmt.Errorf("larch: unknown edit type %q", e.Type)
		}
	}
	sb.WriteString(string(src[pos:]))
	return sb.String(), nil
}
