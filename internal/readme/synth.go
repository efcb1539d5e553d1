// Package readme synthesizes deterministic mock README generations together
// with the edit operations that turn the prompt into the generated text.
//
// All offsets are Unicode code point offsets into the original prompt. The
// injected TestText mixes characters outside the BMP, an emoji modifier
// sequence and a ZWJ sequence, so clients that index by UTF-16 unit or by
// byte will visibly corrupt the result.
package readme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

// TestText is spliced into every generation.
const TestText = "\U0001D7D8\U0001D7D9\U0001D7DA\U0001D7DB\U0001D7DC\U0001D7DD\U0001D7DE\U0001D7DF\U0001D7E0\U0001D7E1" +
	"\U0001F44D\U0001F3FD" +
	"\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466"

const (
	// MinPromptLength is the shortest prompt, in code points, that can be synthesized.
	MinPromptLength = 6
	// editThreshold is the prompt length from which the splice edits are reported.
	editThreshold = 10
)

const blockFormat = "\n# h1 Heading\n## h2 Heading\n\n### Data\n\n```\n%s\n```\n"

// ErrPromptTooShort is returned for prompts shorter than MinPromptLength.
var ErrPromptTooShort = errors.New("prompt too short")

// Result is a synthesized generation.
type Result struct {
	Text  string
	Edits []larch.Edit
}

// Synthesize builds the mock generation for p.
func Synthesize(p *Payload) (Result, error) {
	src := []rune(p.Prompt)
	if len(src) < MinPromptLength {
		return Result{}, fmt.Errorf("%w: %d code points, need %d", ErrPromptTooShort, len(src), MinPromptLength)
	}
	block, err := DataBlock(p)
	if err != nil {
		return Result{}, err
	}

	edits := make([]larch.Edit, 0, 4)
	if len(src) >= editThreshold {
		edits = append(edits,
			larch.Deletion(1, 2),
			larch.Insertion(3, TestText),
			larch.Deletion(4, 5),
		)
	}
	edits = append(edits, larch.Insertion(len(src), block))

	var sb strings.Builder
	sb.WriteRune(src[0])
	sb.WriteRune(src[2])
	sb.WriteString(TestText)
	sb.WriteRune(src[3])
	sb.WriteString(string(src[5:]))
	sb.WriteString(block)

	return Result{Text: sb.String(), Edits: edits}, nil
}

// DataBlock renders the Markdown section that echoes the whole payload.
func DataBlock(p *Payload) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.raw, "", "  "); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return fmt.Sprintf(blockFormat, asciiEscape(buf.Bytes())), nil
}

// asciiEscape rewrites every non-ASCII character as a \uXXXX escape. Valid
// JSON only carries non-ASCII text inside strings, so the result is still
// valid JSON and decodes to the same value.
func asciiEscape(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			sb.WriteByte(byte(r))
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return sb.String()
}
