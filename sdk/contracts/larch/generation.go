// Package larch defines the wire contract of the LARCH README generation
// API shared by the mock server and its clients.
package larch

import (
	"errors"
	"fmt"
)

// GenerationID is the fixed id the mock returns for every generation.
const GenerationID = "tmp-non-id"

// ErrInvalidResponse marks a response body that does not match the contract.
var ErrInvalidResponse = errors.New("invalid response")

// Node is an entry of a project file tree: *File or *Directory.
type Node interface {
	nodeName() string
}

// File is a project file. Content is omitted for excluded files.
type File struct {
	Name     string  `json:"name"`
	Excluded bool    `json:"excluded"`
	Content  *string `json:"content,omitempty"`
}

// Directory is a project directory.
type Directory struct {
	Name     string `json:"name"`
	Children []Node `json:"children"`
}

func (f *File) nodeName() string      { return f.Name }
func (d *Directory) nodeName() string { return d.Name }

// GenerationRequest is the body of POST /generations.
type GenerationRequest struct {
	Files       *Directory `json:"files"`
	Model       string     `json:"model"`
	Prompt      string     `json:"prompt"`
	ProjectName string     `json:"project_name"`
}

// Choice is one generated candidate.
type Choice struct {
	Text     string  `json:"text"`
	Edits    []Edit  `json:"edits,omitempty"`
	Index    int     `json:"index"`
	Logprobs float64 `json:"logprobs"`
}

// GenerationResponse is the body returned by POST /generations.
type GenerationResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Model describes a generation model.
type Model struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	OwnedBy     string `json:"owned_by"`
}

// ModelList is the body returned by GET /models.
type ModelList struct {
	Data []Model `json:"data"`
}

// Validate checks the fields a client relies on.
func (r *GenerationResponse) Validate() error {
	if r.Choices == nil {
		return fmt.Errorf("%w: missing choices", ErrInvalidResponse)
	}
	return nil
}

// Validate checks the fields a client relies on.
func (l *ModelList) Validate() error {
	if l.Data == nil {
		return fmt.Errorf("%w: missing data", ErrInvalidResponse)
	}
	for i, m := range l.Data {
		if m.ID == "" {
			return fmt.Errorf("%w: model %d has no id", ErrInvalidResponse, i)
		}
	}
	return nil
}
