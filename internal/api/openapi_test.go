package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func decodeAny(t *testing.T, b []byte) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	return v
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc, err := OpenAPIDocument()
	if err != nil {
		t.Fatalf("OpenAPIDocument: %v", err)
	}
	for _, p := range []string{"/generations", "/models", "/health", "/state"} {
		if doc.Paths.Find(p) == nil {
			t.Fatalf("path %s missing", p)
		}
	}
}

func TestOpenAPIHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	OpenAPIHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	doc, ok := decodeAny(t, rr.Body.Bytes()).(map[string]any)
	if !ok || doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected document %s", rr.Body.String())
	}
}

func TestResponsesMatchOpenAPI(t *testing.T) {
	doc, err := OpenAPIDocument()
	if err != nil {
		t.Fatalf("OpenAPIDocument: %v", err)
	}
	schema := func(name string) *openapi3.Schema {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			t.Fatalf("schema %s missing", name)
		}
		return ref.Value
	}

	h := NewRouter(Options{})
	get := func(method, path, body string) []byte {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d", method, path, rr.Code)
		}
		return rr.Body.Bytes()
	}

	for _, prompt := range []string{"0123456789", "abcdefg"} {
		body := get(http.MethodPost, "/generations", `{"prompt":"`+prompt+`"}`)
		if err := schema("GenerationResponse").VisitJSON(decodeAny(t, body)); err != nil {
			t.Fatalf("generation for %q does not match schema: %v", prompt, err)
		}
	}
	if err := schema("ModelList").VisitJSON(decodeAny(t, get(http.MethodGet, "/models", ""))); err != nil {
		t.Fatalf("models do not match schema: %v", err)
	}
	if err := schema("State").VisitJSON(decodeAny(t, get(http.MethodGet, "/state", ""))); err != nil {
		t.Fatalf("state does not match schema: %v", err)
	}
}

func TestEditSchemaRejectsMixedShape(t *testing.T) {
	doc, err := OpenAPIDocument()
	if err != nil {
		t.Fatalf("OpenAPIDocument: %v", err)
	}
	edit := doc.Components.Schemas["Edit"].Value
	bad := map[string]any{"type": "deletion", "start": float64(1), "text": "x"}
	if err := edit.VisitJSON(bad); err == nil {
		t.Fatalf("deletion without end accepted")
	}
}
