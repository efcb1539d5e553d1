package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gaspardpetit/larchmock/internal/logx"
)

//go:embed openapi.yaml
var openapiYAML []byte

var (
	openapiOnce sync.Once
	openapiDoc  *openapi3.T
	openapiJSON []byte
	openapiErr  error
)

// OpenAPIDocument loads and validates the embedded OpenAPI description.
func OpenAPIDocument() (*openapi3.T, error) {
	openapiOnce.Do(func() {
		doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
		if err != nil {
			openapiErr = fmt.Errorf("load openapi: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			openapiErr = fmt.Errorf("validate openapi: %w", err)
			return
		}
		b, err := json.Marshal(doc)
		if err != nil {
			openapiErr = fmt.Errorf("encode openapi: %w", err)
			return
		}
		openapiDoc, openapiJSON = doc, b
	})
	return openapiDoc, openapiErr
}

// OpenAPIHandler serves the OpenAPI description as JSON.
func OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := OpenAPIDocument(); err != nil {
			logx.Log.Error().Err(err).Msg("openapi document")
			writeError(w, http.StatusInternalServerError, "openapi_unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(openapiJSON); err != nil {
			logx.Log.Error().Err(err).Msg("write openapi")
		}
	}
}
