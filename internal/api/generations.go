package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gaspardpetit/larchmock/internal/logx"
	"github.com/gaspardpetit/larchmock/internal/metrics"
	"github.com/gaspardpetit/larchmock/internal/readme"
	"github.com/gaspardpetit/larchmock/internal/serverstate"
	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

// maxBodyBytes bounds generation requests; clients upload whole file trees.
const maxBodyBytes = 32 << 20

// GenerationsHandler handles POST /generations. Every request first waits
// delay to mimic a slow model, then answers with a synthesized README.
func GenerationsHandler(delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if serverstate.IsDraining() {
			metrics.RecordRejected(metrics.OutcomeDraining)
			writeError(w, http.StatusServiceUnavailable, "draining")
			return
		}
		start := time.Now()
		outcome := metrics.OutcomeSuccess
		metrics.GenerationStart()
		defer func() { metrics.GenerationEnd(outcome, time.Since(start)) }()

		log := logx.Log.With().Str("request_id", chiMiddleware.GetReqID(r.Context())).Logger()

		if err := sleepCtx(r.Context(), delay); err != nil {
			outcome = metrics.OutcomeCanceled
			log.Warn().Err(err).Msg("generation canceled during delay")
			return
		}

		if !isJSON(r.Header.Get("Content-Type")) {
			outcome = metrics.OutcomeBadRequest
			log.Warn().Str("content_type", r.Header.Get("Content-Type")).Msg("generation body is not JSON")
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type")
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			outcome = metrics.OutcomeBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "body_too_large")
				return
			}
			log.Warn().Err(err).Msg("read generation body")
			writeError(w, http.StatusBadRequest, "bad_request")
			return
		}
		// The model is only read from form fields, which a JSON body never has.
		r.Body = io.NopCloser(bytes.NewReader(body))
		model := r.PostFormValue("model")

		payload, err := readme.ParsePayload(body)
		if err != nil {
			outcome = metrics.OutcomeBadRequest
			handleSynthErr(w, log, err)
			return
		}
		res, err := readme.Synthesize(payload)
		if err != nil {
			outcome = metrics.OutcomeError
			if errors.Is(err, readme.ErrPromptTooShort) {
				outcome = metrics.OutcomeTooShort
			}
			handleSynthErr(w, log, err)
			return
		}
		for _, e := range res.Edits {
			metrics.RecordEdit(string(e.Type))
		}
		log.Debug().Int("prompt_len", len([]rune(payload.Prompt))).Int("edits", len(res.Edits)).Msg("generation synthesized")

		writeJSON(w, http.StatusOK, larch.GenerationResponse{
			ID:    larch.GenerationID,
			Model: model,
			Choices: []larch.Choice{
				{Text: res.Text, Edits: res.Edits, Index: 0, Logprobs: 0},
			},
		}, "generation")
	}
}

func handleSynthErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, readme.ErrInvalidPayload):
		log.Warn().Err(err).Msg("invalid generation payload")
		writeError(w, http.StatusBadRequest, "invalid_payload")
	case errors.Is(err, readme.ErrInvalidPrompt):
		log.Warn().Err(err).Msg("invalid prompt")
		writeError(w, http.StatusBadRequest, "invalid_prompt")
	case errors.Is(err, readme.ErrPromptTooShort):
		log.Error().Err(err).Msg("prompt too short to synthesize")
		writeError(w, http.StatusInternalServerError, "prompt_too_short")
	default:
		log.Error().Err(err).Msg("synthesize generation")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// isJSON reports whether a Content-Type names JSON (application/json or
// application/*+json).
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
