// Package middleware decodes HTTP request bodies with a tagskema schema
// before they reach a handler.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	gojson "github.com/goccy/go-json"

	tagskema "github.com/reoring/tagskema"
)

// DefaultMaxBodyBytes bounds the request body read by Decode.
const DefaultMaxBodyBytes = 1 << 20

// ctxKeyDecoded is a typed context key for storing a decoded T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches v to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves the value stored by ContextWithDecoded.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// DefaultParseOpt returns the recommended options for HTTP JSON boundaries:
// duplicate keys are errors so a repeated discriminant cannot slip through.
func DefaultParseOpt() tagskema.ParseOpt {
	return tagskema.ParseOpt{RejectDuplicateKeys: true}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []tagskema.Issue) map[string]any {
	out := make([]map[string]any, 0, len(issues))
	for _, it := range issues {
		m := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if it.Expected != "" {
			m["expected"] = it.Expected
		}
		if it.Actual != "" {
			m["actual"] = it.Actual
		}
		if it.Hint != "" {
			m["hint"] = it.Hint
		}
		out = append(out, m)
	}
	return map[string]any{"issues": out}
}

// Decode parses the request body with s and passes the result to next via
// the request context. Rejected bodies get a 400 response with ErrorPayload.
func Decode[T any](s tagskema.Schema[T], opt tagskema.ParseOpt, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes))
		if err != nil {
			status := http.StatusBadRequest
			if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			writeJSON(w, status, ErrorPayload(tagskema.ToIssues("/", err)))
			return
		}
		v, err := tagskema.ParseJSON(r.Context(), s, body, opt)
		if err != nil {
			iss, ok := tagskema.AsIssues(err)
			if !ok {
				iss = tagskema.ToIssues("/", err)
			}
			writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
	})
}

// Respond serializes v with s and writes it as the JSON response body.
func Respond[T any](w http.ResponseWriter, r *http.Request, s tagskema.Schema[T], status int, v T) error {
	b, err := tagskema.SerializeJSON(r.Context(), s, v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := gojson.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
