// Package jsonutil holds the request/response plumbing shared by the
// JSON API handlers: body decoding with a size cap, and response writing.
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apperr"
)

// maxBodyBytes caps request bodies. Progress descriptions and discussion
// messages are short text; 1 MiB leaves generous headroom.
const maxBodyBytes = 1 << 20

// Decode reads the request body into v. Returns a Validation error on
// malformed JSON so handlers can pass it straight to apperr.Write.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with status 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with status 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }
