// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so user input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// writeJSON encodes v with status. Encoding failures become a bare 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes the encoded body with FNV-1a.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondJSON sends a wrapped APIResponse.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	writeJSON(w, status, response)
}

// respondSuccess wraps data in a success response timed from start.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response. err is logged, never returned to
// the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// respondValidation sends a 400 carrying validation details.
func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// validateRequest checks v's validate tags; nil means it passed.
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.Struct(v); verr != nil {
		return verr.APIError()
	}
	return nil
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSONBody decodes a size-limited JSON body into v.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// parseIDParam parses a positive int64 path parameter.
func parseIDParam(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// getIntParam extracts an optional integer query parameter. ok is false
// when the value is present but not an integer.
func getIntParam(r *http.Request, key string, defaultValue int) (value int, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// invalidParam builds a VALIDATION_ERROR for a malformed query parameter.
func invalidParam(field, message string) *models.APIError {
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}
