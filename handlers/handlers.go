// Package handlers provides HTTP handlers for different services across the application.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/flow-hydraulics/sticker-board/errors"
	log "github.com/sirupsen/logrus"
)

// Maximum accepted request body size
const maxBodyBytes = 1 << 20

var (
	EmptyBodyError   = errors.NewRequestError(http.StatusBadRequest, "empty body")
	InvalidBodyError = errors.NewRequestError(http.StatusBadRequest, "invalid body")
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError is a helper function for unified HTTP error handling.
// Only an errors.RequestError reaches the client as is, every other error is
// replaced by internalMsg.
func handleError(rw http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	fields := log.Fields{"error": err}
	if r != nil {
		fields["method"] = r.Method
		fields["path"] = r.URL.Path
	}

	var reqErr *errors.RequestError
	if errors.As(err, &reqErr) {
		log.WithFields(fields).Debug("Request failed")
		handleJsonResponse(rw, reqErr.StatusCode, errorResponse{reqErr.Error()})
		return
	}

	log.WithFields(fields).Error(internalMsg)
	handleJsonResponse(rw, http.StatusInternalServerError, errorResponse{internalMsg})
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Could not encode response")
	}
}

func checkNonEmptyBody(r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return EmptyBodyError
	}
	return nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(rw http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := checkNonEmptyBody(r); err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(rw, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body: %w", err),
		}
	}

	return nil
}
