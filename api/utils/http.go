// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pollvenue/venue/poll"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise the error is mapped through PollErrorStatus.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// PollErrorStatus maps a poll operation error to an http status code.
// Rejections for malformed input read as bad requests, authorization
// failures as forbidden, and state conflicts as conflict.
func PollErrorStatus(err error) int {
	switch poll.CodeOf(err) {
	case poll.CodeUnauthorized:
		return http.StatusForbidden
	case poll.CodeInvalidSide, poll.CodeInvalidFunds, poll.CodeBelowMinimumBet, poll.CodeNoChange:
		return http.StatusBadRequest
	case poll.CodeNotLive, poll.CodeTooEarlyToFinish, poll.CodeTooEarlyToReset,
		poll.CodeAlreadyFinished, poll.CodeAlreadyReverted, poll.CodeAlreadyReclaimed,
		poll.CodeAlreadyVoted, poll.CodeNotVoted, poll.CodeNotClaimable,
		poll.CodeNothingToClaim, poll.CodeNothingToCancel, poll.CodeBelowThreshold:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if status := PollErrorStatus(err); status != http.StatusInternalServerError {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(M{
				"code":    poll.CodeOf(err).String(),
				"message": err.Error(),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v interface{}) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]interface{}.
type M map[string]interface{}
