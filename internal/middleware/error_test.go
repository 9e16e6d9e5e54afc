package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var errorStatusCodes = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusServiceUnavailable,
}

func TestProperty_ErrorsHaveConsistentStructure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every error response carries code, message and timestamp", prop.ForAll(
		func(message string, codeIndex int) bool {
			if message == "" {
				message = "something went wrong"
			}
			statusCode := errorStatusCodes[codeIndex%len(errorStatusCodes)]

			w := httptest.NewRecorder()
			RespondWithError(w, statusCode, message)

			if w.Code != statusCode {
				return false
			}
			if w.Header().Get("Content-Type") != "application/json" {
				return false
			}

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}
			if response.Error.Code == "" || response.Error.Message != message {
				return false
			}
			if _, err := time.Parse(time.RFC3339, response.Error.Timestamp); err != nil {
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.IntRange(0, len(errorStatusCodes)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErrorDetails(w, http.StatusBadRequest, "review rejected", map[string]interface{}{
		"rating": "rating is required to publish",
	})

	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if response.Error.Details == nil {
		t.Fatal("details missing from response")
	}
	if response.Error.Details["rating"] != "rating is required to publish" {
		t.Errorf("detail not carried through: %+v", response.Error.Details)
	}
}

func TestRespondWithValidationErrors(t *testing.T) {
	errors := []ValidationError{
		{Field: "rating", Message: "Value must be less than or equal to 5"},
		{Field: "goodpoint_comment", Message: "Value is too short"},
	}

	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, errors)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if response.Error.Code == "" || response.Error.Message == "" {
		t.Error("validation envelope missing code or message")
	}
	if _, ok := response.Error.Details["validation_errors"]; !ok {
		t.Error("validation_errors missing from details")
	}
}

func TestProperty_JSONResponsesRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("JSON responses are parseable and carry the payload", prop.ForAll(
		func(data map[string]string) bool {
			w := httptest.NewRecorder()
			RespondWithJSON(w, http.StatusOK, data)

			if w.Header().Get("Content-Type") != "application/json" {
				return false
			}

			var result map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				return false
			}
			for k, v := range data {
				if result[k] != v {
					return false
				}
			}
			return true
		},
		gen.MapOf(gen.AlphaString(), gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
