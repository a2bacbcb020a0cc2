package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// MaxBodyBytes bounds request bodies accepted by [DecodeJSON].
const MaxBodyBytes = 32 << 20

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    herrors.Code `json:"code"`
	Message string       `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] with the status from [StatusFor].
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	detail := ErrorDetail{Code: herrors.GetCode(err), Message: herrors.UserMessage(err)}
	if detail.Code == "" {
		detail.Code = herrors.ErrCodeInternal
		detail.Message = http.StatusText(status)
	}
	WriteJSON(w, status, ErrorBody{Error: detail})
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	switch herrors.GetCode(err) {
	case herrors.ErrCodeInvalidInput, herrors.ErrCodeInvalidConfig,
		herrors.ErrCodeInvalidFormat, herrors.ErrCodeInvalidMetric:
		return http.StatusBadRequest
	case herrors.ErrCodeMissingMetric:
		return http.StatusUnprocessableEntity
	case herrors.ErrCodeNotFound, herrors.ErrCodeFileNotFound, herrors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case herrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into v. Unknown fields, trailing
// data and bodies over [MaxBodyBytes] are rejected with INVALID_FORMAT.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return herrors.New(herrors.ErrCodeInvalidFormat, "request body exceeds %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return herrors.New(herrors.ErrCodeInvalidFormat, "request body is empty")
		}
		return herrors.Wrap(herrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if dec.More() {
		return herrors.New(herrors.ErrCodeInvalidFormat, "request body has trailing data")
	}
	return nil
}

// Errorf is shorthand for an INVALID_INPUT error.
func Errorf(format string, args ...any) error {
	return herrors.New(herrors.ErrCodeInvalidInput, format, args...)
}
