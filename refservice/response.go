package refservice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the body of every response that is not a student record.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// writeJSON sends data with the given status. The status has already been sent by the time
// encoding can fail, so a failure is only logged.
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", slog.Int("status", status), slog.String("error", err.Error()))
	}
}

func generalError(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}

func validationError(errs validator.ValidationErrors) Response {
	var messages []string
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("field %s must be a date in the form %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return Response{Status: StatusError, Error: strings.Join(messages, ", ")}
}
