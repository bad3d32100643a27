// Package response builds the JSON bodies shared by all HTTP handlers.
// Errors always carry a "message" field the client can show verbatim.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Error is the body of every non-2xx response.
type Error struct {
	Message string `json:"message"`
}

func Err(msg string) Error {
	return Error{Message: msg}
}

// Ack is the body of operations with no payload to return.
type Ack struct {
	Message string `json:"message"`
}

func OK(msg string) Ack {
	return Ack{Message: msg}
}

// ValidationError flattens validator violations into one message.
func ValidationError(errs validator.ValidationErrors) Error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field %s must be %s characters", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error{Message: strings.Join(msgs, ", ")}
}
