package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/desertthunder/sonata/internal/shared"
)

// GenericFormMessage is shown when a failed submission carries no usable message.
const GenericFormMessage = "Something went wrong. Please try again."

// FormError is a user-facing submission failure.
//
// Message is always safe to print; Fields holds per-field messages when the server sent them.
type FormError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
	Err        error
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// FormMessage returns the message to show for err, falling back to [GenericFormMessage].
func FormMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FormError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return GenericFormMessage
}

func invalidForm(msg string) *FormError {
	return &FormError{Message: msg, Err: shared.ErrInvalidInput}
}

// newFormError builds a [FormError] from a failed round trip. A transport
// error or an empty payload yields the generic message.
func newFormError(resp *APIResponse, err error) *FormError {
	if err != nil {
		return &FormError{Message: GenericFormMessage, Err: fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)}
	}

	fe := &FormError{StatusCode: resp.StatusCode, Message: GenericFormMessage, Err: sentinelFor(resp.StatusCode)}
	if resp.Envelope == nil {
		return fe
	}

	fields, list, text := parseErrors(resp.Envelope.Errors)
	fe.Fields = fields

	switch {
	case len(fields) > 0:
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		var msgs []string
		for _, k := range keys {
			msgs = append(msgs, fields[k]...)
		}
		fe.Message = strings.Join(msgs, " ")
	case len(list) > 0:
		fe.Message = strings.Join(list, " ")
	case text != "":
		fe.Message = text
	case strings.TrimSpace(resp.Envelope.Message) != "":
		fe.Message = strings.TrimSpace(resp.Envelope.Message)
	}
	return fe
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrAuthFailed
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return shared.ErrInvalidInput
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// parseErrors accepts the shapes seen in the errors field: an object of
// field to message(s), a list of messages, or a single string.
func parseErrors(raw json.RawMessage) (fields map[string][]string, list []string, text string) {
	if len(raw) == 0 {
		return nil, nil, ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		fields = make(map[string][]string)
		for k, v := range obj {
			if msgs := messages(v); len(msgs) > 0 {
				fields[k] = msgs
			}
		}
		if len(fields) == 0 {
			fields = nil
		}
		return fields, nil, ""
	}

	if msgs := messages(raw); len(msgs) > 0 {
		if len(msgs) == 1 {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return nil, nil, msgs[0]
			}
		}
		return nil, msgs, ""
	}
	return nil, nil, ""
}

func messages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}

	var ss []string
	if err := json.Unmarshal(raw, &ss); err == nil {
		out := ss[:0]
		for _, s := range ss {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
