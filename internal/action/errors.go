package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// StatusCoder is implemented by errors that carry an HTTP-like status.
type StatusCoder interface {
	StatusCode() int
}

// JSONBodier is implemented by errors that can return their response body.
type JSONBodier interface {
	JSON() ([]byte, error)
}

// StatusOf returns the status carried by err, or 0.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// Category is the user-facing class of a failed action.
type Category int

const (
	CategoryInternal Category = iota
	CategoryBadRequest
	CategoryForbidden
	CategoryNotFound
	CategoryTimeout
)

func (c Category) String() string {
	switch c {
	case CategoryBadRequest:
		return "bad_request"
	case CategoryForbidden:
		return "forbidden"
	case CategoryNotFound:
		return "not_found"
	case CategoryTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Classify maps a status to a category. Anything unlisted, including 0
// for errors without a status, is internal.
func Classify(status int) Category {
	switch status {
	case 400:
		return CategoryBadRequest
	case 401, 403:
		return CategoryForbidden
	case 404:
		return CategoryNotFound
	case 408, 502, 504:
		return CategoryTimeout
	default:
		return CategoryInternal
	}
}

// Message returns the string for c.
func (m Messages) Message(c Category) string {
	switch c {
	case CategoryBadRequest:
		return m.BadRequest
	case CategoryForbidden:
		return m.Forbidden
	case CategoryNotFound:
		return m.NotFound
	case CategoryTimeout:
		return m.Timeout
	default:
		return m.InternalServerError
	}
}

// ToastMessage returns the message shown for err.
func ToastMessage(err error, m Messages) string {
	return m.Message(Classify(StatusOf(err)))
}

// FieldErrors is the list of server messages for one field.
type FieldErrors struct {
	Field    string
	Messages []string
}

// ServerErrors are field messages in the order the server sent them.
type ServerErrors []FieldErrors

// Map returns the messages keyed by field name, for SetCustomValidity.
func (s ServerErrors) Map() map[string][]string {
	out := make(map[string][]string, len(s))
	for _, fe := range s {
		out[fe.Field] = append(out[fe.Field], fe.Messages...)
	}
	return out
}

// First returns the first field that has a message.
func (s ServerErrors) First() (FieldErrors, bool) {
	for _, fe := range s {
		if len(fe.Messages) > 0 {
			return fe, true
		}
	}
	return FieldErrors{}, false
}

// ParseServerErrors decodes a 400 body shaped
//
//	{"errors": {"<field>": "msg" | ["msg", ...] | [{"text": "msg"}, ...]}}
//
// Field names get their first character lowercased. Entries that are not
// non-empty strings are dropped. A body without errors yields nil.
func ParseServerErrors(body []byte) (ServerErrors, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode error payload: %w", err)
	}
	raw, ok := envelope["errors"]
	if !ok || len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode error payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to decode error payload: errors is not an object")
	}

	var out ServerErrors
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode error payload: %w", err)
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode error payload: field %q: %w", key, err)
		}
		out = append(out, FieldErrors{Field: lowerFirst(key), Messages: flattenMessages(value)})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func flattenMessages(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	var out []string
	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Text any `json:"text"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if s, ok := obj.Text.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
