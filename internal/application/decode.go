package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMalformedPayload is returned when the payload is not valid JSON or
	// does not have the shape of an application document.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMissingField is returned when a required payload field is absent.
	ErrMissingField = errors.New("missing required field")
)

// maxEncodingDepth bounds how many times a payload may be wrapped in a
// JSON string.
const maxEncodingDepth = 3

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Exact JSON key sets of the payload objects. encoding/json also matches
// keys case-insensitively; keys that only fold-match are dropped so that
// "Title" does not stand in for "title".
var (
	documentKeys    = jsonKeys(reflect.TypeFor[Document]())
	applicationKeys = jsonKeys(reflect.TypeFor[Application]())
	projectKeys     = jsonKeys(reflect.TypeFor[Project]())
)

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())

	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}

	return keys
}

// UnmarshalJSON decodes a document, matching keys case-sensitively.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document

	return decodeExact(data, documentKeys, (*plain)(d))
}

// UnmarshalJSON decodes an application, matching keys case-sensitively.
func (a *Application) UnmarshalJSON(data []byte) error {
	type plain Application

	return decodeExact(data, applicationKeys, (*plain)(a))
}

// UnmarshalJSON decodes a project, matching keys case-sensitively.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project

	return decodeExact(data, projectKeys, (*plain)(p))
}

// decodeExact unmarshals the object in data into v after removing keys that
// match one of known only when case is ignored.
func decodeExact(data []byte, known map[string]struct{}, v any) error {
	var fields map[string]json.RawMessage

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}

	dropped := false

	for key := range fields {
		if _, ok := known[key]; ok {
			continue
		}

		for name := range known {
			if strings.EqualFold(key, name) {
				delete(fields, key)

				dropped = true

				break
			}
		}
	}

	if dropped {
		data, err = json.Marshal(fields)
		if err != nil {
			return err
		}
	}

	return json.Unmarshal(data, v)
}

// Decode parses a payload from its JSON text. The text may be an object
// or a JSON string whose content is the object.
func Decode(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)

	for range maxEncodingDepth {
		if len(data) == 0 || data[0] != '"' {
			break
		}

		var inner string

		err := json.Unmarshal(data, &inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}

		data = bytes.TrimSpace([]byte(inner))
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	if data[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}

	var doc Document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	err = doc.Validate()
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// DecodeValue decodes a payload that is either JSON text (string or
// []byte) or an already parsed JSON object.
func DecodeValue(v any) (*Document, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	case string:
		return Decode([]byte(val))
	case []byte:
		return Decode(val)
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}

		return Decode(data)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrMalformedPayload, v)
	}
}

// Validate checks that all required fields are present.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldPath(fe.Namespace()))
	}

	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(fields, ", "))
}

// fieldPath drops the root type name from a validator namespace,
// e.g. "Document.application.project.title" -> "application.project.title".
func fieldPath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}

	return rest
}
