package idc

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Output formats understood by the producer API.
const (
	FormatJSON   = "json"
	FormatXML    = "xml"
	FormatBase64 = "base64"
)

// Image formats for photo IDs and badge previews.
const (
	ImageJPEG   = "jpeg"
	ImagePNG    = "png"
	ImageWebP   = "webp"
	DocumentPDF = "pdf"
)

// Authorization modes. AuthNone sends no HTTP Basic credentials.
const (
	AuthBasic = "basic"
	AuthNone  = ""
)

var (
	recordOutputFormats = []string{FormatJSON, FormatXML}
	binaryOutputFormats = []string{FormatJSON, FormatXML, FormatBase64}
	photoIDFormats      = []string{ImageJPEG, ImagePNG, ImageWebP}
	badgePreviewFormats = []string{ImageJPEG, ImagePNG, ImageWebP, DocumentPDF}
	authorizationModes  = []string{AuthBasic, AuthNone}
)

// PrimaryKey identifies one remote record by a single field/value pair,
// e.g. PrimaryKey{"idc_id_number": "123"}.
type PrimaryKey map[string]string

// Validate checks that the key holds exactly one pair with a non-empty field
// and a non-empty value.
func (pk PrimaryKey) Validate() *Error {
	err := validation.Validate(map[string]string(pk),
		validation.Required.Error("api_primary_key can't be empty."),
		validation.Length(1, 1).Error("api_primary_key must have only one argument"),
		validation.By(func(value any) error {
			for field, v := range value.(map[string]string) {
				if field == "" {
					return errors.New("api_primary_key must have a field")
				}
				if v == "" {
					return errors.New("api_primary_key must have a value")
				}
			}
			return nil
		}),
	)
	if err != nil {
		return newError(CodeInvalidPrimaryKey, "%s", err.Error())
	}
	return nil
}

// Pair returns the single field/value pair. It is only meaningful after
// Validate succeeded.
func (pk PrimaryKey) Pair() (field, value string) {
	for field, value = range pk {
		return field, value
	}
	return "", ""
}

// Fields is the record data block sent with insert and update operations.
type Fields map[string]any

func (f Fields) validate() *Error {
	if err := validation.Validate(map[string]any(f), validation.Required); err != nil {
		return newError(CodeEmptyRecordData, "api_data can't be empty.")
	}
	return nil
}

// Side selects which face of a badge is rendered in a preview.
type Side int

const (
	SideDuplex Side = iota
	SideFront
	SideBack
)

// sent reports whether the side is forwarded to the API. Duplex is the
// server default and is omitted.
func (s Side) sent() bool {
	return s == SideFront || s == SideBack
}

// Toggle is a loosely typed switch interpreted by CoerceBool.
type Toggle any

// CoerceBool interprets v as a boolean. Strings are trimmed and compared
// case-insensitively against "1", "true", "on", "yes" and "y"; any other
// string is false. Other values are true when they are not the zero value,
// and collections are true when non-empty.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return truthyString(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return CoerceBool(rv.Elem().Interface())
	case reflect.String:
		return truthyString(rv.String())
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "y":
		return true
	default:
		return false
	}
}

// validateEnum lower-cases value and checks it against allowed. The empty
// string is accepted only when allowed contains it.
func validateEnum(value string, allowed []string) (string, error) {
	normalized := strings.ToLower(value)

	in := make([]any, 0, len(allowed))
	for _, a := range allowed {
		in = append(in, a)
	}

	rules := []validation.Rule{validation.In(in...)}
	if !slices.Contains(allowed, "") {
		rules = append([]validation.Rule{validation.Required}, rules...)
	}
	return normalized, validation.Validate(normalized, rules...)
}

func validatePhotoIDFormat(format string) (string, *Error) {
	normalized, err := validateEnum(format, photoIDFormats)
	if err != nil {
		return "", newError(CodeInvalidPhotoIDFormat, "invalid api_photo_id_format: %s", normalized)
	}
	return normalized, nil
}

func validateBadgePreviewFormat(format string) (string, *Error) {
	normalized, err := validateEnum(format, badgePreviewFormats)
	if err != nil {
		return "", newError(CodeInvalidBadgePreviewFormat, "invalid api_badge_preview_format: %s", normalized)
	}
	return normalized, nil
}

// outputFormatsFor returns the output formats accepted for action.
func outputFormatsFor(action string) []string {
	switch action {
	case ActionGetPhotoID, ActionGetBadgePreview:
		return binaryOutputFormats
	default:
		return recordOutputFormats
	}
}

func validateOutputFormat(action, format string) *Error {
	if _, err := validateEnum(format, outputFormatsFor(action)); err != nil {
		return newError(CodeInvalidOutputFormat, "invalid api_output_format: %s", format)
	}
	return nil
}
