package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hrcontracts/internal/apperror"
	"hrcontracts/internal/requestctx"
	"hrcontracts/internal/transport/http/api"
)

var (
	payloadValidator = newPayloadValidator()
	labelCaser       = cases.Title(language.Spanish)
)

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Label renders a snake_case json key as a human label: "fecha_fin" -> "Fecha Fin".
func Label(field string) string {
	return labelCaser.String(strings.ReplaceAll(field, "_", " "))
}

// Validator accumulates field issues for one request payload.
type Validator struct {
	issues apperror.ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues.Add(field, reason)
}

// Struct runs the validate tags of payload.
func (v *Validator) Struct(payload any) {
	err := payloadValidator.Struct(payload)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), reasonFor(fe))
	}
}

func reasonFor(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " es obligatorio"
	case "email":
		return label + " debe ser un correo válido"
	case "oneof":
		return label + " debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return label + " debe ser un identificador válido"
	case "min":
		return label + " debe tener al menos " + fe.Param()
	case "max":
		return label + " no puede superar " + fe.Param()
	}
	return label + " no es válido"
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(strings.TrimSpace(candidate)) {
			return
		}
	}
	v.Add(field, reason)
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, Label(field)+" debe tener formato YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}

// OptionalDate is Date for fields that may be omitted.
func (v *Validator) OptionalDate(field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues.Fields) > 0
}

func (v *Validator) Err() error {
	if v == nil {
		return nil
	}
	return v.issues.OrNil()
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	err := v.Err()
	if err == nil {
		return false
	}
	FailValidation(w, requestID, v.issues.Fields)
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []apperror.FieldIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}

// Decode reads a JSON body into dst and writes a 400 when it is malformed.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestctx.GetRequestID(r.Context()))
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
	return false
}
