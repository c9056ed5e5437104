package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict, KindIllegalState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindValidation:   "Invalid input.",
	KindConflict:     "The request conflicts with the current state of the resource.",
	KindNotFound:     "Resource not found.",
	KindForbidden:    "Not allowed to act on this resource.",
	KindIllegalState: "Operation not permitted in the current state.",
}

// Respond writes err as a JSON error. Non-business errors become a 500 and
// are attached to the gin context so the error reporter picks them up.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		c.JSON(StatusFor(be.Kind), HTTPError{
			Code:    be.Code,
			Message: messages[be.Kind],
			Fields:  be.Fields,
		})
		return
	}

	_ = c.Error(err)
	Internal(c, "internal_error", "Unexpected error.")
}

// FromBinding converts a gin binding error into a ValidationError with
// per-field details keyed by the JSON field name.
func FromBinding(err error) error {
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return ErrField("invalid_request", "payload", "invalid json")
	}
	if errors.As(err, &ute) {
		return ErrField("invalid_request", ute.Field, "invalid type")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		return ErrValidation("invalid_request", fields)
	}

	return ErrField("invalid_request", "payload", "invalid payload")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hhmm":
		return "must be HH:MM"
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "is invalid"
	}
}
