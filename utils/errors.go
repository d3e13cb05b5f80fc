package utils

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithProblem(statusCode, iris.NewProblem().Title(title).Detail(detail))
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An internal server error occurred.",
		ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email already registered.", ctx)
}

func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := wrapValidationErrors(errs)

		ctx.StopWithProblem(
			iris.StatusBadRequest,
			iris.NewProblem().Title("Validation error").
				Detail("One or more fields failed to be validated").
				Key("errors", validationErrors))
		return
	}

	CreateInternalServerError(ctx)
}

func wrapValidationErrors(errs validator.ValidationErrors) []validationError {
	validationErrors := make([]validationError, 0, len(errs))
	for _, validationErr := range errs {
		validationErrors = append(validationErrors, validationError{
			ActualTag: validationErr.ActualTag(),
			Namespace: validationErr.Namespace(),
			Kind:      validationErr.Kind().String(),
			Type:      validationErr.Type().String(),
			Value:     validationErr.Value(),
			Param:     validationErr.Param(),
		})
	}

	return validationErrors
}

type validationError struct {
	ActualTag string      `json:"tag"`
	Namespace string      `json:"namespace"`
	Kind      string      `json:"kind"`
	Type      string      `json:"type"`
	Value     interface{} `json:"value"`
	Param     string      `json:"param"`
}

const fallbackErrorMessage = "An unexpected error occurred."

// ErrorMessage normalizes anything caught on an error path into a
// human-readable string. The chain is: error value, "message" field,
// "description" field, JSON rendering, literal fallback. Responses built
// with it never carry a serialized object dump.
func ErrorMessage(v interface{}) string {
	switch e := v.(type) {
	case nil:
		return fallbackErrorMessage
	case error:
		if msg := strings.TrimSpace(e.Error()); msg != "" {
			return msg
		}
		return fallbackErrorMessage
	case string:
		if msg := strings.TrimSpace(e); msg != "" {
			return msg
		}
		return fallbackErrorMessage
	case map[string]interface{}:
		if msg, ok := e["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
		if msg, ok := e["description"].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}

	raw, err := json.Marshal(v)
	if err != nil || len(raw) == 0 {
		return fallbackErrorMessage
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" || msg == "{}" || msg == "null" {
		return fallbackErrorMessage
	}
	return msg
}
