package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/attributely-go/internal/utils"
)

var validate = newValidator()

// newValidator reporta los campos con su nombre JSON.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizer limpia el request antes de validarlo.
type normalizer interface{ normalize() }

// decode lee el body JSON, lo normaliza y lo valida; escribe el 400 si falla.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if n, ok := v.(normalizer); ok {
		n.normalize()
	}
	if err := validate.Struct(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be >= " + fe.Param()
	case "gtefield":
		return fe.Field() + " must not be before " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
