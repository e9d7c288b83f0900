package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/estatehub/estate-hub-api/internal/httputil"
)

// payloadValidator validates typed request payloads at the boundary and
// translates failures into user-facing field messages.
type payloadValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newPayloadValidator() *payloadValidator {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = entranslations.RegisterDefaultTranslations(validate, trans)

	return &payloadValidator{
		validate: validate,
		trans:    trans,
	}
}

// decodeAndValidate decodes the JSON body into v and validates it. On
// failure it writes a 400 response and returns false.
func (pv *payloadValidator) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return pv.check(w, v)
}

// check validates an already-populated payload struct.
func (pv *payloadValidator) check(w http.ResponseWriter, v any) bool {
	if err := pv.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			messages := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				messages = append(messages, fe.Translate(pv.trans))
			}
			httputil.WriteError(w, http.StatusBadRequest, strings.Join(messages, "; "))
			return false
		}

		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}
