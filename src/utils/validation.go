package utils

import (
	"errors"
	"io"
	"maps"
	"net/http"
	"quest/src/errs"
	"regexp"
	"slices"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	enLocales "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

var translator ut.Translator

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.@+\-]+$`)

func addCustomTag(v *validator.Validate, tag string, validate func(field string) bool, translation string) {
	v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		fieldStr := fl.Field().String()
		return validate(fieldStr)
	})

	v.RegisterTranslation(tag, translator, func(ut ut.Translator) error {
		return ut.Add(tag, translation, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		en := enLocales.New()
		uni := ut.New(en, en)

		translator, _ = uni.GetTranslator("en")
		enTranslations.RegisterDefaultTranslations(v, translator)

		// same character set the admin accepts for usernames
		addCustomTag(v, "username", usernameRe.MatchString,
			"{0} can contain only letters, digits and @/./+/-/_ characters.")

		zap.L().Info("Validator initialized")
	}
}

func checkValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		translated := slices.Collect(maps.Values(ve.Translate(translator)))
		sort.Strings(translated)
		return errs.UserErrors(translated, http.StatusBadRequest)
	} else if errors.Is(err, io.EOF) {
		return errs.UserError("Request body is required", http.StatusBadRequest)
	}

	return errs.UserError("Failed to parse and decode request body", http.StatusBadRequest)
}

// ValidateForm binds by content type, so JSON bodies and urlencoded forms both work.
func ValidateForm(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return checkValidationErrors(err)
	}
	return nil
}
