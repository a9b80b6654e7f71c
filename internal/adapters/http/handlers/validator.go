// Package handlers содержит HTTP handlers для REST API.
//
// Handler - это Adapter в терминах Clean Architecture:
// - Принимает HTTP запрос
// - Преобразует в Query DTO
// - Вызывает Use Case
// - Отдаёт DTO или передаёт ошибку в c.Error для error interceptor
package handlers

import (
	"errors"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	domainerrors "github.com/Haleralex/quefilme/internal/domain/errors"
)

// ============================================
// Custom Validator Setup
// ============================================

var setupOnce sync.Once

// SetupValidator настраивает валидатор Gin: имена полей из json/form/uri тегов,
// правила notblank и any_notblank, запрет неизвестных полей в JSON.
func SetupValidator() {
	setupOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
			_ = v.RegisterValidation("notblank", validators.NotBlank)
			_ = v.RegisterValidation("any_notblank", validateAnyNotBlank)
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateAnyNotBlank: в списке строк есть хотя бы одна непустая.
func validateAnyNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		if item := field.Index(i); item.Kind() == reflect.String && strings.TrimSpace(item.String()) != "" {
			return true
		}
	}
	return false
}

// ============================================
// Validation Error Translation
// ============================================

const (
	codeUnknownField = "unrecognized_keys"
	codeInvalidType  = "invalid_type"
	codeInvalidBody  = "invalid_body"
)

// toValidationErrors переводит ошибку биндинга в доменные ValidationErrors.
func toValidationErrors(err error) domainerrors.ValidationErrors {
	var out domainerrors.ValidationErrors

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out.Add(fe.Field(), validationMessage(fe), fe.Tag())
		}
		return out
	}

	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		if unquoted, uerr := strconv.Unquote(name); uerr == nil {
			name = unquoted
		}
		out.Add(name, "Unrecognized key", codeUnknownField)
		return out
	}

	if strings.HasPrefix(msg, "json: cannot unmarshal") {
		out.Add("body", "Invalid type", codeInvalidType)
		return out
	}

	out.Add("body", "Invalid request body", codeInvalidBody)
	return out
}

// validationMessage возвращает человекочитаемое сообщение об ошибке.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "This field must not be blank"
	case "any_notblank":
		return "At least one non-blank value is required"
	case "min":
		return "Value is too short (minimum: " + fe.Param() + ")"
	case "max":
		return "Value is too long (maximum: " + fe.Param() + ")"
	default:
		return "Invalid value"
	}
}

// rejectUnknownQuery returns a ValidationErrors for every query key outside allowed.
func rejectUnknownQuery(c *gin.Context, allowed ...string) error {
	var out domainerrors.ValidationErrors
	keys := make([]string, 0, len(c.Request.URL.Query()))
	for key := range c.Request.URL.Query() {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !slices.Contains(allowed, key) {
			out.Add(key, "Unrecognized key", codeUnknownField)
		}
	}
	if out.HasErrors() {
		return out
	}
	return nil
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON биндит JSON тело. On failure the ValidationErrors are attached with
// c.Error and false is returned; the handler must stop.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(toValidationErrors(err))
		return false
	}
	return true
}

// BindQuery биндит query параметры; ключи вне allowed отклоняются.
func BindQuery[T any](c *gin.Context, req *T, allowed ...string) bool {
	if err := rejectUnknownQuery(c, allowed...); err != nil {
		_ = c.Error(err)
		return false
	}
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(toValidationErrors(err))
		return false
	}
	return true
}

// BindURI биндит path параметры.
func BindURI[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindUri(req); err != nil {
		_ = c.Error(toValidationErrors(err))
		return false
	}
	return true
}
