package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spark-api/internal/models"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

// newValidator returns a validator with the domain tags registered.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("assignment_status", func(fl validator.FieldLevel) bool {
		return models.AssignmentStatus(fl.Field().String()).Valid()
	})
	return v
}

// bindJSON decodes and validates the request body into dest. It writes the
// error response itself and reports whether the handler should continue.
func bindJSON(c *gin.Context, v *validator.Validate, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return false
	}
	if err := v.Struct(dest); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, describeValidation(err)))
		return false
	}
	return true
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
