package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"carhub/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError translates the service error taxonomy into the response
// envelope. NotFound deliberately carries no hint about whether the record
// exists under another owner.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, models.Response{
			Message: "The given data was invalid",
			Errors:  verr.Fields,
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.Response{
			Message: "Record not found",
		})
	case errors.Is(err, models.ErrDuplicateLicensePlate):
		c.JSON(http.StatusConflict, models.Response{
			Message: "License plate already registered",
			Errors:  map[string][]string{"license_plate": {"license plate already registered"}},
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.Response{
			Message: "Invalid email or password",
		})
	case errors.Is(err, models.ErrSelfDelete):
		c.JSON(http.StatusBadRequest, models.Response{
			Message: "You cannot delete your own account",
		})
	default:
		c.JSON(http.StatusInternalServerError, models.Response{
			Message: "Something went wrong",
		})
	}
}

// respondBindingError converts gin's binding failures into the same
// field-keyed error map the service layer produces.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	fields := map[string][]string{}
	for _, fe := range verrs {
		field := toSnakeCase(fe.Field())
		fields[field] = append(fields[field], bindingMessage(field, fe))
	}

	c.JSON(http.StatusUnprocessableEntity, models.Response{
		Message: "The given data was invalid",
		Errors:  fields,
	})
}

func bindingMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ReplaceAll(field, "_", " "))
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		return "does not match"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func currentUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}
