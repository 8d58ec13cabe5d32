package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/middleware"
	"github.com/warklp/saasBarber-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest,
			apierror.Fail(apierror.Validation("invalid JSON: "+err.Error())))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var fields []string
		for _, fe := range err.(validator.ValidationErrors) {
			fields = append(fields, fe.Field()+" failed "+fe.Tag())
		}
		c.JSON(http.StatusUnprocessableEntity,
			apierror.Fail(apierror.Validation(strings.Join(fields, "; "))))
		return false
	}
	return true
}

// bindQuery binds and validates query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail(apierror.Validation(err.Error())))
		return false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			apierror.Fail(apierror.Validation(err.Error())))
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			apierror.Fail(apierror.Validation(name+" is not a valid UUID")))
		return uuid.Nil, false
	}
	return id, true
}

// principal builds the service-layer actor from the JWT claims set by the
// auth middleware.
func principal(c *gin.Context) service.Principal {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return service.Principal{}
	}
	return service.Principal{UserID: claims.UserID, Role: claims.Role}
}

// respondErr maps a service error onto the envelope with its taxonomy status.
func respondErr(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	c.JSON(apiErr.Status(), apierror.Fail(apiErr))
}
