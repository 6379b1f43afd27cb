package handler

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"harvesthub/internal/errors"
	"harvesthub/internal/model"
)

// UserContextKey is the echo context key holding the authenticated *model.User.
const UserContextKey = "user"

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CurrentUser returns the user resolved by the auth middleware, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}

// httpError converts a service error into the standard error body.
func httpError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindAndValidate decodes the request into req and runs struct validation.
// Failures of either step are reported as invalid requests.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(fmt.Errorf("%w: invalid request body", errors.ErrInvalidRequest))
	}
	if err := c.Validate(req); err != nil {
		return httpError(fmt.Errorf("%w: %s", errors.ErrInvalidRequest, describeValidation(err)))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return strings.Join(fields, ", ")
}
