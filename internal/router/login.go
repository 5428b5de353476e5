package router

import (
	"net/http"
	"net/url"

	"github.com/openlobby/openlobby-server/internal/login"
	"github.com/labstack/echo/v4"
)

// LoginRouter serves the provider callback of the authorization-code flow.
type LoginRouter struct {
	e    *echo.Echo
	flow *login.Flow
}

func NewLoginRouter(e *echo.Echo, flow *login.Flow) *LoginRouter {
	return &LoginRouter{
		e:    e,
		flow: flow,
	}
}

func (r *LoginRouter) Bind() {
	r.e.GET("/login/callback", r.callbackHandler)
}

func (r *LoginRouter) callbackHandler(c echo.Context) error {
	if errParam := c.QueryParam("error"); errParam != "" {
		desc := c.QueryParam("error_description")
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":             errParam,
			"error_description": desc,
		})
	}

	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "state and code parameters are required"})
	}

	token, redirectURI, err := r.flow.Complete(c.Request().Context(), state, code)
	if err != nil {
		return err
	}

	target, err := url.Parse(redirectURI)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid redirect uri"})
	}

	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()

	return c.Redirect(http.StatusFound, target.String())
}
