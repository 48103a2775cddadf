package controller

import (
	"net/http"
	"strings"

	"marketplace-api/internal/payment"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, payments *payment.Adapter) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newAuthRoutesHandler(api, services, validate)

	authed := api.Group("", authMiddleware(services.Auth))
	newCompanyRoutesHandler(authed, services, validate)
	newProjectRoutesHandler(authed, services, validate)
	newBidRoutesHandler(authed, services, validate)
	newNotificationRoutesHandler(authed, services, validate)
	newPaymentRoutesHandler(authed, payments, validate)
}

func authMiddleware(auth service.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Missing bearer token"})
			}

			actor, err := auth.ParseToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Invalid or expired token"})
			}

			c.Set(actorContextKey, actor)

			return next(c)
		}
	}
}
