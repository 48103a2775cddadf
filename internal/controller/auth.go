package controller

import (
	"net/http"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type authRoutesHandler struct {
	authService service.Auth
	validate    *validator.Validate
}

func newAuthRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *authRoutesHandler {
	h := &authRoutesHandler{authService: services.Auth, validate: v}
	outer.POST("/auth/register", h.Register)
	outer.POST("/auth/login", h.Login)

	return h
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=client company"`
}

// /auth/register
func (h *authRoutesHandler) Register(c echo.Context) error {
	var input registerInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.authService.Register(c.Request().Context(), input.Email, input.Name, input.Password, entity.Role(input.Role))
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusCreated, user); e != nil {
		return e
	}

	return nil
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginOutput struct {
	Token string `json:"token"`
}

// /auth/login
func (h *authRoutesHandler) Login(c echo.Context) error {
	var input loginInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	token, err := h.authService.Login(c.Request().Context(), input.Email, input.Password)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, loginOutput{Token: token}); e != nil {
		return e
	}

	return nil
}
