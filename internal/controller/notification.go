package controller

import (
	"net/http"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/i18n"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type notificationRoutesHandler struct {
	notificationService service.Notification
	validate            *validator.Validate
}

func newNotificationRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *notificationRoutesHandler {
	h := &notificationRoutesHandler{notificationService: services.Notification, validate: v}
	outer.GET("/notifications", h.GetNotifications)
	outer.PUT("/notifications/:notificationId/read", h.MarkRead)

	return h
}

type getNotificationsInput struct {
	Lang   string `query:"lang" validate:"omitempty,oneof=en ur"`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

// /notifications
func (h *notificationRoutesHandler) GetNotifications(c echo.Context) error {
	input := getNotificationsInput{Lang: i18n.DefaultLang, Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	notifications, err := h.notificationService.GetUserNotifications(c.Request().Context(), actorFromContext(c), input.Lang, pg)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, notifications); e != nil {
		return e
	}

	return nil
}

// /notifications/:notificationId/read
func (h *notificationRoutesHandler) MarkRead(c echo.Context) error {
	err := h.notificationService.MarkRead(c.Request().Context(), actorFromContext(c), c.Param("notificationId"))
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.NoContent(http.StatusNoContent); e != nil {
		return e
	}

	return nil
}
