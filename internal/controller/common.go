package controller

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultLimit  = 20
	defaultOffset = 0

	actorContextKey = "actor"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

func actorFromContext(c echo.Context) entity.Actor {
	actor, _ := c.Get(actorContextKey).(entity.Actor)
	return actor
}

// serviceErrorStatus maps service sentinel errors to HTTP statuses. Anything
// unmapped is a 500: an unexpected failure, not a client mistake.
func serviceErrorStatus(err error) int {
	switch err {
	case service.ErrUserNotFound, service.ErrCompanyNotFound, service.ErrProjectNotFound,
		service.ErrBidNotFound, service.ErrNegotiationNotFound, service.ErrMilestoneNotFound:
		return http.StatusNotFound
	case service.ErrInvalidCredentials, service.ErrInvalidToken:
		return http.StatusUnauthorized
	case service.ErrNoAccessToCompany, service.ErrNoAccessToProject, service.ErrNoAccessToBid,
		service.ErrInvalidRole, service.ErrOwnProposalDecision, service.ErrCompanyNotVerified:
		return http.StatusForbidden
	case service.ErrBidAlreadyExists, service.ErrEmailTaken, service.ErrBidConflict:
		return http.StatusConflict
	case service.ErrBidTransition, service.ErrVerificationTransition, service.ErrProjectTransition,
		service.ErrMilestoneTransition, service.ErrProjectNotOpen, service.ErrInvalidAmount,
		service.ErrInvalidTax, service.ErrProposalLength, service.ErrInvalidTimeline,
		service.ErrInvalidRisk, service.ErrNegotiationResolved, service.ErrFieldNotNegotiable,
		service.ErrBidNotNegotiable, service.ErrMilestoneNotApproved, service.ErrBidNotAccepted,
		service.ErrNotesRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders the sentinel error and hands the original error
// back to echo so it lands in the server log.
func writeServiceError(c echo.Context, err error) error {
	status := serviceErrorStatus(err)
	reason := err.Error()
	if status == http.StatusInternalServerError {
		reason = "Error"
	}
	if e := c.JSON(status, errorResponse{reason}); e != nil {
		return e
	}

	return err
}

func writeBindError(c echo.Context, err error) error {
	if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
		return e
	}

	return err
}

func writeValidationError(c echo.Context, err error) error {
	if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
		return e
	}

	return err
}

func getAllErrorMessages(err error) string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Input data is not formed correctly"
	}

	var builder strings.Builder
	for _, fe := range ve {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	s, i := "", int32(0)
	if fe.Type() == reflect.TypeOf(s) {
		return getMessageForString(fe)
	}

	if fe.Type() == reflect.TypeOf(i) || fe.Type() == reflect.TypeOf(0) {
		return getMessageForInt(fe)
	}

	if fe.Type() == reflect.TypeOf(float64(0)) {
		return getMessageForInt(fe)
	}

	return "Unknown error (2)"
}

func getMessageForInt(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	}

	return "incorrect value passed"
}
