package controller

import (
	"net/http"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type companyRoutesHandler struct {
	companyService service.Company
	validate       *validator.Validate
}

func newCompanyRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *companyRoutesHandler {
	h := &companyRoutesHandler{companyService: services.Company, validate: v}
	outer.POST("/companies/new", h.PostCompany)
	outer.GET("/companies/:companyId", h.GetCompany)
	outer.POST("/companies/:companyId/documents", h.SubmitDocument)

	outer.GET("/companies/verification/queue", h.GetReviewQueue)
	outer.PUT("/companies/:companyId/verification/review", h.StartReview)
	outer.PUT("/companies/:companyId/verification/decision", h.Decide)

	return h
}

type postCompanyInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Website     string `json:"website" validate:"omitempty,url,max=500"`
}

// /companies/new
func (h *companyRoutesHandler) PostCompany(c echo.Context) error {
	var input postCompanyInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	model := &entity.CreateCompanyInput{
		Name:        input.Name,
		Description: input.Description,
		Website:     input.Website,
	}

	company, err := h.companyService.CreateCompany(c.Request().Context(), actorFromContext(c), model)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusCreated, company); e != nil {
		return e
	}

	return nil
}

func (h *companyRoutesHandler) writeCompany(c echo.Context, company *entity.CompanyOutputModel, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, company); e != nil {
		return e
	}

	return nil
}

// /companies/:companyId
func (h *companyRoutesHandler) GetCompany(c echo.Context) error {
	company, err := h.companyService.GetCompanyById(c.Request().Context(), c.Param("companyId"))
	return h.writeCompany(c, company, err)
}

type submitDocumentInput struct {
	Kind    string `json:"kind" validate:"required,oneof=registration_certificate tax_id portfolio other"`
	FileURL string `json:"fileUrl" validate:"required,url,max=500"`
}

// /companies/:companyId/documents
func (h *companyRoutesHandler) SubmitDocument(c echo.Context) error {
	var input submitDocumentInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	company, err := h.companyService.SubmitDocument(c.Request().Context(), actorFromContext(c),
		c.Param("companyId"), input.Kind, input.FileURL)
	return h.writeCompany(c, company, err)
}

// /companies/:companyId/verification/review
func (h *companyRoutesHandler) StartReview(c echo.Context) error {
	company, err := h.companyService.StartVerificationReview(c.Request().Context(), actorFromContext(c), c.Param("companyId"))
	return h.writeCompany(c, company, err)
}

type verificationDecisionInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" validate:"max=1000"`
}

// /companies/:companyId/verification/decision
func (h *companyRoutesHandler) Decide(c echo.Context) error {
	var input verificationDecisionInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	company, err := h.companyService.DecideVerification(c.Request().Context(), actorFromContext(c),
		c.Param("companyId"), input.Approve, input.Notes)
	return h.writeCompany(c, company, err)
}

type reviewQueueInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /companies/verification/queue
func (h *companyRoutesHandler) GetReviewQueue(c echo.Context) error {
	input := reviewQueueInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	companies, err := h.companyService.GetCompaniesAwaitingReview(c.Request().Context(), actorFromContext(c), pg)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, companies); e != nil {
		return e
	}

	return nil
}
