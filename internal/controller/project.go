package controller

import (
	"net/http"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type projectRoutesHandler struct {
	projectService service.Project
	validate       *validator.Validate
}

func newProjectRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *projectRoutesHandler {
	h := &projectRoutesHandler{projectService: services.Project, validate: v}
	outer.POST("/projects/new", h.PostProject)
	outer.GET("/projects/open", h.GetOpenProjects)
	outer.GET("/projects/my", h.GetClientProjects)
	outer.GET("/projects/:projectId", h.GetProject)
	outer.PUT("/projects/:projectId/post", h.Publish)
	outer.PUT("/projects/:projectId/cancel", h.Cancel)
	outer.PUT("/projects/:projectId/complete", h.Complete)

	return h
}

type postProjectInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required,max=5000"`
	BudgetMin    float64  `json:"budgetMin" validate:"gte=0"`
	BudgetMax    float64  `json:"budgetMax" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	TimelineDays int      `json:"timelineDays" validate:"gte=0"`
	Attachments  []string `json:"attachments"`
}

// /projects/new
func (h *projectRoutesHandler) PostProject(c echo.Context) error {
	var input postProjectInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	model := &entity.CreateProjectInput{
		Title:        input.Title,
		Description:  input.Description,
		BudgetMin:    input.BudgetMin,
		BudgetMax:    input.BudgetMax,
		Currency:     input.Currency,
		TimelineDays: input.TimelineDays,
		Attachments:  input.Attachments,
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), actorFromContext(c), model)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusCreated, project); e != nil {
		return e
	}

	return nil
}

func (h *projectRoutesHandler) writeProject(c echo.Context, project *entity.ProjectOutputModel, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, project); e != nil {
		return e
	}

	return nil
}

// /projects/:projectId
func (h *projectRoutesHandler) GetProject(c echo.Context) error {
	project, err := h.projectService.GetProjectById(c.Request().Context(), c.Param("projectId"))
	return h.writeProject(c, project, err)
}

// /projects/:projectId/post
func (h *projectRoutesHandler) Publish(c echo.Context) error {
	project, err := h.projectService.PostProject(c.Request().Context(), actorFromContext(c), c.Param("projectId"))
	return h.writeProject(c, project, err)
}

// /projects/:projectId/cancel
func (h *projectRoutesHandler) Cancel(c echo.Context) error {
	project, err := h.projectService.CancelProject(c.Request().Context(), actorFromContext(c), c.Param("projectId"))
	return h.writeProject(c, project, err)
}

// /projects/:projectId/complete
func (h *projectRoutesHandler) Complete(c echo.Context) error {
	project, err := h.projectService.CompleteProject(c.Request().Context(), actorFromContext(c), c.Param("projectId"))
	return h.writeProject(c, project, err)
}

type listProjectsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

func (h *projectRoutesHandler) bindListInput(c echo.Context) (listProjectsInput, error) {
	input := listProjectsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return input, err
	}

	return input, h.validate.Struct(input)
}

// /projects/my
func (h *projectRoutesHandler) GetClientProjects(c echo.Context) error {
	input, err := h.bindListInput(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	projects, err := h.projectService.GetClientProjects(c.Request().Context(), actorFromContext(c), pg)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, projects); e != nil {
		return e
	}

	return nil
}

// /projects/open
func (h *projectRoutesHandler) GetOpenProjects(c echo.Context) error {
	input, err := h.bindListInput(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	projects, err := h.projectService.GetOpenProjects(c.Request().Context(), pg)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, projects); e != nil {
		return e
	}

	return nil
}
