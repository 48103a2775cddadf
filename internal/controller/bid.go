package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/my", h.GetCompanyBids)
	outer.GET("/bids/received", h.GetClientBids)
	outer.GET("/bids/:bidId", h.GetBid)
	outer.PATCH("/bids/:bidId/edit", h.EditBid)

	outer.PUT("/bids/:bidId/submit", h.SubmitBid)
	outer.PUT("/bids/:bidId/withdraw", h.WithdrawBid)
	outer.PUT("/bids/:bidId/review", h.MarkUnderReview)
	outer.PUT("/bids/:bidId/accept", h.AcceptBid)
	outer.PUT("/bids/:bidId/reject", h.RejectBid)
	outer.PUT("/bids/:bidId/shortlist", h.ShortlistBid)

	outer.POST("/bids/:bidId/negotiations", h.ProposeNegotiation)
	outer.PUT("/bids/:bidId/negotiations/:entryId/accept", h.AcceptNegotiation)
	outer.PUT("/bids/:bidId/negotiations/:entryId/reject", h.RejectNegotiation)
	outer.POST("/bids/:bidId/negotiations/:entryId/counter", h.CounterNegotiation)

	outer.PUT("/bids/:bidId/milestones/:milestoneId/start", h.StartMilestone)
	outer.PUT("/bids/:bidId/milestones/:milestoneId/complete", h.CompleteMilestone)
	outer.PUT("/bids/:bidId/milestones/:milestoneId/approve", h.ApproveMilestone)
	outer.PUT("/bids/:bidId/milestones/:milestoneId/paid", h.MarkMilestonePaid)

	outer.GET("/projects/:projectId/bids", h.GetProjectBids)

	return h
}

type timelineInput struct {
	Value int    `json:"value" validate:"required,min=1"`
	Unit  string `json:"unit" validate:"required,oneof=days weeks months"`
}

type riskInput struct {
	Description string `json:"description" validate:"required,max=500"`
	Probability string `json:"probability" validate:"required,oneof=low medium high"`
	Impact      string `json:"impact" validate:"required,oneof=low medium high"`
}

type milestoneCreateInput struct {
	Title   string     `json:"title" validate:"required,max=200"`
	Amount  float64    `json:"amount" validate:"gte=0"`
	DueDate *time.Time `json:"dueDate"`
}

type postBidInput struct {
	ProjectId     string                 `json:"projectId" validate:"required,uuid"`
	CompanyId     string                 `json:"companyId" validate:"required,uuid"`
	Amount        float64                `json:"amount" validate:"gte=0"`
	Currency      string                 `json:"currency" validate:"omitempty,len=3"`
	TaxPercentage float64                `json:"taxPercentage" validate:"gte=0,lte=100"`
	Proposal      string                 `json:"proposal" validate:"required"`
	Deliverables  []string               `json:"deliverables"`
	TeamStructure string                 `json:"teamStructure" validate:"max=2000"`
	TechStack     []string               `json:"techStack"`
	Assumptions   []string               `json:"assumptions"`
	Risks         []riskInput            `json:"risks" validate:"dive"`
	Attachments   []string               `json:"attachments"`
	Timeline      timelineInput          `json:"proposedTimeline"`
	Milestones    []milestoneCreateInput `json:"milestones" validate:"dive"`
	IsInvited     bool                   `json:"isInvited"`
}

func mapRiskInputs(risks []riskInput) []entity.Risk {
	out := make([]entity.Risk, 0, len(risks))
	for _, r := range risks {
		out = append(out, entity.Risk{
			Description: r.Description,
			Probability: entity.RiskLevel(r.Probability),
			Impact:      entity.RiskLevel(r.Impact),
		})
	}

	return out
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	model := &entity.CreateBidInput{
		ProjectId:     input.ProjectId,
		CompanyId:     input.CompanyId,
		Amount:        input.Amount,
		Currency:      input.Currency,
		TaxPercentage: input.TaxPercentage,
		Proposal:      input.Proposal,
		Deliverables:  input.Deliverables,
		TeamStructure: input.TeamStructure,
		TechStack:     input.TechStack,
		Assumptions:   input.Assumptions,
		Risks:         mapRiskInputs(input.Risks),
		Attachments:   input.Attachments,
		Timeline: entity.Timeline{
			Value: input.Timeline.Value,
			Unit:  entity.TimelineUnit(input.Timeline.Unit),
		},
		IsInvited: input.IsInvited,
	}
	for _, m := range input.Milestones {
		model.Milestones = append(model.Milestones, entity.MilestoneInput{
			Title: m.Title, Amount: m.Amount, DueDate: m.DueDate,
		})
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), actorFromContext(c), model)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusCreated, bid); e != nil {
		return e
	}

	return nil
}

// /bids/:bidId
func (h *bidRoutesHandler) GetBid(c echo.Context) error {
	bid, err := h.bidService.GetBidById(c.Request().Context(), actorFromContext(c), c.Param("bidId"))
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, bid); e != nil {
		return e
	}

	return nil
}

type editBidInput struct {
	Amount         float64       `json:"amount" validate:"gte=0"`
	TaxPercentage  float64       `json:"taxPercentage" validate:"gte=0,lte=100"`
	RecomputeTotal bool          `json:"recomputeTotal"`
	Proposal       string        `json:"proposal" validate:"required"`
	Deliverables   []string      `json:"deliverables"`
	TeamStructure  string        `json:"teamStructure" validate:"max=2000"`
	TechStack      []string      `json:"techStack"`
	Assumptions    []string      `json:"assumptions"`
	Risks          []riskInput   `json:"risks" validate:"dive"`
	Attachments    []string      `json:"attachments"`
	Timeline       timelineInput `json:"proposedTimeline"`
}

// /bids/:bidId/edit
func (h *bidRoutesHandler) EditBid(c echo.Context) error {
	var input editBidInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	model := &entity.UpdateBidInput{
		Amount:         input.Amount,
		TaxPercentage:  input.TaxPercentage,
		RecomputeTotal: input.RecomputeTotal,
		Proposal:       input.Proposal,
		Deliverables:   input.Deliverables,
		TeamStructure:  input.TeamStructure,
		TechStack:      input.TechStack,
		Assumptions:    input.Assumptions,
		Risks:          mapRiskInputs(input.Risks),
		Attachments:    input.Attachments,
		Timeline: entity.Timeline{
			Value: input.Timeline.Value,
			Unit:  entity.TimelineUnit(input.Timeline.Unit),
		},
	}

	bid, err := h.bidService.EditBidTerms(c.Request().Context(), actorFromContext(c), c.Param("bidId"), model)
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, bid); e != nil {
		return e
	}

	return nil
}

type decisionNotesInput struct {
	Notes string `json:"notes" validate:"max=1000"`
}

func (h *bidRoutesHandler) bindNotes(c echo.Context) (string, error) {
	var input decisionNotesInput
	if err := c.Bind(&input); err != nil {
		// an empty body is fine for decision endpoints
		return "", nil
	}
	if err := h.validate.Struct(input); err != nil {
		return "", err
	}

	return input.Notes, nil
}

func (h *bidRoutesHandler) writeBid(c echo.Context, bid *entity.BidOutputModel, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, bid); e != nil {
		return e
	}

	return nil
}

// /bids/:bidId/submit
func (h *bidRoutesHandler) SubmitBid(c echo.Context) error {
	bid, err := h.bidService.SubmitBid(c.Request().Context(), actorFromContext(c), c.Param("bidId"))
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/withdraw
func (h *bidRoutesHandler) WithdrawBid(c echo.Context) error {
	bid, err := h.bidService.WithdrawBid(c.Request().Context(), actorFromContext(c), c.Param("bidId"))
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/review
func (h *bidRoutesHandler) MarkUnderReview(c echo.Context) error {
	bid, err := h.bidService.MarkUnderReview(c.Request().Context(), actorFromContext(c), c.Param("bidId"))
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/accept
func (h *bidRoutesHandler) AcceptBid(c echo.Context) error {
	notes, err := h.bindNotes(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	bid, err := h.bidService.AcceptBid(c.Request().Context(), actorFromContext(c), c.Param("bidId"), notes)
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/reject
func (h *bidRoutesHandler) RejectBid(c echo.Context) error {
	notes, err := h.bindNotes(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	bid, err := h.bidService.RejectBid(c.Request().Context(), actorFromContext(c), c.Param("bidId"), notes)
	return h.writeBid(c, bid, err)
}

type shortlistInput struct {
	Shortlisted bool `json:"shortlisted"`
}

// /bids/:bidId/shortlist
func (h *bidRoutesHandler) ShortlistBid(c echo.Context) error {
	var input shortlistInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	bid, err := h.bidService.ShortlistBid(c.Request().Context(), actorFromContext(c), c.Param("bidId"), input.Shortlisted)
	return h.writeBid(c, bid, err)
}

type proposeNegotiationInput struct {
	Field    string          `json:"field" validate:"required,oneof=amount tax_percentage timeline milestones"`
	NewValue json.RawMessage `json:"newValue" validate:"required"`
	Notes    string          `json:"notes" validate:"max=1000"`
}

// /bids/:bidId/negotiations
func (h *bidRoutesHandler) ProposeNegotiation(c echo.Context) error {
	var input proposeNegotiationInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	bid, err := h.bidService.ProposeNegotiation(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), entity.NegotiationField(input.Field), input.NewValue, input.Notes)
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/negotiations/:entryId/accept
func (h *bidRoutesHandler) AcceptNegotiation(c echo.Context) error {
	bid, err := h.bidService.AcceptNegotiation(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("entryId"))
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/negotiations/:entryId/reject
func (h *bidRoutesHandler) RejectNegotiation(c echo.Context) error {
	bid, err := h.bidService.RejectNegotiation(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("entryId"))
	return h.writeBid(c, bid, err)
}

type counterNegotiationInput struct {
	NewValue json.RawMessage `json:"newValue" validate:"required"`
	Notes    string          `json:"notes" validate:"max=1000"`
}

// /bids/:bidId/negotiations/:entryId/counter
func (h *bidRoutesHandler) CounterNegotiation(c echo.Context) error {
	var input counterNegotiationInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	bid, err := h.bidService.CounterNegotiation(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("entryId"), input.NewValue, input.Notes)
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/milestones/:milestoneId/start
func (h *bidRoutesHandler) StartMilestone(c echo.Context) error {
	bid, err := h.bidService.StartMilestone(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("milestoneId"))
	return h.writeBid(c, bid, err)
}

type completeMilestoneInput struct {
	Proof []string `json:"completionProof"`
}

// /bids/:bidId/milestones/:milestoneId/complete
func (h *bidRoutesHandler) CompleteMilestone(c echo.Context) error {
	var input completeMilestoneInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	bid, err := h.bidService.CompleteMilestone(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("milestoneId"), input.Proof)
	return h.writeBid(c, bid, err)
}

type approveMilestoneInput struct {
	Comments string `json:"comments" validate:"max=1000"`
}

// /bids/:bidId/milestones/:milestoneId/approve
func (h *bidRoutesHandler) ApproveMilestone(c echo.Context) error {
	var input approveMilestoneInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	bid, err := h.bidService.ApproveMilestone(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("milestoneId"), input.Comments)
	return h.writeBid(c, bid, err)
}

// /bids/:bidId/milestones/:milestoneId/paid
func (h *bidRoutesHandler) MarkMilestonePaid(c echo.Context) error {
	bid, err := h.bidService.MarkMilestonePaid(c.Request().Context(), actorFromContext(c),
		c.Param("bidId"), c.Param("milestoneId"))
	return h.writeBid(c, bid, err)
}

type listBidsInput struct {
	Status string `query:"status" validate:"omitempty,oneof=draft submitted under_review accepted rejected withdrawn expired"`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

func newListBidsInput() listBidsInput {
	return listBidsInput{Limit: defaultLimit, Offset: defaultOffset}
}

func (h *bidRoutesHandler) bindListInput(c echo.Context) (listBidsInput, error) {
	input := newListBidsInput()
	if err := c.Bind(&input); err != nil {
		return input, err
	}

	return input, h.validate.Struct(input)
}

func writeBidList(c echo.Context, bids []entity.BidListItem, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, bids); e != nil {
		return e
	}

	return nil
}

// /projects/:projectId/bids
func (h *bidRoutesHandler) GetProjectBids(c echo.Context) error {
	input, err := h.bindListInput(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetBidsForProject(c.Request().Context(), actorFromContext(c),
		c.Param("projectId"), entity.BidStatus(input.Status), pg)
	return writeBidList(c, bids, err)
}

// /bids/my
func (h *bidRoutesHandler) GetCompanyBids(c echo.Context) error {
	input, err := h.bindListInput(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetCompanyBids(c.Request().Context(), actorFromContext(c),
		entity.BidStatus(input.Status), pg)
	return writeBidList(c, bids, err)
}

// /bids/received
func (h *bidRoutesHandler) GetClientBids(c echo.Context) error {
	input, err := h.bindListInput(c)
	if err != nil {
		return writeValidationError(c, err)
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetClientBids(c.Request().Context(), actorFromContext(c),
		entity.BidStatus(input.Status), pg)
	return writeBidList(c, bids, err)
}
