package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/loftplanner/api/transport"
	"github.com/fastygo/loftplanner/domain"
	"github.com/fastygo/loftplanner/pkg/httpcontext"
	"github.com/fastygo/loftplanner/usecase/schedule"
	templateUC "github.com/fastygo/loftplanner/usecase/template"
)

// Scheduler is implemented by *schedule.UseCase.
type Scheduler interface {
	ListInstances(ctx context.Context, q schedule.RangeQuery) ([]domain.Instance, error)
	Complete(ctx context.Context, cmd schedule.CompleteCommand) (*domain.Completion, bool, error)
}

// Templates is implemented by *template.UseCase.
type Templates interface {
	GetTemplate(ctx context.Context, userID, id string) (*domain.TaskTemplate, error)
	CreateTemplate(ctx context.Context, tpl *domain.TaskTemplate) (*domain.TaskTemplate, error)
	UpdateTemplate(ctx context.Context, userID, id string, patch templateUC.Patch) (*domain.TaskTemplate, error)
	DeleteTemplate(ctx context.Context, userID, id string) error
}

type TaskHandler struct {
	baseHandler
	schedule  Scheduler
	templates Templates
}

func NewTaskHandler(sched Scheduler, templates Templates, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		schedule:    sched,
		templates:   templates,
	}
}

// @Summary List task instances in a date range
// @Tags tasks
// @Param start query string true "first day, YYYY-MM-DD or RFC 3339"
// @Param end query string true "last day, YYYY-MM-DD or RFC 3339"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListInstances(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	rawStart := string(ctx.QueryArgs().Peek("start"))
	rawEnd := string(ctx.QueryArgs().Peek("end"))
	if rawStart == "" || rawEnd == "" {
		h.respondInvalid(ctx, "start and end query parameters are required")
		return
	}
	start, err := parseDate(rawStart)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	instances, err := h.schedule.ListInstances(stdCtx, schedule.RangeQuery{UserID: userID, Start: start, End: end})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if instances == nil {
		instances = []domain.Instance{}
	}
	meta := transport.RangeMeta{
		Start: formatDate(domain.StartOfDay(start)),
		End:   formatDate(domain.StartOfDay(end)),
		Count: len(instances),
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(instances, meta))
}

// @Summary Mark a task instance completed for a day
// @Tags tasks
// @Router /api/v1/tasks/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.CompleteRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.TaskID == "" {
		h.respondInvalid(ctx, "task_id is required")
		return
	}
	if req.Date == "" {
		h.respondInvalid(ctx, "date is required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completion, created, err := h.schedule.Complete(stdCtx, schedule.CompleteCommand{
		TaskID: req.TaskID,
		UserID: userID,
		Date:   date,
		Notes:  req.Notes,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respondSuccess(ctx, status, completion)
}

// @Summary Create task template
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TemplateRequest
	if !h.decode(ctx, &req) {
		return
	}
	tpl, err := templateFromRequest(userID, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.templates.CreateTemplate(stdCtx, tpl)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get task template
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tpl, err := h.templates.GetTemplate(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tpl)
}

// @Summary Update task template
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.TemplatePatchRequest
	if !h.decode(ctx, &req) {
		return
	}
	patch, err := patchFromRequest(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.templates.UpdateTemplate(stdCtx, userID, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task template
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.templates.DeleteTemplate(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return "", false
	}
	return id, true
}

func templateFromRequest(userID string, req transport.TemplateRequest) (*domain.TaskTemplate, error) {
	tpl := &domain.TaskTemplate{
		UserID:               userID,
		Title:                req.Title,
		TitleSecondary:       req.TitleSecondary,
		Description:          req.Description,
		DescriptionSecondary: req.DescriptionSecondary,
		Category:             req.Category,
		Priority:             domain.Priority(req.Priority),
		Frequency:            domain.Frequency(req.Frequency),
		Time:                 req.Time,
		IsActive:             true,
		LoftID:               req.LoftID,
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		tpl.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		tpl.EndDate = &end
	}
	return tpl, nil
}

var jsonNull = []byte("null")

func patchFromRequest(req transport.TemplatePatchRequest) (templateUC.Patch, error) {
	patch := templateUC.Patch{
		Title:                req.Title,
		TitleSecondary:       req.TitleSecondary,
		Description:          req.Description,
		DescriptionSecondary: req.DescriptionSecondary,
		Category:             req.Category,
		Time:                 req.Time,
		IsActive:             req.IsActive,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Frequency != nil {
		f := domain.Frequency(*req.Frequency)
		patch.Frequency = &f
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &start
	}

	switch {
	case len(req.EndDate) == 0:
	case bytes.Equal(req.EndDate, jsonNull):
		patch.ClearEndDate = true
	default:
		var raw string
		if err := json.Unmarshal(req.EndDate, &raw); err != nil {
			return patch, domain.Invalidf("end_date must be a string or null")
		}
		end, err := parseDate(raw)
		if err != nil {
			return patch, err
		}
		patch.EndDate = &end
	}

	switch {
	case len(req.LoftID) == 0:
	case bytes.Equal(req.LoftID, jsonNull):
		patch.ClearLoft = true
	default:
		var loftID string
		if err := json.Unmarshal(req.LoftID, &loftID); err != nil {
			return patch, domain.Invalidf("loft_id must be a string or null")
		}
		patch.LoftID = &loftID
	}
	return patch, nil
}
