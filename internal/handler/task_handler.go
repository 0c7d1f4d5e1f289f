package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"freelancehub/internal/auth"
	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
	media       *MediaResolver
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService, media *MediaResolver) *TaskHandler {
	return &TaskHandler{taskService: taskService, media: media}
}

// TaskRequest is the payload of create and update. Any author field is ignored.
type TaskRequest struct {
	Title       *string          `json:"title" example:"Build a logo"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget" swaggertype:"string" example:"150.00"`
	Deadline    *string          `json:"deadline" example:"2025-01-01"`
	Skills      *[]string        `json:"skills"`
}

func (r *TaskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		Deadline:    r.Deadline,
		Skills:      r.Skills,
	}
}

// taskID parses the :id path parameter. Malformed ids cannot exist, so they are reported as not found.
func taskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrTaskNotFound
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.FieldError(name, "A valid non-negative integer is required.")
	}
	return n, nil
}

// List godoc
// @Summary List tasks
// @Description Newest first. Filter by author username and page with limit/offset.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param author query string false "Author username"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), service.TaskQuery{
		Author: c.QueryParam("author"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, h.media.task(c, &tasks[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary Create task
// @Description The author is always the authenticated caller.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	task, err := h.taskService.Create(c.Request().Context(), caller.AccountID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.media.task(c, task))
}

// Get godoc
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.task(c, task))
}

// Update godoc
// @Summary Update task
// @Description Partial update for both PUT and PATCH. Only the author may update.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskRequest true "Task fields"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	task, err := h.taskService.Update(c.Request().Context(), caller.AccountID, id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.task(c, task))
}

// Delete godoc
// @Summary Delete task
// @Description Only the author may delete.
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), caller.AccountID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
