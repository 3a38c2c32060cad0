package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	dom "taskapi/internal/domain"
	"taskapi/internal/dto"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidIDMessage = "Invalid ID"

type TaskHandler struct {
	svc *service.TaskService
	log *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{svc: svc, log: log}
}

// List godoc
// @Summary      List all tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}  dto.TaskResponse
// @Failure      500
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.storeFailure(c, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// Create godoc
// @Summary      Create a task
// @Description  The assigned id is not returned; list the tasks to find it.
// @Tags         tasks
// @Accept       json
// @Param        body  body  dto.TaskRequest  true  "Task body"
// @Success      201
// @Failure      400  {string}  string
// @Failure      500
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid body: %s", err.Error())
		return
	}
	if err := h.svc.Create(c.Request.Context(), *req.Title); err != nil {
		h.storeFailure(c, "create task", err)
		return
	}
	c.Status(http.StatusCreated)
}

// Update godoc
// @Summary      Replace the title of a task
// @Tags         tasks
// @Accept       json
// @Param        id    path  string           true  "Task ID (24 hex chars)"
// @Param        body  body  dto.TaskRequest  true  "New title"
// @Success      200
// @Failure      400  {string}  string
// @Failure      404
// @Failure      500
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid body: %s", err.Error())
		return
	}
	err := h.svc.UpdateTitle(c.Request.Context(), id, *req.Title)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.storeFailure(c, "update task", err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Param        id   path  string  true  "Task ID (24 hex chars)"
// @Success      200
// @Failure      400  {string}  string
// @Failure      404
// @Failure      500
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.storeFailure(c, "delete task", err)
		return
	}
	c.Status(http.StatusOK)
}

// storeFailure logs err and answers 500 with an empty body.
func (h *TaskHandler) storeFailure(c *gin.Context, op string, err error) {
	h.log.ErrorContext(c.Request.Context(), op+" failed",
		slog.String("error", err.Error()),
		slog.String("request_id", c.GetString(RequestIDKey)),
	)
	c.Status(http.StatusInternalServerError)
}

func parseID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.String(http.StatusBadRequest, invalidIDMessage)
		return primitive.NilObjectID, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:    t.ID.Hex(),
		Title: t.Title,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
