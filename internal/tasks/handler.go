package tasks

import (
	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/paging"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tasks", h.create)
	rg.GET("/tasks", h.list)
	rg.GET("/tasks/:id", h.get)
	rg.PATCH("/tasks/:id", h.update)
	rg.DELETE("/tasks/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	c.Set("jobId", in.JobID)
	task, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set("taskId", task.ID)
	respond.Created(c, "task created", task)
}

func (h *Handler) list(c *gin.Context) {
	from, err := paging.ParseDate(c.Query("from"), false)
	if err != nil {
		respond.Fail(c, apperr.Validation(err.Error()))
		return
	}
	to, err := paging.ParseDate(c.Query("to"), true)
	if err != nil {
		respond.Fail(c, apperr.Validation(err.Error()))
		return
	}
	f := Filter{
		Search:       c.Query("search"),
		SubmitStatus: SubmitStatus(c.Query("submitStatus")),
		JobID:        c.Query("jobId"),
		From:         from,
		To:           to,
		Page:         paging.FromQuery(c.Query("page"), c.Query("limit")),
	}
	items, meta, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), f)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Page(c, "tasks fetched", items, meta)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("taskId", id)
	task, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "task fetched", task)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("taskId", id)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	task, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "task updated", task)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("taskId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "task deleted", nil)
}
