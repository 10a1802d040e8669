package jobs

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
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/stats", h.stats)
	rg.GET("/jobs/:id", h.get)
	rg.PATCH("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set("jobId", job.ID)
	respond.Created(c, "job created", job)
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
		Search:         c.Query("search"),
		Status:         Status(c.Query("status")),
		ApplyStatus:    ApplyStatus(c.Query("applyStatus")),
		ResponseStatus: ResponseStatus(c.Query("responseStatus")),
		From:           from,
		To:             to,
		Page:           paging.FromQuery(c.Query("page"), c.Query("limit")),
	}
	items, meta, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), f)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Page(c, "jobs fetched", items, meta)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "job stats fetched", stats)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	job, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "job fetched", job)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "job updated", job)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "job deleted", nil)
}
