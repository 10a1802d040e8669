package emails

import (
	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/ai"
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

// RegisterRoutes mounts the email routes. The generation routes go on gen so
// the caller can put them behind a stricter rate limit.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gen *gin.RouterGroup) {
	gen.POST("/emails/generate-application", h.generateApplication)
	gen.POST("/emails/generate-reply", h.generateReply)
	rg.POST("/emails/send", h.send)
	rg.GET("/emails", h.list)
	rg.GET("/emails/:id", h.get)
}

type generateApplicationRequest struct {
	JobID      string `json:"jobId"`
	AIProvider string `json:"aiProvider"`
}

type generateReplyRequest struct {
	EmailID    string `json:"emailId"`
	UserPrompt string `json:"userPrompt"`
	AIProvider string `json:"aiProvider"`
}

func (h *Handler) generateApplication(c *gin.Context) {
	var req generateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	if req.JobID == "" {
		respond.Fail(c, apperr.Validation("jobId is required"))
		return
	}
	c.Set("jobId", req.JobID)
	c.Set("aiProvider", req.AIProvider)
	provider, err := ai.ParseProvider(req.AIProvider)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	out, err := h.Svc.GenerateApplication(c.Request.Context(), middleware.UserIDFromContext(c), req.JobID, provider)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "email generated", out)
}

func (h *Handler) generateReply(c *gin.Context) {
	var req generateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	if req.EmailID == "" {
		respond.Fail(c, apperr.Validation("emailId is required"))
		return
	}
	c.Set("emailId", req.EmailID)
	c.Set("aiProvider", req.AIProvider)
	provider, err := ai.ParseProvider(req.AIProvider)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	out, err := h.Svc.GenerateReply(c.Request.Context(), middleware.UserIDFromContext(c), req.EmailID, req.UserPrompt, provider)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "reply generated", out)
}

func (h *Handler) send(c *gin.Context) {
	var in SendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid JSON body"))
		return
	}
	in.UserID = middleware.UserIDFromContext(c)
	if p, err := ai.ParseProvider(string(in.AIProvider)); err == nil {
		in.AIProvider = p
	}
	c.Set("jobId", in.JobID)
	c.Set("aiProvider", string(in.AIProvider))
	if in.ResumeID != "" {
		c.Set("resumeId", in.ResumeID)
	}

	email, err := h.Svc.Send(c.Request.Context(), in)
	if email.ID != "" {
		c.Set("emailId", email.ID)
	}
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Created(c, "email sent", email)
}

func (h *Handler) list(c *gin.Context) {
	f := Filter{
		EmailType: Type(c.Query("emailType")),
		JobID:     c.Query("jobId"),
		Page:      paging.FromQuery(c.Query("page"), c.Query("limit")),
	}
	items, meta, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), f)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.Page(c, "emails fetched", items, meta)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("emailId", id)
	email, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if email == nil {
		respond.Fail(c, apperr.NotFound("email not found"))
		return
	}
	respond.OK(c, "email fetched", email)
}
