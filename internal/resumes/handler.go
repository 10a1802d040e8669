package resumes

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
	"jobtracker-backend/internal/shared/telemetry"
)

const defaultMaxUploadBytes = 5 << 20

type Handler struct {
	Svc      *Service
	MaxBytes int64
}

func NewHandler(svc *Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.replace)
	rg.DELETE("/resumes/:id", h.delete)
	rg.GET("/resumes/:id/file", h.file)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := h.formFile(c, true)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Fail(c, apperr.Validation("unable to read uploaded file"))
		return
	}
	defer f.Close()

	res, err := h.Svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), c.PostForm("jobRole"), fh.Filename, f)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	respond.Created(c, "resume uploaded", res)
}

func (h *Handler) replace(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	fh, err := h.formFile(c, false)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	var jobRole *string
	if v, ok := c.GetPostForm("jobRole"); ok {
		jobRole = &v
	}
	var (
		r    io.Reader
		name string
	)
	if fh != nil {
		f, err := fh.Open()
		if err != nil {
			respond.Fail(c, apperr.Validation("unable to read uploaded file"))
			return
		}
		defer f.Close()
		r, name = f, fh.Filename
	}
	if r == nil && jobRole == nil {
		respond.Fail(c, apperr.Validation("nothing to update"))
		return
	}

	res, err := h.Svc.Replace(c.Request.Context(), middleware.UserIDFromContext(c), id, jobRole, name, r)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "resume updated", res)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "resumes fetched", items)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "resume fetched", res)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, "resume deleted", nil)
}

func (h *Handler) file(c *gin.Context) {
	id := c.Param("id")
	c.Set("resumeId", id)
	res, rc, err := h.Svc.GetFile(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", res.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", strconv.Quote(res.FileName)))
	if res.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(res.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("resume.stream_failed", map[string]any{
			"resume_id":  res.ID,
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
	}
}

// formFile reads the "file" part, enforcing the upload size limit.
func (h *Handler) formFile(c *gin.Context, required bool) (*multipart.FileHeader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		if !required && err == http.ErrMissingFile {
			return nil, nil
		}
		if required && err == http.ErrMissingFile {
			return nil, apperr.Validation("file is required")
		}
		return nil, apperr.Validation("invalid multipart form")
	}
	if fh.Size > h.MaxBytes {
		return nil, apperr.Validation(fmt.Sprintf("file exceeds %d bytes", h.MaxBytes))
	}
	return fh, nil
}
