package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/apperr"
	"jobtracker-backend/internal/shared/paging"
)

func TestFailRendersTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{name: "not found", err: apperr.NotFound("job not found"), status: http.StatusNotFound, code: "not_found", message: "job not found"},
		{name: "conflict", err: apperr.Conflict("resume exists"), status: http.StatusConflict, code: "conflict", message: "resume exists"},
		{name: "internal", err: errors.New("sql: connection reset"), status: http.StatusInternalServerError, code: "internal_error", message: "internal server error"},
		{
			name:    "wrapped cause hidden",
			err:     apperr.Wrap(apperr.ErrGenerationFailed, "GEMINI generation failed", errors.New(`Post "https://gen.test/v1?key=SECRET": dial tcp: connection refused`)),
			status:  http.StatusInternalServerError,
			code:    "generation_failed",
			message: "GEMINI generation failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { Fail(c, tt.err) })

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

			if resp.Code != tt.status {
				t.Fatalf("status = %d, want %d", resp.Code, tt.status)
			}
			var env Envelope
			if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success {
				t.Fatalf("expected success=false")
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("error body = %+v, want code %q", env.Error, tt.code)
			}
		})
	}
}

func TestPageIncludesMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Page(c, "ok", []string{"a"}, paging.NewMeta(paging.Params{Page: 2, Limit: 5}, 12))
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	var env struct {
		Success bool        `json:"success"`
		Meta    paging.Meta `json:"meta"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Meta.TotalPages != 3 || env.Meta.Total != 12 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
