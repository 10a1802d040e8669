package emails

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api, api.Group(""))
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestEmailRoutes(t *testing.T) {
	e := newEnv(t)
	r := newTestRouter(e.svc)

	resp := postJSON(r, "/api/v1/emails/generate-application", `{"jobId":"`+e.job.ID+`","aiProvider":"openai"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var generated struct {
		Data Generated `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &generated))
	assert.Equal(t, "Application for Backend Engineer", generated.Data.Subject)

	resp = postJSON(r, "/api/v1/emails/generate-application", `{"jobId":"`+e.job.ID+`","aiProvider":"bard"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	resp = postJSON(r, "/api/v1/emails/send", `{"jobId":"`+e.job.ID+`","subject":"Hi","content":"Body","emailType":"APPLICATION","aiProvider":"OPENAI"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var sent struct {
		Data Email `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sent))
	assert.Equal(t, StatusSent, sent.Data.Status)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/emails?emailType=APPLICATION&page=1&limit=10", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"companyName":"Acme"`)
	assert.Contains(t, resp.Body.String(), `"totalPages":1`)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/emails/"+sent.Data.ID, nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/emails/00000000-0000-0000-0000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = postJSON(r, "/api/v1/emails/generate-reply", `{"emailId":"`+sent.Data.ID+`","userPrompt":"ask about salary","aiProvider":"OPENAI"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSendFailureRendersEnvelope(t *testing.T) {
	e := newEnv(t)
	e.mail.err = assert.AnError
	r := newTestRouter(e.svc)

	resp := postJSON(r, "/api/v1/emails/send", `{"jobId":"`+e.job.ID+`","subject":"Hi","content":"Body","emailType":"REPLY","aiProvider":"GEMINI"}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.False(t, payload.Success)
	assert.NotEmpty(t, payload.Error.Code)
}
