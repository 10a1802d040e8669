package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/paging"
)

// Envelope is the shared response shape for every endpoint.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Meta    *paging.Meta `json:"meta,omitempty"`
	Error   *ErrorBody   `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes a successful envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	JSON(c, status, Envelope{Success: true, Message: message, Data: data})
}

// OK writes a 200 envelope.
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Page writes a 200 envelope with pagination metadata.
func Page(c *gin.Context, message string, data interface{}, meta paging.Meta) {
	JSON(c, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Meta: &meta})
}
