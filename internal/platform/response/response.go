package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
)

// ErrorBody is the error part of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 envelope with the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Error: &ErrorBody{Code: "bad_request", Message: message},
	})
}

// Error maps err to a status code. Unclassified errors become a 500 with a generic message.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := &ErrorBody{Code: "internal_error", Message: "internal server error"}

	switch kind := domain.KindOf(err); kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
		body = &ErrorBody{Code: string(kind), Message: err.Error()}
	case domain.KindValidation:
		status = http.StatusBadRequest
		body = &ErrorBody{Code: string(kind), Message: err.Error()}
	case domain.KindConflict:
		status = http.StatusConflict
		body = &ErrorBody{Code: string(kind), Message: err.Error()}
	default:
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, Envelope{Error: body})
}
