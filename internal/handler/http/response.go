// File: internal/handler/http/response.go
package http

import "github.com/gin-gonic/gin"

// ErrorResponse is the uniform error body for every API failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}
