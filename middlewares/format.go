package middlewares

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response contract produced by every operation,
// success and failure alike.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// RespondJSON writes a success envelope to the client.
func RespondJSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:    status < 400,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// HttpError logs an error and writes a failure envelope to the client.
func HttpError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("HTTP %d - %s: %v", status, message, err)
	}
	c.JSON(status, Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Data:       nil,
	})
}
