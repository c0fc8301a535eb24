package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success writes the {success, <msgKey>, ...fields} envelope.
func Success(c *gin.Context, msgKey, message string, fields gin.H) {
	body := gin.H{"success": true}
	if msgKey != "" {
		body[msgKey] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
