package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/validators"
)

// ValidateIDParam rejects requests whose path parameter is not an entity id.
func ValidateIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validators.IsEntityID(c.Param(name)) {
			httperr.Abort(c, http.StatusBadRequest, "invalid_id", "No es un ID válido.")
			return
		}
		c.Next()
	}
}
