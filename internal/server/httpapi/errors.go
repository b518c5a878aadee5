package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annagruz/taskvault/internal/common"
)

// writeError translates a typed service failure into a status code and a
// small JSON body. Unknown errors become an opaque 500 so internals never
// leak to a client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrWeakCredential),
		errors.Is(err, common.ErrInvalidUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
	case errors.Is(err, common.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": common.ErrConflict.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrInternal.Error()})
	}
}
