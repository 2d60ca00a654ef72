package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nadhifr/karcis/internal/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithOrderError maps the ordering engine's failure taxonomy onto
// HTTP. User-correctable rejections carry their reason code; anything else
// is a generic retryable failure.
func RespondWithOrderError(c *gin.Context, err error) {
	orderErr, ok := services.AsOrderError(err)
	if !ok {
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong processing the order. Please try again.")
		return
	}

	statusCode := http.StatusBadRequest
	switch orderErr.Code {
	case services.CodeEventNotFound, services.CodeUnknownTicketType, services.CodeOrderNotFound:
		statusCode = http.StatusNotFound
	case services.CodeInsufficientInventory:
		statusCode = http.StatusConflict
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    orderErr.Code,
		Message: orderErr.Message,
	})
}
