package email

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendHandler exposes the platform's applicant notification mail path
// to other backend services.
func SendHandler(sender Sender, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params SendParams
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := sender.Send(c.Request.Context(), params); err != nil {
			if errors.Is(err, ErrInvalidParams) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			log.ErrorContext(c.Request.Context(), "email send failed",
				"to", params.To,
				"tag", params.Tag,
				"error", err,
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
	}
}
