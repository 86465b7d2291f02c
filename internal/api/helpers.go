package api

import (
	"log"

	"github.com/gin-gonic/gin"
)

func sendErrorResponse(c *gin.Context, statusCode int, message string) {
	log.Printf("sendErrorResponse: status=%d message=%s path=%s", statusCode, message, c.FullPath())
	c.JSON(statusCode, gin.H{
		"error": message,
	})
}
