package engine

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusRouter exposes the bot's health and last hedge snapshot for
// operators.
func (e *Engine) StatusRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	r.GET("/status", func(c *gin.Context) {
		snapshot := e.LastSnapshot()
		if snapshot == nil {
			c.JSON(http.StatusOK, gin.H{"status": "no runs yet"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	})

	return r
}

// ServeStatus runs the status endpoint in the background.
func (e *Engine) ServeStatus(addr string) {
	go func() {
		if err := e.StatusRouter().Run(addr); err != nil {
			// The status endpoint is best-effort; the hedge loop keeps going.
			log.Printf("status server stopped: %v", err)
		}
	}()
}
