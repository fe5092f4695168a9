package secret

import "github.com/gin-gonic/gin"

type IHandler interface {
	Submit(c *gin.Context)
}
