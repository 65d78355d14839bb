package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是成功请求的标准化 JSON 响应。
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// SendSuccess 以 200 OK 状态和标准化的 JSON 成功载荷进行响应。
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}
