package transport

import (
	"errors"
	"net/http"

	"github.com/afumu/wereport/store"
	"github.com/afumu/wereport/store/bind"
	"github.com/afumu/wereport/store/locate"
	"github.com/gin-gonic/gin"
)

// ErrorResponse 是请求失败时的标准化 JSON 响应。
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// APIError 表示返回给客户端的详细错误信息。
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendError 使用给定的 HTTP 状态码和标准化的 JSON 错误载荷进行响应。
func SendError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorResponse{
		Success: false,
		Error: APIError{
			Code:    httpStatus,
			Message: message,
		},
	})
}

// BadRequest 发送一个 400 Bad Request 错误。
func BadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// NotFound 发送一个 404 Not Found 错误。
func NotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// InternalServerError 发送一个 500 Internal Server Error 错误。
func InternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendStoreError 把存储层的哨兵错误映射为相应的 HTTP 状态码。
// 配置缺失是调用方的问题 (400), 数据不存在是 404, 其余都是 500。
func SendStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrConfigMissing):
		BadRequest(c, err.Error())
	case errors.Is(err, locate.ErrDirectoryNotFound),
		errors.Is(err, bind.ErrNoSessionIndex),
		errors.Is(err, bind.ErrNoDatabaseFound):
		NotFound(c, err.Error())
	default:
		InternalServerError(c, err.Error())
	}
}
