package problem

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// 统一错误响应
// ============================================================================
//
// 业务错误由 handler 就地转成 {message} 响应；这里处理的是没被业务
// 逻辑接住的错误：统一包成 Problem 结构，按错误类别映射状态码。

// Problem 通用错误信封
type Problem struct {
	Status     int    `json:"status"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	StackTrace string `json:"stackTrace,omitempty"` // 仅调试模式下携带
}

const (
	TitleInvalidArgument  = "Invalid argument"
	TitleInvalidOperation = "Invalid operation"
	TitleNotFound         = "Not found"
	TitleUnauthorized     = "Unauthorized"
	TitleNotImplemented   = "Not implemented"
	TitleUnexpected       = "Unexpected error"
)

// titleStatus 错误类别 -> HTTP 状态码
var titleStatus = map[string]int{
	TitleInvalidArgument:  http.StatusBadRequest,
	TitleInvalidOperation: http.StatusBadRequest,
	TitleNotFound:         http.StatusNotFound,
	TitleUnauthorized:     http.StatusUnauthorized,
	TitleNotImplemented:   http.StatusNotImplemented,
	TitleUnexpected:       http.StatusInternalServerError,
}

// StatusFor 按错误类别取状态码，未知类别按 500 处理
func StatusFor(title string) int {
	if status, ok := titleStatus[title]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Write 输出错误信封
func Write(c *gin.Context, title, detail, stackTrace string) {
	status := StatusFor(title)
	c.AbortWithStatusJSON(status, Problem{
		Status:     status,
		Title:      title,
		Detail:     detail,
		Instance:   c.Request.URL.Path,
		StackTrace: stackTrace,
	})
}
