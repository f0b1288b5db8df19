package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/pkg/apierror"
)

// renderResponse 渲染 JSON 响应
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	// 基本类型特殊处理
	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
		return
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// renderError 渲染错误响应
// err 链中有 *apierror.Error 或 *apierror.ErrorResponse 时直接序列化，并使用其中的 HTTP 状态码
// 否则使用 statusCode 和默认的错误格式
func renderError(ctx *gin.Context, statusCode int, err error) {
	requestID := ctx.GetString(RequestIDKey)

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatus > 0 {
			statusCode = apiErr.HTTPStatus
		}
		ctx.JSON(statusCode, apierror.NewErrorResponse(requestID, apiErr))
		return
	}

	var errorResp *apierror.ErrorResponse
	if errors.As(err, &errorResp) {
		if len(errorResp.Errors) > 0 && errorResp.Errors[0].HTTPStatus > 0 {
			statusCode = errorResp.Errors[0].HTTPStatus
		}
		ctx.JSON(statusCode, errorResp)
		return
	}

	// 参数错误使用 InvalidParameter，其他错误不向客户端暴露细节
	base := apierror.ErrInternalError
	message := base.Message
	if statusCode == http.StatusBadRequest {
		base = apierror.ErrInvalidParameter
		message = err.Error()
	}
	ctx.JSON(statusCode, apierror.NewErrorResponse(requestID, apierror.WrapError(base, message, err)))
}
