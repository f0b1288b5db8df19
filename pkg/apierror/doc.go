// Package apierror 提供查询服务统一的错误类型
//
// 错误响应格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "IndexNotFound",
//	            "message": "The index is empty. Scan at least one volume first."
//	        }
//	    ],
//	    "requestID": "0f6b1c2e"
//	}
//
// 使用示例：
//
//	// 包装预定义的错误，保留错误代码和 HTTP 状态码
//	err := apierror.WrapError(apierror.ErrInvalidParameter, "maxResults must not be negative", rawErr)
//
//	// 创建错误响应
//	errorResp := apierror.NewErrorResponse("request-id", err)
//	c.JSON(err.HTTPStatus, errorResp)
package apierror
