package ginx

import (
	"github.com/gin-gonic/gin"
)

// bindArgs 绑定请求参数到 args 结构体
// 有请求体时先从 JSON Body 绑定，然后绑定 URI 参数和 Query 参数
func bindArgs(ctx *gin.Context, args any) error {
	if ctx.Request.ContentLength != 0 && ctx.Request.Body != nil {
		if err := ctx.ShouldBindJSON(args); err != nil {
			return err
		}
	}
	if len(ctx.Params) > 0 {
		if err := ctx.ShouldBindUri(args); err != nil {
			return err
		}
	}
	return ctx.ShouldBindQuery(args)
}
