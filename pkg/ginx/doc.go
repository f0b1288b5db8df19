// Package ginx 提供 gin 框架的 handler 适配器，支持自动参数绑定和 JSON 响应
//
// 支持以下 handler 函数签名：
//
//	// 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
//	// 无参数，只有返回值
//	func(c *gin.Context) resp
//
// 参数依次从 JSON Body、URI 参数和 Query 参数绑定。如果参数实现了 IsValid() error，
// 绑定后会先调用 IsValid，失败时返回 400。
//
// handler 返回 *apierror.Error 时使用其中的 HTTP 状态码，其他错误返回 500。
//
// 使用示例：
//
//	router := gin.New()
//	router.Use(ginx.RequestLogger(logger))
//
//	router.GET("/sessions", ginx.Adapt5(func(c *gin.Context, args *ListSessionsRequest) (*ListSessionsResponse, error) {
//	    return &ListSessionsResponse{...}, nil
//	}))
//
//	router.GET("/health", ginx.Adapt2(func(c *gin.Context) string {
//	    return "ok"
//	}))
package ginx
