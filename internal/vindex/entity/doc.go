// Package entity 定义服务层和 API 层共享的请求、响应和报告类型
package entity
