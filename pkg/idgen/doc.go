// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且递增的 ID，用于标识扫描会话和查询服务的请求。
// 扫描会话 ID 具有以下特性：
//   - 全局唯一
//   - 时间有序（递增），按 ID 倒序即最近的扫描在前
//   - 64 位整数，可以直接作为 SQLite INTEGER 主键
//
// 使用方式：
//
//	gen := idgen.New()
//	sessionID, err := gen.GenerateSessionID()
//
// 或使用包级别的便捷函数：
//
//	sessionID, err := idgen.GenerateSessionID()
package idgen
