package consts

import "runtime"

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()

const (
	// DefaultBatchSize 单个批次包含的交易数，只影响并发粒度，不影响结果
	DefaultBatchSize = 200

	// NoSignature 无签名交易的占位签名
	NoSignature = "No_Signature"

	// UnknownLabel 账户角色表之外的位置统一使用该标签
	UnknownLabel = "Unknown"
)
