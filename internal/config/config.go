package config

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/pkg/logger"
	"launchpad-decoder-sol/internal/pkg/mq"
)

type LogConfig struct {
	Format   string `json:"format,default=console"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional"`       // 日志目录，为空输出到 stdout
	Level    string `json:"level,default=info"`     // 日志级别：debug / info / warn / error
	Compress bool   `json:"compress,optional"`      // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// ProcessorConfig 表示批处理解码配置
type ProcessorConfig struct {
	BatchSize int      `json:"batch_size,default=200"` // 每个批次的交易数，只影响并发粒度
	Workers   int      `json:"workers,optional"`       // 工作协程数，<=0 时取 CPU 数 + 2
	Programs  []string `json:"programs,optional"`      // 受跟踪程序：PUMP / PUMPAMM / BOOP / COMPUTE_BUDGET
}

func (c *ProcessorConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return consts.CpuCount + 2
}

func (c *ProcessorConfig) BatchSizeOrDefault() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return consts.DefaultBatchSize
}

// SinkConfig 表示解码结果的输出方式
type SinkConfig struct {
	Console bool   `json:"console,default=true"` // 是否打印到控制台
	Format  string `json:"format,default=text"`  // text 或 yaml
	Kafka   bool   `json:"kafka,optional"`       // 是否转发到 Kafka
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional"`            // Kafka broker 地址，多个用英文逗号分隔
	BatchSize     int    `json:"batch_size,optional"`         // 批处理大小（单位字节）
	LingerMs      int    `json:"linger_ms,default=5"`         // 批处理最大延迟（毫秒）
	Topic         string `json:"topic,default=decoded_txs"`   // 解码结果 topic
	Partitions    int    `json:"partitions,default=8"`        // topic 分区数
	SendTimeoutMs int    `json:"send_timeout_ms,default=800"` // 单条消息发送并等待 ack 的超时时间
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []mq.TopicOption{
			{Topic: c.Topic, Partitions: c.Partitions},
		},
	}
}

// GrpcConfig 是主配置结构体，用于驱动解码服务
type GrpcConfig struct {
	LogConf           LogConfig           `json:"logger"`                  // 日志配置
	Processor         ProcessorConfig     `json:"processor"`               // 批处理配置
	Sink              SinkConfig          `json:"sink"`                    // 输出配置
	KafkaProducerConf KafkaProducerConfig `json:"kafka_producer,optional"` // Kafka 生产者配置

	RedisAddr    string `json:"redis_addr,optional"`   // Redis 地址，为空时使用进程内进度
	RpcEndpoint  string `json:"rpc_endpoint,optional"` // Solana RPC 地址，为空时不做缺失 slot 检查
	MetricsAddr  string `json:"metrics_addr,optional"` // Prometheus 监听地址，例如 0.0.0.0:9999
	ProgressConf struct {
		Disabled           bool `json:"disabled,optional"`               // 关闭 slot 判重
		SlotTTLSec         int  `json:"slot_ttl_sec,default=86400"`      // 已处理 slot 标记的保留时间（秒）
		MemoryCapacity     int  `json:"memory_capacity,default=4096"`    // 进程内进度最多记录的 slot 数
		RecentThresholdSec int  `json:"recent_threshold_sec,default=60"` // blockTime 距今小于该值的 slot 直接处理，不查询进度
	} `json:"progress,optional"`

	Grpc GrpcClientConfig `json:"grpc"` // gRPC 客户端连接相关配置
}

// GrpcClientConfig gRPC 客户端连接相关配置
type GrpcClientConfig struct {
	Endpoint string `json:"endpoint"`          // gRPC 服务端地址
	XToken   string `json:"x_token,optional"`  // x-token 认证
	Insecure bool   `json:"insecure,optional"` // 不使用 TLS（本地 relay）

	// 应用级逻辑心跳（ping）配置
	StreamPingIntervalSec int `json:"stream_ping_interval_sec,default=10"` // 应用层 ping 心跳间隔（秒）

	// gRPC Keepalive 底层连接检测配置
	KeepalivePingIntervalSec int `json:"keepalive_ping_interval_sec,default=10"` // 底层 keepalive 间隔（秒）
	KeepalivePingTimeoutSec  int `json:"keepalive_ping_timeout_sec,default=5"`   // 底层 keepalive 超时（秒）

	// gRPC 窗口大小调优（用于大数据流推送）
	InitialWindowSize     int `json:"initial_window_size,default=1073741824"`      // 单流窗口大小（字节）
	InitialConnWindowSize int `json:"initial_conn_window_size,default=1073741824"` // 整体连接窗口大小（字节）

	// 消息体大小限制
	MaxCallSendMsgSize int `json:"max_call_send_msg_size,default=67108864"` // 单条消息最大发送字节数
	MaxCallRecvMsgSize int `json:"max_call_recv_msg_size,default=67108864"` // 单条消息最大接收字节数

	// 超时与重连策略
	ReconnectIntervalSec int `json:"reconnect_interval_sec,default=2"`  // 重连最小间隔（秒）
	ConnectTimeoutSec    int `json:"connect_timeout_sec,default=10"`    // 连接建立超时（秒）
	SendTimeoutSec       int `json:"send_timeout_sec,default=5"`        // 发送超时（秒）
	BlockRecvTimeoutSec  int `json:"block_recv_timeout_sec,default=30"` // 超过该时长未收到 block 触发重连
}
