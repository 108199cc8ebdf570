package svc

import (
	"fmt"
	"os"
	"time"

	"launchpad-decoder-sol/internal/config"
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/processor"
	"launchpad-decoder-sol/internal/logic/progress"
	"launchpad-decoder-sol/internal/logic/sink"
	"launchpad-decoder-sol/internal/metrics"
	"launchpad-decoder-sol/internal/pkg/logger"
	"launchpad-decoder-sol/internal/pkg/mq"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const MetricsNamespace = "launchpad_decoder"

// GrpcServiceContext 包含GRPC服务资源
type GrpcServiceContext struct {
	Config          config.GrpcConfig
	Processor       *processor.BatchProcessor
	Sinks           []sink.Sink
	Producer        *kafka.Producer
	Redis           *redis.Client
	ProgressManager *progress.ProgressManager
	Metrics         *metrics.ProcessingMetrics
}

// NewGrpcServiceContext 创建一个新的 GRPC 服务上下文
func NewGrpcServiceContext(c config.GrpcConfig, reg prometheus.Registerer) (*GrpcServiceContext, error) {
	// 1. 受跟踪程序与批处理器
	programs, err := consts.ParsePrograms(c.Processor.Programs)
	if err != nil {
		return nil, err
	}
	proc, err := processor.NewBatchProcessor(programs, c.Processor.BatchSizeOrDefault(), c.Processor.WorkerCount())
	if err != nil {
		return nil, err
	}

	ctx := &GrpcServiceContext{
		Config:    c,
		Processor: proc,
		Metrics:   metrics.NewProcessingMetrics(MetricsNamespace, reg),
	}

	// 2. 输出
	if c.Sink.Console {
		ctx.Sinks = append(ctx.Sinks, sink.NewConsoleSink(os.Stdout, c.Sink.Format, proc.Decoders()))
	}
	if c.Sink.Kafka {
		producer, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
		if err != nil {
			logger.Errorf("Kafka producer 初始化失败: %v", err)
			return nil, err
		}
		ctx.Producer = producer
		kc := c.KafkaProducerConf
		ctx.Sinks = append(ctx.Sinks, sink.NewKafkaSink(producer, kc.Topic, kc.Partitions,
			time.Duration(kc.SendTimeoutMs)*time.Millisecond, proc.Decoders()))
	}
	if len(ctx.Sinks) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("no sink enabled: set sink.console or sink.kafka")
	}

	// 3. 进度管理：配置 Redis 时跨实例判重，否则只在进程内判重
	pc := c.ProgressConf
	if !pc.Disabled {
		var store progress.Store
		if c.RedisAddr != "" {
			ctx.Redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
			store = progress.NewRedisProgressStore(ctx.Redis, time.Duration(pc.SlotTTLSec)*time.Second)
		} else {
			store = progress.NewMemoryStore(pc.MemoryCapacity)
		}
		ctx.ProgressManager = progress.NewProgressManager(store, pc.RecentThresholdSec)
	}

	logger.Infof("GRPC 服务上下文初始化完成, programs=%v, sinks=%d", programs, len(ctx.Sinks))
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *GrpcServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Flush(3000)
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
}
