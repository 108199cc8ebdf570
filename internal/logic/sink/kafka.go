package sink

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
	"launchpad-decoder-sol/internal/pkg/logger"
	"launchpad-decoder-sol/internal/pkg/mq"
	"launchpad-decoder-sol/internal/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/mr-tron/base58"
)

type KafkaSink struct {
	producer    *kafka.Producer
	topic       string
	partitions  int
	sendTimeout time.Duration
	decoders    []*common.Decoder
}

func NewKafkaSink(producer *kafka.Producer, topic string, partitions int, sendTimeout time.Duration, decoders []*common.Decoder) *KafkaSink {
	if partitions <= 0 {
		partitions = 1
	}
	return &KafkaSink{
		producer:    producer,
		topic:       topic,
		partitions:  partitions,
		sendTimeout: sendTimeout,
		decoders:    decoders,
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, rs *core.SlotResultSet) error {
	jobs, total, err := BuildKafkaJobs(rs, s.decoders, s.topic, s.partitions)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	ok, failed := mq.SendKafkaJobs(ctx, s.producer, jobs, s.sendTimeout)
	if len(failed) > 0 {
		for _, f := range failed {
			logger.Errorf("[KafkaSink] slot=%d partition=%d send failed: %v", rs.Slot, f.Job.Partition, f.Err)
		}
		return fmt.Errorf("kafka sink: slot %d: %d/%d jobs failed: %w", rs.Slot, len(failed), len(jobs), failed[0].Err)
	}
	logger.Debugf("[KafkaSink] slot=%d sent %d jobs, %d txs", rs.Slot, len(ok), total)
	return nil
}

// BuildKafkaJobs 按签名哈希把解码交易分到各分区，每个非空分区生成一条 KafkaJob，
// 返回 job 列表与交易总数
func BuildKafkaJobs(rs *core.SlotResultSet, decoders []*common.Decoder, topic string, partitions int) ([]*mq.KafkaJob, int, error) {
	if partitions <= 0 {
		partitions = 1
	}

	total := rs.Total()
	if total == 0 {
		return nil, 0, nil
	}
	capacity := utils.CalcCapPerPartition(total, partitions, 4)

	buckets := make([][]TxRecord, partitions)
	for i := range buckets {
		buckets[i] = make([]TxRecord, 0, capacity)
	}
	for _, d := range decoders {
		name := d.Program.String()
		for _, tx := range rs.Transactions(d.Program) {
			sigBytes, err := base58.Decode(tx.Signature)
			if err != nil || len(sigBytes) == 0 {
				// No_Signature 等非法签名按字符串本身分区
				sigBytes = []byte(tx.Signature)
			}
			pid := utils.PartitionHashBytes(sigBytes, uint32(partitions))
			buckets[pid] = append(buckets[pid], toTxRecord(name, tx))
		}
	}

	// 并发编码
	jobs := make([]*mq.KafkaJob, partitions)
	errs := make([]error, partitions)
	var wg sync.WaitGroup
	for i := 0; i < partitions; i++ {
		if len(buckets[i]) == 0 {
			continue
		}
		j := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			jobs[j], errs[j] = buildPartitionJob(rs.Slot, topic, j, buckets[j])
		}()
	}
	wg.Wait()

	out := make([]*mq.KafkaJob, 0, partitions)
	for i, job := range jobs {
		if errs[i] != nil {
			return nil, 0, errs[i]
		}
		if job != nil {
			out = append(out, job)
		}
	}
	return out, total, nil
}

func buildPartitionJob(slot uint64, topic string, partition int, records []TxRecord) (*mq.KafkaJob, error) {
	value, err := utils.EncodeRecord(RecordKindDecodedBatch, DecodedBatch{Slot: slot, Records: records})
	if err != nil {
		return nil, fmt.Errorf("encode partition %d: %w", partition, err)
	}
	return &mq.KafkaJob{
		Topic:     topic,
		Partition: int32(partition),
		Key:       binary.BigEndian.AppendUint64(nil, slot),
		Value:     value,
	}, nil
}
