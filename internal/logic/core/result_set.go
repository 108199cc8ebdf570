package core

import (
	"sync"

	"launchpad-decoder-sol/internal/consts"
)

// ProgramResults 单个程序在一个 slot 内的解码结果：
// Signatures 用于去重，Transactions 按批次完成顺序追加
type ProgramResults struct {
	Signatures   map[string]struct{}
	Transactions []*DecodedTransaction
}

// BatchResults 单个批次在本地算好的结果，合并前不与其他批次共享
type BatchResults [consts.ProgramCount][]*DecodedTransaction

// SlotResultSet 是一个 slot 内唯一被多个 worker 共享的可变对象，
// 所有写入都经过 Merge，并且每个批次只加锁一次
type SlotResultSet struct {
	Slot uint64

	mu       sync.Mutex
	programs [consts.ProgramCount]ProgramResults
}

func NewSlotResultSet(slot uint64) *SlotResultSet {
	return &SlotResultSet{Slot: slot}
}

// Merge 把一个批次的本地结果并入结果集，返回实际新增的交易数。
// 签名已存在的记录会被跳过，保证集合中每个签名恰好对应一条交易
func (s *SlotResultSet) Merge(batch *BatchResults) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for p := range batch {
		if len(batch[p]) == 0 {
			continue
		}
		pr := &s.programs[p]
		if pr.Signatures == nil {
			pr.Signatures = make(map[string]struct{}, len(batch[p]))
		}
		for _, tx := range batch[p] {
			if _, ok := pr.Signatures[tx.Signature]; ok {
				continue
			}
			pr.Signatures[tx.Signature] = struct{}{}
			pr.Transactions = append(pr.Transactions, tx)
			added++
		}
	}
	return added
}

// Transactions 返回某程序的解码交易，结果集消费阶段（所有批次完成后）调用
func (s *SlotResultSet) Transactions(p consts.Program) []*DecodedTransaction {
	if !p.Valid() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.programs[p].Transactions
}

// HasSignature 判断签名是否已记录在某程序的去重集合中
func (s *SlotResultSet) HasSignature(p consts.Program, sig string) bool {
	if !p.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.programs[p].Signatures[sig]
	return ok
}

func (s *SlotResultSet) Count(p consts.Program) int {
	return len(s.Transactions(p))
}

// Total 所有程序的解码交易总数
func (s *SlotResultSet) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.programs {
		total += len(s.programs[i].Transactions)
	}
	return total
}

func (s *SlotResultSet) Empty() bool {
	return s.Total() == 0
}
