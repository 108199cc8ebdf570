package progress

import (
	"context"
	"sync"
)

// memoryStore 是未配置 Redis 时使用的进程内存储。
// 只保留最近 capacity 个 slot，超出后按写入顺序淘汰
type memoryStore struct {
	mu       sync.Mutex
	capacity int
	status   map[uint64]SlotStatus
	order    []uint64
}

func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		capacity = 4096
	}
	return &memoryStore{
		capacity: capacity,
		status:   make(map[uint64]SlotStatus, capacity),
		order:    make([]uint64, 0, capacity),
	}
}

func (m *memoryStore) GetSlotStatus(_ context.Context, slot uint64) (SlotStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[slot], nil
}

func (m *memoryStore) MarkSlotStatus(_ context.Context, slot uint64, status SlotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.status[slot]; !ok {
		if len(m.order) >= m.capacity {
			delete(m.status, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, slot)
	}
	m.status[slot] = status
	return nil
}
