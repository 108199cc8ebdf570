package grpc

import (
	"slices"
	"sort"
	"time"
)

// 单次 getBlocks 查询的最大 slot 跨度
const maxQuerySpan = 10000

// SlotRange 闭区间 [From, To]
type SlotRange struct {
	From     uint64
	To       uint64
	SubmitAt time.Time
}

func (r SlotRange) Len() int {
	return int(r.To - r.From + 1)
}

func (r SlotRange) Contains(slot uint64) bool {
	return slot >= r.From && slot <= r.To
}

// coalesceRanges 把待核对区间整理成按 From 升序的查询窗口，每个窗口跨度不超过 span。
// 相距不远的区间会并入同一窗口，窗口内的空隙由 getBlocks 一并覆盖
func coalesceRanges(ranges []SlotRange, span uint64) []SlotRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b SlotRange) int {
		switch {
		case a.From < b.From:
			return -1
		case a.From > b.From:
			return 1
		}
		return 0
	})

	windows := make([]SlotRange, 0, len(sorted))
	from, to := sorted[0].From, sorted[0].To
	for _, r := range sorted[1:] {
		if r.From > from+span-1 {
			windows = appendChunks(windows, from, to, span)
			from, to = r.From, r.To
			continue
		}
		to = max(to, r.To)
	}
	return appendChunks(windows, from, to, span)
}

// appendChunks 按 span 切分 [from, to] 并追加
func appendChunks(dst []SlotRange, from, to, span uint64) []SlotRange {
	for to-from+1 > span {
		dst = append(dst, SlotRange{From: from, To: from + span - 1})
		from += span
	}
	return append(dst, SlotRange{From: from, To: to})
}

// emptySlots 返回 [from, to] 中没有出块的 slot，produced 为 RPC 返回的出块列表
func emptySlots(from, to uint64, produced []uint64) []uint64 {
	if len(produced) >= int(to-from+1) {
		return nil
	}

	sorted := slices.Clone(produced)
	slices.Sort(sorted)

	var empty []uint64
	i := 0
	for slot := from; slot <= to; slot++ {
		for i < len(sorted) && sorted[i] < slot {
			i++
		}
		if i < len(sorted) && sorted[i] == slot {
			continue
		}
		empty = append(empty, slot)
	}
	return empty
}

// rangeSet 按 From 升序且互不相交的区间集合
type rangeSet []SlotRange

func (s rangeSet) contains(slot uint64) bool {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].From > slot
	})
	return i > 0 && s[i-1].Contains(slot)
}

// pendingRanges 等待到期的区间队列
type pendingRanges struct {
	items []SlotRange
	limit int
}

// push 超出上限时返回 false
func (q *pendingRanges) push(r SlotRange) bool {
	if len(q.items) >= q.limit {
		return false
	}
	q.items = append(q.items, r)
	return true
}

// due 取出提交时间早于 now-delay 的区间，其余留在队列中
func (q *pendingRanges) due(now time.Time, delay time.Duration) []SlotRange {
	var ready []SlotRange
	kept := q.items[:0]
	for _, r := range q.items {
		if now.Sub(r.SubmitAt) >= delay {
			ready = append(ready, r)
		} else {
			kept = append(kept, r)
		}
	}
	q.items = kept
	return ready
}
