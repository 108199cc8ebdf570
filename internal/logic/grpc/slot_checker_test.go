package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"launchpad-decoder-sol/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesceRanges(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, coalesceRanges(nil, maxQuerySpan))
	})

	t.Run("sort and merge", func(t *testing.T) {
		windows := coalesceRanges([]SlotRange{{From: 50, To: 60}, {From: 10, To: 20}, {From: 21, To: 30}}, maxQuerySpan)
		assert.Equal(t, []SlotRange{{From: 10, To: 60}}, windows)
	})

	t.Run("split oversized range", func(t *testing.T) {
		windows := coalesceRanges([]SlotRange{{From: 1, To: 25000}}, maxQuerySpan)
		assert.Equal(t, []SlotRange{
			{From: 1, To: 10000},
			{From: 10001, To: 20000},
			{From: 20001, To: 25000},
		}, windows)
	})

	t.Run("contained range does not shrink window", func(t *testing.T) {
		windows := coalesceRanges([]SlotRange{{From: 10, To: 40}, {From: 15, To: 20}}, maxQuerySpan)
		assert.Equal(t, []SlotRange{{From: 10, To: 40}}, windows)
	})

	t.Run("distant ranges stay apart", func(t *testing.T) {
		windows := coalesceRanges([]SlotRange{{From: 1, To: 5}, {From: 100, To: 105}}, 50)
		assert.Equal(t, []SlotRange{{From: 1, To: 5}, {From: 100, To: 105}}, windows)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []SlotRange{{From: 9, To: 9}, {From: 1, To: 1}}
		coalesceRanges(in, maxQuerySpan)
		assert.Equal(t, uint64(9), in[0].From)
	})
}

func TestEmptySlots(t *testing.T) {
	cases := []struct {
		name     string
		produced []uint64
		want     []uint64
	}{
		{"all produced", []uint64{10, 11, 12, 13, 14}, nil},
		{"none produced", nil, []uint64{10, 11, 12, 13, 14}},
		{"edges", []uint64{12}, []uint64{10, 11, 13, 14}},
		{"middle unsorted", []uint64{14, 10, 12}, []uint64{11, 13}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, emptySlots(10, 14, tc.produced))
		})
	}
}

func TestRangeSetContains(t *testing.T) {
	failed := rangeSet{{From: 10, To: 20}, {From: 40, To: 50}}
	assert.False(t, failed.contains(5))
	assert.True(t, failed.contains(10))
	assert.True(t, failed.contains(45))
	assert.False(t, failed.contains(30))
	assert.False(t, failed.contains(51))
	assert.False(t, rangeSet(nil).contains(10))
}

func TestPendingRanges(t *testing.T) {
	now := time.Now()
	q := &pendingRanges{limit: 2}
	require.True(t, q.push(SlotRange{From: 1, To: 1, SubmitAt: now.Add(-time.Minute)}))
	require.True(t, q.push(SlotRange{From: 2, To: 2, SubmitAt: now}))
	assert.False(t, q.push(SlotRange{From: 3, To: 3, SubmitAt: now}))

	ready := q.due(now, delayBeforeCheck)
	require.Len(t, ready, 1)
	assert.Equal(t, uint64(1), ready[0].From)
	require.Len(t, q.items, 1)
	assert.Equal(t, uint64(2), q.items[0].From)

	assert.Empty(t, q.due(now, delayBeforeCheck))
	assert.Len(t, q.due(now.Add(delayBeforeCheck), delayBeforeCheck), 1)
	assert.Empty(t, q.items)
}

func TestCheckSlotRanges(t *testing.T) {
	m := metrics.NewProcessingMetrics("checker", prometheus.NewRegistry())

	t.Run("missing slots counted", func(t *testing.T) {
		// 101 与 103 实际产出了区块，但流里没有收到
		s := newSlotChecker(func(_ context.Context, from, to uint64) ([]uint64, error) {
			return []uint64{101, 103}, nil
		}, m)
		defer s.Stop()
		assert.Equal(t, 2, s.checkSlotRanges([]SlotRange{{From: 100, To: 104}}))
	})

	t.Run("rpc failure is not reported as missing", func(t *testing.T) {
		s := newSlotChecker(func(context.Context, uint64, uint64) ([]uint64, error) {
			return nil, errors.New("rpc unavailable")
		}, m)
		defer s.Stop()
		assert.Zero(t, s.checkSlotRanges([]SlotRange{{From: 100, To: 104}}))
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		s := newSlotChecker(func(context.Context, uint64, uint64) ([]uint64, error) {
			calls++
			if calls < fetchAttempts {
				return nil, errors.New("timeout")
			}
			return []uint64{100}, nil
		}, m)
		defer s.Stop()
		assert.Equal(t, 1, s.checkSlotRanges([]SlotRange{{From: 100, To: 101}}))
		assert.Equal(t, fetchAttempts, calls)
	})

	t.Run("panic is treated as failure", func(t *testing.T) {
		s := newSlotChecker(func(context.Context, uint64, uint64) ([]uint64, error) {
			panic("bad response")
		}, m)
		defer s.Stop()
		assert.Zero(t, s.checkSlotRanges([]SlotRange{{From: 100, To: 104}}))
	})
}

func TestSubmit(t *testing.T) {
	s := newSlotChecker(nil, nil)
	defer s.Stop()

	s.Submit(10, 5)
	assert.Empty(t, s.rangeCh)

	before := time.Now()
	s.Submit(5, 10)
	require.Len(t, s.rangeCh, 1)
	r := <-s.rangeCh
	assert.Equal(t, uint64(5), r.From)
	assert.Equal(t, uint64(10), r.To)
	assert.False(t, r.SubmitAt.Before(before))
}
