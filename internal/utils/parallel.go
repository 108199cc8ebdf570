package utils

import "golang.org/x/sync/errgroup"

// ParallelMap 以最多 workers 个并发执行 fn，结果顺序与输入一致。
// 单元素或 workers <= 1 时直接串行处理
func ParallelMap[T any, R any](items []T, workers int, fn func(T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if len(items) == 1 || workers <= 1 {
		for i := range items {
			results[i] = fn(items[i])
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range items {
		g.Go(func() error {
			results[i] = fn(items[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}
