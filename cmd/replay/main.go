package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/processor"
	"launchpad-decoder-sol/internal/logic/progress"
	"launchpad-decoder-sol/internal/logic/sink"
	"launchpad-decoder-sol/internal/logic/txadapter"
	"launchpad-decoder-sol/internal/pkg/logger"
)

var (
	dir       = flag.String("dir", "", "directory of <slot>.bin entry payloads")
	programs  = flag.String("programs", "PUMP,PUMPAMM,BOOP", "comma separated programs to decode")
	format    = flag.String("format", sink.FormatText, "output format: text or yaml")
	batchSize = flag.Int("batch", consts.DefaultBatchSize, "transactions per batch")
	workers   = flag.Int("workers", 0, "decode workers, <=0 uses CPU count + 2")
	logLevel  = flag.String("log-level", "warn", "log level")
)

type slotFile struct {
	slot uint64
	path string
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\nstack: %s", r, debug.Stack())
		}
	}()

	if *dir == "" {
		return fmt.Errorf("-dir is required")
	}
	if err := logger.InitLogger(logger.LogOption{Format: "console", Level: *logLevel}); err != nil {
		return err
	}
	defer logger.Sync()

	progs, err := consts.ParsePrograms(strings.Split(*programs, ","))
	if err != nil {
		return err
	}
	proc, err := processor.NewBatchProcessor(progs, *batchSize, *workers)
	if err != nil {
		return err
	}
	out := sink.NewConsoleSink(os.Stdout, *format, proc.Decoders())

	files, err := listSlotFiles(*dir)
	if err != nil {
		return err
	}

	// 同一目录里重复的 slot 只回放一次
	ctx := context.Background()
	pm := progress.NewProgressManager(progress.NewMemoryStore(len(files)), 0)
	for _, f := range files {
		if should, _ := pm.ShouldProcessSlot(ctx, f.slot, 0); !should {
			continue
		}
		payload, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
		entries, err := txadapter.DecodeEntries(payload)
		if err != nil {
			logger.Errorf("[replay] slot=%d decode entries failed: %v", f.slot, err)
			_ = pm.MarkSlotInvalid(ctx, f.slot)
			continue
		}
		rs := proc.ProcessEntries(entries, f.slot)
		if err := out.Publish(ctx, rs); err != nil {
			return fmt.Errorf("publish slot %d: %w", f.slot, err)
		}
		_ = pm.MarkSlotProcessed(ctx, f.slot, progress.SourceReplay)
	}

	stats := proc.Stats()
	logger.Infof("[replay] slots=%d scanned=%d decoded=%d batches=%d",
		stats.Slots, stats.Scanned, stats.Decoded, stats.Batches)
	return nil
}

// listSlotFiles 列出 dir 下文件名为 slot 号的 .bin 文件，按 slot 升序
func listSlotFiles(dir string) ([]slotFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.bin"))
	if err != nil {
		return nil, err
	}
	files := make([]slotFile, 0, len(matches))
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".bin")
		slot, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			logger.Warnf("[replay] skip %s: file name is not a slot number", path)
			continue
		}
		files = append(files, slotFile{slot: slot, path: path})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].slot < files[j].slot })
	return files, nil
}
