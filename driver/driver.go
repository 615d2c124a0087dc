// Package driver implements component C8: the parallel batch driver that
// fans the repair and DRC engines out across a block's nets, per spec
// §4.5. Batches of up to cfg.BatchSize nets run their per-net work
// concurrently via errgroup, since every collaborator each net touches
// (the region index, the marker sink) already serializes its own writes
// internally; nothing here needs an additional lock.
package driver

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/drc"
	"github.com/physdesign/drtcore/rcfg"
	"github.com/physdesign/drtcore/repair"
	"golang.org/x/sync/errgroup"
)

// RepairFunc matches repair.Engine.RepairNet's signature, so tests can
// substitute a stub without constructing a full Engine.
type RepairFunc func(block *design.Block, netID design.NetID, iter int) error

// RunConnectivityRepair drives eng.RepairNet over every net in block, in
// batches of cfg.BatchSize, parallel within a batch and sequential across
// batches. Cancellation/timeouts are not supported at this level (spec
// §5), and a fatal failure on one net never skips another net in the same
// batch (spec §4.5: "batches run to completion ... any fatal connectivity
// failure is recorded and raised only after the batch completes") — every
// g.Go below runs unconditionally, using a plain errgroup.Group rather
// than errgroup.WithContext, since WithContext's derived context would
// cancel and let not-yet-started nets in the same batch skip their own
// repair the moment any other net's repair fails. The batch's first error,
// if any, is returned once every net in it has actually run.
func RunConnectivityRepair(ctx context.Context, block *design.Block, cfg rcfg.RouterConfig, repairNet RepairFunc, iter int) error {
	nets := block.Nets()
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(nets)
	}
	if batchSize <= 0 {
		return nil
	}

	for start := 0; start < len(nets); start += batchSize {
		end := start + batchSize
		if end > len(nets) {
			end = len(nets)
		}
		batch := nets[start:end]

		var g errgroup.Group
		for _, netID := range batch {
			netID := netID
			g.Go(func() error {
				return repairNet(block, netID, iter)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// RunConnectivityRepairWithEngine is the convenience entry point wiring a
// concrete repair.Engine into RunConnectivityRepair.
func RunConnectivityRepairWithEngine(ctx context.Context, block *design.Block, cfg rcfg.RouterConfig, eng *repair.Engine, iter int) error {
	return RunConnectivityRepair(ctx, block, cfg, eng.RepairNet, iter)
}

// DRCFunc matches drc.Engine.Check's per-net-slice signature, so tests can
// substitute a stub without constructing a full Engine.
type DRCFunc func(block *design.Block, nets []design.NetID) int

// RunDRC drives checkNets over every net in block, per spec §4.5's DRC leg:
// nets are partitioned into batches of cfg.BatchSize, and each batch is
// further sharded across cfg.MaxThreads worker tiles run concurrently via
// errgroup, since §4.3 states every check "may run concurrently per tile"
// and none of them mutate the design, only the internally-synchronized
// index and sink. It returns the total marker count emitted; DRC has no
// fatal path (spec §7: "DRC violations ... are delivered as markers"), so
// there is nothing here to abort a batch on.
func RunDRC(ctx context.Context, block *design.Block, cfg rcfg.RouterConfig, checkNets DRCFunc) (int, error) {
	nets := block.Nets()
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(nets)
	}
	if batchSize <= 0 {
		return 0, nil
	}

	workers := cfg.MaxThreads
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var total int64
	for start := 0; start < len(nets); start += batchSize {
		end := start + batchSize
		if end > len(nets) {
			end = len(nets)
		}
		batch := nets[start:end]

		shards := workers
		if shards > len(batch) {
			shards = len(batch)
		}
		if shards <= 0 {
			shards = 1
		}
		shardSize := (len(batch) + shards - 1) / shards

		g, gctx := errgroup.WithContext(ctx)
		for s := 0; s < len(batch); s += shardSize {
			e := s + shardSize
			if e > len(batch) {
				e = len(batch)
			}
			shard := batch[s:e]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				atomic.AddInt64(&total, int64(checkNets(block, shard)))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(total), err
		}
	}
	return int(total), nil
}

// RunDRCWithEngine is the convenience entry point wiring a concrete
// drc.Engine into RunDRC.
func RunDRCWithEngine(ctx context.Context, block *design.Block, cfg rcfg.RouterConfig, eng *drc.Engine) (int, error) {
	return RunDRC(ctx, block, cfg, func(b *design.Block, nets []design.NetID) int {
		return eng.Check(b, drc.Scope{Nets: nets})
	})
}
