package driver_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/driver"
	"github.com/physdesign/drtcore/rcfg"
	"github.com/stretchr/testify/require"
)

func TestRunConnectivityRepairVisitsEveryNet(t *testing.T) {
	block := design.NewBlock()
	for i := 0; i < 5; i++ {
		block.AddNet(design.NewNet("n", design.Signal))
	}

	var mu sync.Mutex
	seen := map[design.NetID]bool{}
	cfg := rcfg.Default()
	cfg.BatchSize = 2

	err := driver.RunConnectivityRepair(context.Background(), block, cfg, func(b *design.Block, netID design.NetID, iter int) error {
		mu.Lock()
		defer mu.Unlock()
		seen[netID] = true
		return nil
	}, 0)

	require.NoError(t, err)
	require.Len(t, seen, 5)
}

func TestRunConnectivityRepairStopsOnFirstError(t *testing.T) {
	block := design.NewBlock()
	for i := 0; i < 3; i++ {
		block.AddNet(design.NewNet("n", design.Signal))
	}
	cfg := rcfg.Default()
	cfg.BatchSize = 1
	boom := errors.New("boom")

	var mu sync.Mutex
	seen := map[design.NetID]bool{}
	err := driver.RunConnectivityRepair(context.Background(), block, cfg, func(b *design.Block, netID design.NetID, iter int) error {
		mu.Lock()
		seen[netID] = true
		mu.Unlock()
		if netID == 1 {
			return boom
		}
		return nil
	}, 0)

	require.ErrorIs(t, err, boom)
	require.False(t, seen[2], "no batch after the failing one may run")
}

func TestRunDRCVisitsEveryNetAndSumsMarkers(t *testing.T) {
	block := design.NewBlock()
	for i := 0; i < 7; i++ {
		block.AddNet(design.NewNet("n", design.Signal))
	}

	var mu sync.Mutex
	var seen []design.NetID
	cfg := rcfg.Default()
	cfg.BatchSize = 3
	cfg.MaxThreads = 2

	total, err := driver.RunDRC(context.Background(), block, cfg, func(b *design.Block, nets []design.NetID) int {
		mu.Lock()
		seen = append(seen, nets...)
		mu.Unlock()
		return len(nets)
	})

	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.Len(t, seen, 7)
}
