package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"floodsim/internal/sims/waterworld"
	"floodsim/internal/terrain"
)

type paramSet struct {
	seed           int64
	rainChance     float64
	seasonalChance float64
	meanTemp       float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("seed=%d rain=%.4f seasonal=%.4f mean=%.1f", p.seed, p.rainChance, p.seasonalChance, p.meanTemp)
}

type scenarioResult struct {
	params       paramSet
	floodedPeak  int
	frozenPeak   int
	floodsPeak   int
	rainEvents   int
	seasonal     int
	reverted     int
	violations   int
	firstFlooded int
}

func main() {
	steps := flag.Int("steps", 4800, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 4, "seeds per parameter combination")
	width := flag.Int("w", 128, "world width")
	height := flag.Int("h", 96, "world height")
	savePath := flag.String("save", "", "write the best scenario's final snapshot to this file")
	flag.Parse()

	baseCfg := waterworld.DefaultConfig()
	baseCfg.Width = *width
	baseCfg.Height = *height

	rainOptions := []float64{0.002, 0.004, 0.008}
	seasonalOptions := []float64{0.001, 0.003, 0.006}
	meanOptions := []float64{2, 6, 10}

	var sets []paramSet
	for _, rain := range rainOptions {
		for _, seasonal := range seasonalOptions {
			for _, mean := range meanOptions {
				for s := 0; s < *seeds; s++ {
					sets = append(sets, paramSet{
						seed:           int64(1000 + s),
						rainChance:     rain,
						seasonalChance: seasonal,
						meanTemp:       mean,
					})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps)\n", len(sets), *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				res, err := runScenario(baseCfg, params, *steps, nil)
				if err != nil {
					log.Printf("scenario %s: %v", params, err)
					continue
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.violations > 0 {
			fmt.Printf("Ownership mismatch on %d ticks with %s\n", res.violations, res.params)
		}
	}
	if len(all) == 0 {
		log.Fatal("no scenario completed")
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].floodedPeak != all[j].floodedPeak {
			return all[i].floodedPeak > all[j].floodedPeak
		}
		return all[i].params.seed < all[j].params.seed
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop 5 results (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) flooded=%d frozen=%d floods=%d rain=%d seasonal=%d reverted=%d first=%d params=%s\n",
			i+1, res.floodedPeak, res.frozenPeak, res.floodsPeak, res.rainEvents, res.seasonal, res.reverted, res.firstFlooded, res.params)
	}

	if *savePath != "" {
		best := all[0].params
		f, err := os.Create(*savePath)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := runScenario(baseCfg, best, *steps, f); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nSaved best scenario (%s) to %s\n", best, *savePath)
	}
}

// runScenario steps a fresh world and tracks peaks plus ownership mismatches.
// When out is set the final state is written to it.
func runScenario(base waterworld.Config, params paramSet, steps int, out io.Writer) (scenarioResult, error) {
	cfg := base
	cfg.Seed = params.seed
	cfg.Params.RainChance = params.rainChance
	cfg.Params.SeasonalChance = params.seasonalChance
	cfg.Params.MeanTemperature = params.meanTemp

	world, err := waterworld.NewWithConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return scenarioResult{}, err
	}

	res := scenarioResult{params: params, firstFlooded: -1}
	for step := 0; step < steps; step++ {
		world.Step()
		st := world.Stats()
		res.floodedPeak = max(res.floodedPeak, st.FloodedCells)
		res.frozenPeak = max(res.frozenPeak, st.FrozenCells)
		res.floodsPeak = max(res.floodsPeak, st.Floods)
		if res.firstFlooded < 0 && st.FloodedCells > 0 {
			res.firstFlooded = step + 1
		}
		if overrides(world.Store()) != st.FloodedCells+st.FrozenCells {
			res.violations++
		}
	}
	st := world.Stats()
	res.rainEvents = st.RainEvents
	res.seasonal = st.SeasonalTriggers
	res.reverted = st.Reverted

	if out != nil {
		if err := world.Save(out); err != nil {
			return res, err
		}
	}
	return res, nil
}

func overrides(store *terrain.Store) int {
	size := store.Size()
	total := 0
	for idx := 0; idx < size.Area(); idx++ {
		if store.HasTemporaryTerrain(size.CellAt(idx)) {
			total++
		}
	}
	return total
}
