package main

import (
	"context"
	"flag"
	"log"
	"time"

	"git.gammaspectra.live/P2Pool/econsim/archive"
	"git.gammaspectra.live/P2Pool/econsim/sim"
	"git.gammaspectra.live/P2Pool/econsim/utils"
)

const recentWindowSize = 128

func main() {
	minerCount := flag.Int("miners", 25, "Number of miners at genesis")
	blockReward := flag.Float64("reward", 6.25, "Block reward, credited scaled by price")
	seed := flag.Uint64("seed", 1, "Master random seed")
	ticks := flag.Uint64("ticks", 1000, "Number of ticks to simulate")
	gridWidth := flag.Int("grid-width", 10, "Placement grid width, passed through to reporters")
	gridHeight := flag.Int("grid-height", 10, "Placement grid height, passed through to reporters")
	archivePath := flag.String("archive", "", "Path to the bbolt tick archive, empty disables archiving")
	apiAddr := flag.String("api", "", "Listen address for the reporting API, empty disables it")
	interval := flag.Duration("interval", 0, "Wall clock pause between ticks, 0 runs at full speed")
	debugLog := flag.Bool("debug", false, "Enable notice/debug logging")
	flag.Parse()

	if *debugLog {
		utils.GlobalLogLevel |= utils.LogLevelNotice | utils.LogLevelDebug
	}

	cfg := sim.DefaultConfig()
	cfg.Miners = *minerCount
	cfg.BlockReward = *blockReward
	cfg.GridWidth = *gridWidth
	cfg.GridHeight = *gridHeight

	engine, err := sim.New(cfg, *seed)
	if err != nil {
		log.Panic(err)
	}

	var arc *archive.Archive
	if *archivePath != "" {
		if arc, err = archive.New(*archivePath); err != nil {
			log.Panic(err)
		}
		defer arc.Close()
	}

	state := newServerState(recentWindowSize)

	engine.SetCollector(sim.CollectorFunc(func(model sim.ModelSnapshot, agents []sim.AgentSnapshot) {
		if arc != nil {
			arc.Collect(model, agents)
		}
		state.update(model, agents)
		broadcastTick(model)
	}))

	if *apiAddr != "" {
		go func() {
			if err := serveApi(*apiAddr, state, arc, cfg); err != nil {
				log.Panic(err)
			}
		}()
		log.Printf("[API] Serving on %s", *apiAddr)
	}

	ctx := context.Background()
	started := time.Now()

	if *interval > 0 {
		ticker := utils.ContextTick(ctx, *interval)
		for i := uint64(0); i < *ticks; i++ {
			<-ticker
			engine.Step()
		}
	} else if err := engine.Run(ctx, *ticks); err != nil {
		log.Panic(err)
	}

	model, agents := engine.Snapshot()
	log.Printf("[ECON] Simulated %d ticks in %.02f seconds", model.Tick, time.Now().Sub(started).Seconds())
	log.Printf("[ECON] Blocks mined %d, difficulty %.02f, price %.02f, total hash rate %.02f, %d/%d miners active",
		model.BlocksMined, model.Difficulty, model.Price, model.TotalHashRate, model.ActiveMiners, len(agents))

	if *apiAddr != "" {
		log.Printf("[API] Simulation finished, still serving on %s", *apiAddr)
		select {}
	}
}
