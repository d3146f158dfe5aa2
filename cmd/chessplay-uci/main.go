package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/chessplay/engine/internal/engine"
	"github.com/chessplay/engine/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	// Create engine with 64MB hash table
	// Multi-threaded search enabled (Lazy SMP)
	eng := engine.NewEngine(64)

	// Resume any transposition table persisted from a previous run and
	// start spilling tablebase probe results to disk.
	if err := eng.EnablePersistence(); err != nil {
		log.Printf("persistence disabled: %v", err)
	}
	defer eng.Shutdown()

	// Create and run UCI protocol handler
	protocol := uci.New(eng)
	protocol.Run()
}
