package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/glowfish/internal/book"
	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	bookPath   = flag.String("book", "", "opening book file (default: built-in)")
	noBook     = flag.Bool("nobook", false, "disable the opening book")
)

func main() {
	flag.Parse()
	log.SetPrefix("[glowfish-uci] ")

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

	bk := book.Default()
	if *bookPath != "" {
		var err error
		if bk, err = book.Load(*bookPath); err != nil {
			log.Fatalf("could not load book: %v", err)
		}
	}

	eng := engine.NewEngine(bk)
	if *depth < 1 || *depth > 8 {
		log.Fatalf("depth must be 1..8, got %d", *depth)
	}
	eng.SetDepth(*depth)
	eng.SetBookEnabled(!*noBook)

	protocol := uci.New(eng, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("reading commands: %v", err)
	}
}
