package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"github.com/jinjor/wavetable-synth/src/synth"
	"golang.org/x/sync/errgroup"
)

var (
	numSamples   = flag.Int("size", 1024, "samples per table")
	numOvertones = flag.Int("overtones", 32, "harmonics in the saw and square tables")
)

type shape struct {
	name      string
	overtones []synth.Overtone
}

func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		panic("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)

	shapes := []shape{
		{"saw", synth.DefaultOvertones(*numOvertones)},
		{"square", synth.SquareOvertones(*numOvertones)},
		{"sine", synth.SineOvertones()},
	}
	g, _ := errgroup.WithContext(context.Background())
	for _, s := range shapes {
		s := s
		g.Go(func() error {
			table := synth.BuildWaveTable(*numSamples, s.overtones)
			log.Printf("generated %s wave\n", s.name)
			err := synth.SaveWaveTableFile(filepath.Join(dir, s.name+".tbl"), table)
			log.Printf("saved %s wave\n", s.name)
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully generated wavetables.")
}
