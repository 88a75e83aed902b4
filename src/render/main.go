package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jinjor/wavetable-synth/src/audio"
	"github.com/jinjor/wavetable-synth/src/synth"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	presetPath = flag.String("preset", "", "preset file (JSON)")
	profile    = flag.String("profile", "desktop", "capacities when no preset is given: desktop or embedded")
	outDir     = flag.String("out", ".", "output directory")
	hold       = flag.Float64("hold", 1, "seconds each note is held")
	tail       = flag.Float64("tail", 1, "seconds rendered after the notes are released")
	velocity   = flag.Int("velocity", 100, "note velocity (1-127)")
	chord      = flag.Bool("chord", false, "also render all notes together into chord.wav")
)

// job is one WAV file: a set of notes pressed together.
type job struct {
	name  string
	notes []uint8
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: render [flags] note...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	notes, err := parseNotes(flag.Args())
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	if *velocity < 1 || *velocity > 127 {
		log.Fatalf("error: velocity %d out of range\n", *velocity)
	}
	preset, err := loadPreset()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}

	jobs := make([]job, 0, len(notes)+1)
	for _, note := range notes {
		jobs = append(jobs, job{name: strconv.Itoa(int(note)), notes: []uint8{note}})
	}
	if *chord {
		jobs = append(jobs, job{name: "chord", notes: notes})
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			path := filepath.Join(*outDir, j.name+".wav")
			samples, err := render(preset, j.notes)
			if err != nil {
				return errors.Wrap(err, j.name)
			}
			if err := audio.SaveWAV(path, samples, preset.Config.SampleRate); err != nil {
				return err
			}
			log.Printf("saved %s\n", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully rendered.")
}

func loadPreset() (*synth.Preset, error) {
	if *presetPath != "" {
		return synth.LoadPreset(*presetPath)
	}
	switch *profile {
	case "desktop":
		return synth.DefaultPreset(synth.DesktopConfig())
	case "embedded":
		return synth.DefaultPreset(synth.EmbeddedConfig())
	}
	return nil, errors.Errorf("unknown profile %q", *profile)
}

func parseNotes(args []string) ([]uint8, error) {
	notes := make([]uint8, 0, len(args))
	for _, arg := range args {
		for _, s := range strings.Split(arg, ",") {
			note, err := strconv.ParseUint(s, 10, 8)
			if err != nil || note > 127 {
				return nil, errors.Errorf("invalid note %q", s)
			}
			notes = append(notes, uint8(note))
		}
	}
	return notes, nil
}

// render plays the notes through a fresh engine.
func render(preset *synth.Preset, notes []uint8) ([]float32, error) {
	engine, err := preset.NewEngine()
	if err != nil {
		return nil, err
	}
	sampleRate := float64(preset.Config.SampleRate)
	holdSamples := int(math.Round(*hold * sampleRate))
	tailSamples := int(math.Round(*tail * sampleRate))
	samples := make([]float32, holdSamples+tailSamples)

	for _, note := range notes {
		if !engine.Play(note, uint8(*velocity)) {
			log.Printf("no voice left for note %d\n", note)
		}
	}
	engine.Render(samples[:holdSamples])
	for _, note := range notes {
		engine.Stop(note)
	}
	engine.Render(samples[holdSamples:])
	return samples, nil
}
