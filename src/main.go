package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jinjor/wavetable-synth/src/audio"
	"github.com/jinjor/wavetable-synth/src/synth"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	presetPath = flag.String("preset", "", "preset file (JSON)")
	profile    = flag.String("profile", "desktop", "capacities when no preset is given: desktop or embedded")
	midiPort   = flag.String("midi-port", "", "MIDI IN port name (first port if empty)")
	noMidi     = flag.Bool("no-midi", false, "do not open MIDI IN")
	sockFile   = flag.String("sock", "/tmp/wavetable-synth.sock", "control socket")
	windowName = flag.String("window", "han", "spectrum window: han, hamming or blackman")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	preset, err := loadPreset()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	engine, err := preset.NewEngine()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Printf("preset %q: %+v\n", preset.Name, preset.Config)
	window, err := audio.WindowByName(*windowName)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}

	audio, err := audio.NewAudio(engine)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer audio.Close()
	audio.Window = window

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return audio.Start(ctx)
	})
	if !*noMidi {
		g.Go(func() error {
			return forwardMidi(ctx, audio)
		})
	}
	g.Go(func() error {
		return withIPCConnection(ctx, *sockFile, func(conn net.Conn) error {
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return receiveCommands(ctx, conn, audio)
			})
			g.Go(func() error {
				return sendReports(ctx, conn, audio)
			})
			return g.Wait()
		})
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
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

func forwardMidi(ctx context.Context, a *audio.Audio) error {
	return audio.ForwardMidi(ctx, audio.ListenToMidiIn(ctx, *midiPort), a)
}

func withIPCConnection(ctx context.Context, sockFileName string, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	log.Printf("start listening on %s...\n", sockFileName)
	conn, err := listener.Accept()
	if err != nil {
		select {
		case <-ctx.Done():
			return nil
		default:
			return err
		}
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			select {
			case <-ctx.Done():
				break loop
			default:
				return err
			}
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		log.Printf("received: %s\n", string(line))
		if err := handleLine(string(line), a); err != nil {
			log.Printf("rejected: %v\n", err)
			conn.Write([]byte("error " + url.QueryEscape(err.Error()) + "\n"))
		}
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func handleLine(line string, a *audio.Audio) error {
	tokens, err := parseCommand(line)
	if err != nil {
		return err
	}
	cmd, err := audio.ParseCommand(tokens)
	if err != nil {
		return err
	}
	a.Send(cmd)
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	frames := 0
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			frames++
			result := a.GetFFT()
			if result == nil {
				continue
			}
			s := "fft"
			for _, value := range result {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			if frames%60 == 0 {
				stats := a.Stats()
				s += fmt.Sprintf("\nstats %d %d %d", stats.ActiveVoices, stats.DroppedNotes, stats.Rendered)
			}
			select {
			case <-ctx.Done():
				log.Println("sendReports() interrupted")
				break loop
			default:
				if _, err := conn.Write([]byte(s + "\n")); err != nil {
					log.Printf("failed to send report: %v\n", err)
					break loop
				}
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
