package audio

import (
	"context"
	"log"
	"strings"

	"github.com/jinjor/wavetable-synth/src/synth"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// portIndex returns the first port whose name contains want, or the first
// port when want is empty.
func portIndex(names []string, want string) (int, error) {
	if len(names) == 0 {
		return -1, errors.New("MIDI IN not found")
	}
	if want == "" {
		return 0, nil
	}
	for i, name := range names {
		if strings.Contains(name, want) {
			return i, nil
		}
	}
	return -1, errors.Errorf("MIDI IN %q not found in %v", want, names)
}

func selectIn(ins []midi.In, want string) (midi.In, error) {
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	i, err := portIndex(names, want)
	if err != nil {
		return nil, err
	}
	return ins[i], nil
}

// ListenToMidiIn sends every message received on the port to the returned
// channel until ctx is done. An empty portName selects the first port.
// When no port can be opened the channel is closed right away.
func ListenToMidiIn(ctx context.Context, portName string) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		in, err := selectIn(ins, portName)
		if err != nil {
			log.Printf("WARN: %v\n", err)
			return
		}
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("MIDI queue is full")
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

// ForwardMidi decodes raw messages and queues them until ch is closed or
// ctx is done.
func ForwardMidi(ctx context.Context, ch <-chan []byte, a *Audio) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("ForwardMidi() interrupted")
			return nil
		case data, ok := <-ch:
			if !ok {
				log.Println("ForwardMidi() ended.")
				return nil
			}
			ev, ok := synth.DecodeMIDI(data)
			if !ok {
				continue
			}
			a.Send(synth.MIDICommand(ev))
		}
	}
}
