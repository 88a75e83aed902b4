package audio

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/wavetable-synth/src/synth"
)

const (
	channelNum       = 2
	bitDepthInBytes  = 2
	samplesPerCycle  = 1024
	fftSize          = 2048 // multiple of samplesPerCycle
	commandQueueSize = 256
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096

// ----- Audio ----- //

// Audio pulls samples out of an Engine and encodes them for the device.
//
// Only the goroutine calling Read touches the engine. Other goroutines talk
// to it through Send.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	engine     *synth.Engine
	commandCh  chan synth.Command
	out        []float32
	dropped    uint64

	// Window is applied before the spectrum is taken.
	Window func([]float64)

	sync.Mutex // guards the fields below
	history    []float64 // length: fftSize
	pos        int64
	stats      synth.Stats
	fftResult  []float64 // length: fftSize
}

var _ io.Reader = (*Audio)(nil)

func newAudio(engine *synth.Engine) *Audio {
	return &Audio{
		ctx:       context.Background(),
		engine:    engine,
		commandCh: make(chan synth.Command, commandQueueSize),
		out:       make([]float32, samplesPerCycle),
		Window:    Han,
		history:   make([]float64, fftSize),
		fftResult: make([]float64, fftSize),
	}
}

// NewAudio opens the audio device at the engine's sample rate.
func NewAudio(engine *synth.Engine) (*Audio, error) {
	otoContext, err := oto.NewContext(engine.Config().SampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	a := newAudio(engine)
	a.otoContext = otoContext
	return a, nil
}

// Send queues a command for the render goroutine. It never blocks: when the
// queue is full the command is dropped and false is returned.
func (a *Audio) Send(cmd synth.Command) bool {
	select {
	case a.commandCh <- cmd:
		return true
	default:
		log.Printf("command queue is full, dropped command %v\n", cmd.Kind)
		return false
	}
}

func (a *Audio) applyCommands() {
	for {
		select {
		case cmd := <-a.commandCh:
			if err := a.engine.Apply(cmd); err != nil {
				log.Printf("failed to apply command: %v\n", err)
			}
		default:
			return
		}
	}
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	a.applyCommands()

	bufSamples := len(buf) / bytesPerSample
	if bufSamples > len(a.out) {
		a.out = make([]float32, bufSamples)
	}
	out := a.out[:bufSamples]
	a.engine.Render(out)
	writeBuffer(out, buf, 0)
	writeBuffer(out, buf, 1)

	stats := a.engine.Stats()
	if stats.DroppedNotes > a.dropped {
		log.Printf("no voice left, dropped %d note(s)\n", stats.DroppedNotes-a.dropped)
		a.dropped = stats.DroppedNotes
	}

	a.Lock()
	for _, value := range out {
		a.history[a.pos%fftSize] = float64(value)
		a.pos++
	}
	a.stats = stats
	a.Unlock()
	return bufSamples * bytesPerSample, nil
}

func writeBuffer(out []float32, buf []byte, ch int) {
	for i, value := range out {
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start plays until ctx is cancelled.
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Stats returns the engine stats as of the last buffer.
func (a *Audio) Stats() synth.Stats {
	a.Lock()
	defer a.Unlock()
	return a.stats
}

// GetFFT returns the magnitude spectrum of the latest fftSize samples,
// or nil if nothing has been rendered yet.
func (a *Audio) GetFFT() []float64 {
	a.Lock()
	if a.pos == 0 {
		a.Unlock()
		return nil
	}
	// history: | 4 | 1 | 2 | 3 |
	// offset:      ^
	// result:  | 1 | 2 | 3 | 4 |
	// return:  |<----->|
	offset := a.pos % fftSize
	copy(a.fftResult, a.history[offset:])
	copy(a.fftResult[fftSize-offset:], a.history[:offset])
	a.Unlock()
	a.Window(a.fftResult)
	if err := fft.CalcAbs(a.fftResult); err != nil {
		log.Printf("failed to calculate FFT: %v\n", err)
		return nil
	}
	for i, value := range a.fftResult {
		a.fftResult[i] = value * 2 / fftSize
	}
	return a.fftResult[:fftSize/2]
}
