package audio

import (
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const wavBitDepth = 16

// ToIntBuffer converts samples in [-1, 1] to a mono 16-bit PCM buffer.
func ToIntBuffer(samples []float32, sampleRate int) *goaudio.IntBuffer {
	const max = 32767
	data := make([]int, len(samples))
	for i, value := range samples {
		data[i] = int(value * max)
	}
	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
}

// WriteWAV encodes samples as a mono 16-bit WAV stream.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 1, 1)
	if err := enc.Write(ToIntBuffer(samples, sampleRate)); err != nil {
		return errors.Wrap(err, "failed to encode samples")
	}
	return enc.Close()
}

// SaveWAV ...
func SaveWAV(path string, samples []float32, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(file, samples, sampleRate); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return file.Close()
}
