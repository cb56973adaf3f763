package timeline

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

// Format is the PCM layout every segment of one dubbing must share.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz/%d ch/%d bit", f.SampleRate, f.Channels, f.BitDepth)
}

// frameDuration converts a frame count to a duration at the given rate.
func frameDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(frames) * int64(time.Second) / int64(sampleRate))
}

// decode reads a whole PCM WAV file.
func decode(path string) (*audio.IntBuffer, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Format{}, faults.Detail(faults.ErrIO, "open "+path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, Format{}, faults.Detail(faults.ErrAudioFormat, path+": not a valid wav file", d.Err())
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, Format{}, faults.Detail(faults.ErrAudioFormat, "decode "+path, err)
	}
	format := Format{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, Format{}, faults.Detail(faults.ErrAudioFormat, path+": missing sample rate or channel count", nil)
	}
	return buf, format, nil
}

// Measure returns the playback duration of a PCM WAV file.
func Measure(path string) (time.Duration, error) {
	buf, format, err := decode(path)
	if err != nil {
		return 0, err
	}
	return frameDuration(len(buf.Data)/format.Channels, format.SampleRate), nil
}

// Write encodes samples as a PCM WAV file at path.
func Write(path string, format Format, samples []int) error {
	f, err := os.Create(path)
	if err != nil {
		return faults.Detail(faults.ErrIO, "create "+path, err)
	}

	enc := wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           samples,
		SourceBitDepth: format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return faults.Detail(faults.ErrIO, "encode "+path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return faults.Detail(faults.ErrIO, "finalize "+path, err)
	}
	if err := f.Close(); err != nil {
		return faults.Detail(faults.ErrIO, "close "+path, err)
	}
	return nil
}
