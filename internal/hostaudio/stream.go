// Package hostaudio drives a render.Driver out the platform's audio
// device. It is the engine's one concession to owning device I/O: the
// graph itself and the render driver pulling it are platform-agnostic,
// but something has to hand ebiten/oto bytes, and this is that something.
package hostaudio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/arrowgraph/arrowgraph/internal/render"
)

// driverSource adapts a *render.Driver to the float32-buffer-filling
// shape the stream reader below expects, so the reader itself doesn't
// need to know anything about frames-vs-channels.
type driverSource struct {
	driver   *render.Driver
	channels int
}

func (s *driverSource) Process(dst []float32) {
	frames := len(dst) / s.channels
	n := s.driver.RenderBlock(frames, dst)
	written := n * s.channels
	for i := written; i < len(dst); i++ {
		dst[i] = 0
	}
}

// StreamReader implements io.Reader over a driverSource, converting
// float32 samples to the little-endian byte stream ebiten's audio
// context expects.
type StreamReader struct {
	mu     sync.Mutex
	source *driverSource
	buf    []float32
}

func newStreamReader(source *driverSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8 // 2 channels * 4 bytes/float32, matching NewPlayerF32's stereo contract
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return frames * 8, nil
}

func (r *StreamReader) Close() error { return nil }

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
	contextErr  error
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextErr != nil {
		return nil, contextErr
	}
	if contextRate != sampleRate {
		return nil, fmt.Errorf("hostaudio: context already opened at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// Stream owns the platform player for a single render.Driver.
type Stream struct {
	player *ebitaudio.Player
	reader *StreamReader
}

// NewStream opens a stereo float32 stream backed by driver.
func NewStream(driver *render.Driver, sampleRate int) (*Stream, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := newStreamReader(&driverSource{driver: driver, channels: 2})
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Stream{player: pl, reader: reader}, nil
}

func (s *Stream) Play()                   { s.player.Play() }
func (s *Stream) Pause()                  { s.player.Pause() }
func (s *Stream) IsPlaying() bool          { return s.player.IsPlaying() }
func (s *Stream) Position() time.Duration { return s.player.Position() }

func (s *Stream) Stop() error {
	s.player.Pause()
	s.player.Close()
	return s.reader.Close()
}
