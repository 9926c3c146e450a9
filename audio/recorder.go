package audio

import (
	"bufio"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/youpy/go-wav"
)

const (
	recordChannels      = 2
	recordBitsPerSample = 16
	recordChunkFrames   = sampleRate // one second per chunk
)

// Recorder collects master output and encodes it as a 16-bit stereo WAV
// file. It stops collecting once maxFrames frames have been recorded.
//
// Samples are kept as interleaved 16-bit PCM in fixed size chunks. A
// goroutine prepares the next chunk ahead of time, so Listen doesn't allocate
// on the audio thread.
type Recorder struct {
	mu        sync.Mutex
	chunks    [][]int16 // every chunk is full except the last one
	frames    int
	maxFrames int
	truncated bool
	dropped   int

	spare chan []int16
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewRecorder(maxSeconds float64) *Recorder {
	r := newRecorder(int(maxSeconds * sampleRate))
	r.wg.Add(1)
	go r.allocate()
	return r
}

func newRecorder(maxFrames int) *Recorder {
	r := &Recorder{
		maxFrames: maxFrames,
		chunks:    make([][]int16, 1, maxFrames/recordChunkFrames+1),
		spare:     make(chan []int16, 2),
		quit:      make(chan struct{}),
	}
	r.chunks[0] = newChunk()
	return r
}

func newChunk() []int16 {
	return make([]int16, 0, recordChunkFrames*recordChannels)
}

func (r *Recorder) allocate() {
	defer r.wg.Done()
	for {
		select {
		case r.spare <- newChunk():
		case <-r.quit:
			return
		}
	}
}

func (r *Recorder) Listen(samples [][]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for j := range samples[0] {
		if r.frames >= r.maxFrames {
			r.truncated = true
			return
		}
		chunk := r.chunks[len(r.chunks)-1]
		if len(chunk) == cap(chunk) {
			select {
			case chunk = <-r.spare:
				r.chunks = append(r.chunks, chunk)
			default:
				r.dropped += len(samples[0]) - j
				return
			}
		}
		for i := 0; i < recordChannels; i++ {
			var v int16
			if i < len(samples) {
				v = toPCM16(samples[i][j])
			}
			chunk = append(chunk, v)
		}
		r.chunks[len(r.chunks)-1] = chunk
		r.frames++
	}
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Duration() time.Duration {
	return time.Duration(r.Frames()) * time.Second / sampleRate
}

func (r *Recorder) Truncated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.truncated
}

// Dropped returns the number of frames lost because no chunk was ready.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) Encode(w io.Writer) error {
	r.mu.Lock()
	chunks := make([][]int16, len(r.chunks))
	copy(chunks, r.chunks)
	frames := r.frames
	r.mu.Unlock()

	writer := wav.NewWriter(w, uint32(frames), recordChannels, sampleRate, recordBitsPerSample)
	samples := make([]wav.Sample, 0, recordChunkFrames)
	for _, chunk := range chunks {
		samples = samples[:0]
		for j := 0; j+recordChannels <= len(chunk); j += recordChannels {
			var s wav.Sample
			for i := 0; i < recordChannels; i++ {
				s.Values[i] = int(chunk[j+i])
			}
			samples = append(samples, s)
		}
		if err := writer.WriteSamples(samples); err != nil {
			return errors.Wrap(err, "write wav samples")
		}
	}
	return nil
}

// Save writes the recording to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create recording")
	}
	w := bufio.NewWriter(f)
	if err := r.Encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "write recording")
	}
	return errors.Wrap(f.Close(), "close recording")
}

// Close stops preparing chunks. The recording can still be saved.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.quit) })
	r.wg.Wait()
}

func toPCM16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
