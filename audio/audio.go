// Package audio provides procedurally synthesized sound for the intro:
// a continuous portal hum whose level follows proximity, a lock click,
// and the one-shot chime played when stepping through.
package audio

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// System owns the audio context and the streaming hum player.
type System struct {
	ctx       *oto.Context
	ready     chan struct{}
	humPlayer oto.Player
	hum       *humReader
}

var system *System

var sfxVolume float64 = 0.55

// Init creates the audio context. The context becomes usable once the
// ready channel closes; until then every Play call is a silent no-op,
// so callers never block on audio.
func Init() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	system = &System{ctx: ctx, ready: ready}
	return nil
}

// SetSFXVolume sets the one-shot effect volume in [0,1].
func SetSFXVolume(vol float64) {
	sfxVolume = clampF(vol, 0, 1)
}

// StartHum begins the looping portal drone at zero gain. Call SetHumGain
// each tick to follow the player's distance to the portal.
func StartHum() {
	if system == nil {
		return
	}
	select {
	case <-system.ready:
	default:
		return
	}
	if system.humPlayer != nil {
		return
	}
	system.hum = &humReader{seed: uint64(time.Now().UnixNano())}
	player := system.ctx.NewPlayer(system.hum)
	player.SetVolume(0.35)
	system.humPlayer = player
	player.Play()
}

// SetHumGain sets the hum target level in [0,1]. The reader eases toward
// it per-sample so gain steps never click.
func SetHumGain(gain float64) {
	if system == nil || system.hum == nil {
		return
	}
	atomic.StoreUint64(&system.hum.targetBits, math.Float64bits(clampF(gain, 0, 1)))
}

// StopHum closes the drone player, used during the handoff fade.
func StopHum() {
	if system == nil || system.humPlayer == nil {
		return
	}
	system.humPlayer.Close()
	system.humPlayer = nil
	system.hum = nil
}

// PlayLockClick plays a short click when the pointer is captured.
func PlayLockClick() { playOneShot(genLockClick()) }

// PlayEnterChime plays the ascending bell figure for the step-through.
func PlayEnterChime() { playOneShot(genEnterChime()) }

func playOneShot(samples []byte) {
	if system == nil || len(samples) == 0 {
		return
	}
	select {
	case <-system.ready:
	default:
		return
	}
	go func() {
		reader := &soundReader{data: samples}
		player := system.ctx.NewPlayer(reader)
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// putStereoF32LR writes independent left/right samples in [-1,1].
func putStereoF32LR(buf []byte, i int, left, right float64) {
	lv := math.Float32bits(float32(left))
	rv := math.Float32bits(float32(right))
	buf[i*8] = byte(lv)
	buf[i*8+1] = byte(lv >> 8)
	buf[i*8+2] = byte(lv >> 16)
	buf[i*8+3] = byte(lv >> 24)
	buf[i*8+4] = byte(rv)
	buf[i*8+5] = byte(rv >> 8)
	buf[i*8+6] = byte(rv >> 16)
	buf[i*8+7] = byte(rv >> 24)
}

// softSat applies gentle tanh-like saturation — no harsh clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
// carrier: base frequency, modRatio: modulator/carrier ratio, modIdx: modulation depth.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---- Portal hum ----------------------------------------------------------

// humReader streams the portal drone: two detuned low sines with a slow
// fifth shimmer and heavily lowpassed air noise. Gain eases toward the
// atomically published target so proximity updates are click-free.
type humReader struct {
	t          float64
	gain       float64
	targetBits uint64
	seed       uint64
	lp         float64
}

func (h *humReader) Read(p []byte) (int, error) {
	samples := len(p) / 8
	if samples == 0 {
		return 0, nil
	}
	target := math.Float64frombits(atomic.LoadUint64(&h.targetBits))
	const ease = 1.0 / (0.08 * SampleRate) // ~80 ms gain ramp

	for i := 0; i < samples && i*8+7 < len(p); i++ {
		h.t += 1.0 / SampleRate
		if h.gain < target {
			h.gain = math.Min(h.gain+ease, target)
		} else if h.gain > target {
			h.gain = math.Max(h.gain-ease, target)
		}

		// Low drone: root + slight detune gives a slow beat.
		root := math.Sin(2*math.Pi*55.0*h.t)*0.45 + math.Sin(2*math.Pi*55.4*h.t)*0.40

		// Fifth an octave up, breathing at ~0.23 Hz.
		breathe := 0.5 + 0.5*math.Sin(2*math.Pi*0.23*h.t)
		shimmer := math.Sin(2*math.Pi*165.0*h.t) * 0.12 * breathe

		// Air: strongly lowpassed noise floor.
		h.lp = h.lp*0.985 + lcg(&h.seed)*0.015
		air := h.lp * 0.8

		s := softSat((root + shimmer + air) * h.gain * 0.5)
		pan := 0.06 * math.Sin(2*math.Pi*0.11*h.t)
		putStereoF32LR(p, i, softSat(s*(1-pan)), softSat(s*(1+pan)))
	}
	return len(p), nil
}

// ---- One-shot effects ----------------------------------------------------

// genLockClick: crisp descending click, barely there.
func genLockClick() []byte {
	n := SampleRate * 60 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1200 - 500*p
		s := fm(t, freq, 1.0, 0.6) * env * 0.3
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genEnterChime: ascending FM bell arpeggio with a long ring-out.
func genEnterChime() []byte {
	freqs := []float64{392.0, 523.25, 659.25, 783.99, 1046.5} // G4 C5 E5 G5 C6
	noteLen := SampleRate * 110 / 1000
	tail := int(0.6 * SampleRate)
	total := len(freqs)*noteLen + tail
	mix := make([]float64, total)

	for fi, freq := range freqs {
		start := fi * noteLen
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.004, 0.5, 0.06, 0.4)
			s := fm(t, freq, 2.756, 4.5*env) * env * 0.3
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.07
			mix[start+j] += s
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}
