package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundPlace SoundType = iota
	SoundAIPlace
	SoundInvalid
	SoundWin
	SoundLoss
	SoundDraw
)

const sampleRate = 44100

// AudioManager handles sound effect playback.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager() *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte),
		enabled: true,
		volume:  0.5,
	}
	am.sounds[SoundPlace] = click(440, 0.08, 0.3)
	am.sounds[SoundAIPlace] = click(330, 0.08, 0.25)
	am.sounds[SoundInvalid] = buzz(150, 0.1, 0.3)
	am.sounds[SoundWin] = chord([]float64{261.63, 329.63, 392.00}, 0.4, 0.5) // C major
	am.sounds[SoundLoss] = chord([]float64{220.00, 261.63, 329.63}, 0.4, 0.4) // A minor
	am.sounds[SoundDraw] = concat(click(400, 0.06, 0.3), silence(0.05), click(440, 0.06, 0.24))
	return am
}

// synth renders a mono waveform as 16-bit little-endian stereo PCM.
// wave gets the time in seconds and the progress through the sound in [0, 1).
func synth(duration float64, wave func(t, progress float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		sample := math.Max(-1, math.Min(1, wave(t, t/duration)))
		val := int16(sample * 32767)
		data[i*4] = byte(val)
		data[i*4+1] = byte(val >> 8)
		data[i*4+2] = byte(val)
		data[i*4+3] = byte(val >> 8)
	}
	return data
}

// click is a short percussive knock with exponential decay.
func click(freq, duration, amplitude float64) []byte {
	return synth(duration, func(t, _ float64) float64 {
		noise := (math.Sin(t*sampleRate*0.3) + math.Sin(t*sampleRate*0.7)) * 0.3
		return (math.Sin(2*math.Pi*freq*t) + noise) * math.Exp(-t*30) * amplitude
	})
}

// buzz is a low error tone fading out linearly.
func buzz(freq, duration, amplitude float64) []byte {
	return synth(duration, func(t, progress float64) float64 {
		wave := math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t)
		return wave * (1 - progress) * amplitude * 0.5
	})
}

// chord sounds freqs together, fading in and out.
func chord(freqs []float64, duration, amplitude float64) []byte {
	return synth(duration, func(t, progress float64) float64 {
		envelope := 1.0
		switch {
		case progress < 0.1:
			envelope = progress / 0.1
		case progress > 0.7:
			envelope = (1 - progress) / 0.3
		}
		sum := 0.0
		for _, f := range freqs {
			sum += math.Sin(2 * math.Pi * f * t)
		}
		return sum / float64(len(freqs)) * envelope * amplitude
	})
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	// A player per call lets sounds overlap.
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
