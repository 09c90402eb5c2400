// Package audio is the audio backend. It owns the speaker and a mixer;
// playback requests are streamed into the mixer, mixed under a master
// volume, and written to the device by the speaker goroutine.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/config"
)

// Manager wraps speaker lifecycle and mixing.
type Manager struct {
	cfg         config.AudioConfig
	log         *zap.Logger
	mixer       *beep.Mixer
	initialized bool
}

// NewManager creates an audio backend. The speaker is not touched
// until Initialize.
func NewManager(cfg config.AudioConfig, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, log: log.Named("audio")}
}

// Initialize opens the speaker at the configured sample rate and
// starts the mixer. With audio disabled in config this is a no-op and
// Play becomes inert.
func (m *Manager) Initialize() error {
	if !m.cfg.Enabled {
		m.log.Info("audio disabled")
		return nil
	}

	sampleRate := beep.SampleRate(m.cfg.SampleRate)
	buffer := sampleRate.N(time.Duration(m.cfg.BufferMillis) * time.Millisecond)
	if err := speaker.Init(sampleRate, buffer); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	m.mixer = &beep.Mixer{}
	volume := &effects.Volume{
		Streamer: m.mixer,
		Base:     2,
		Silent:   m.cfg.MasterVolume == 0,
	}
	if m.cfg.MasterVolume > 0 {
		volume.Volume = math.Log2(m.cfg.MasterVolume)
	}
	speaker.Play(volume)

	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", m.cfg.SampleRate))
	return nil
}

// Play adds a streamer to the mix. Safe to call from any goroutine.
func (m *Manager) Play(s beep.Streamer) {
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// Update is the per-tick hook; mixing happens on the speaker goroutine.
func (m *Manager) Update(time.Duration) {}

// Shutdown silences the mixer and releases the device.
func (m *Manager) Shutdown() error {
	if m.initialized {
		speaker.Clear()
		speaker.Close()
		m.initialized = false
	}
	m.log.Info("audio shut down")
	return nil
}
