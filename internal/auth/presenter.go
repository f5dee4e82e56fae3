package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/neekaru/whatsapp-gateway/internal/config"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

// Image rendering parameters for the pairing code
const (
	ImageSize = 400
)

// RenderError reports that a pairing payload could not be turned into an artifact
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render QR code: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Artifact is a rendered pairing payload
type Artifact struct {
	PNG         []byte
	DataURL     string
	Terminal    string
	GeneratedAt time.Time
}

// Presenter renders pairing payloads and keeps the most recent one
type Presenter struct {
	mode     string
	terminal io.Writer
	logger   zerolog.Logger

	mu     sync.RWMutex
	latest *Artifact
}

// NewPresenter creates a presenter. terminal receives glyph output in the
// terminal and both modes; it may be nil to only keep the glyphs in memory.
func NewPresenter(mode string, terminal io.Writer, logger zerolog.Logger) *Presenter {
	return &Presenter{
		mode:     mode,
		terminal: terminal,
		logger:   logger.With().Str("component", "qr").Logger(),
	}
}

// OnPairingPayload renders raw and replaces the latest artifact. On failure the
// previous artifact is kept.
func (p *Presenter) OnPairingPayload(raw string) {
	artifact, err := p.render(raw)
	if err != nil {
		p.logger.Error().Err(err).Msg("Error generating QR code")
		return
	}

	p.mu.Lock()
	p.latest = artifact
	p.mu.Unlock()

	if artifact.Terminal != "" && p.terminal != nil {
		fmt.Fprintf(p.terminal, "Scan this QR code with WhatsApp:\n%s\n", artifact.Terminal)
	}
	p.logger.Info().Msg("New QR code generated (open /qr to scan it)")
}

// Latest returns the current artifact, or false if none is available
func (p *Presenter) Latest() (Artifact, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return Artifact{}, false
	}
	return *p.latest, true
}

// Clear drops the current artifact once pairing is no longer needed
func (p *Presenter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest != nil {
		p.logger.Debug().Msg("Clearing QR code")
	}
	p.latest = nil
}

// OnTransition renders qr payloads and clears the artifact when the session is ready.
func (p *Presenter) OnTransition(t client.Transition) {
	switch {
	case t.Event.Type == client.EventQR:
		p.OnPairingPayload(t.Event.Payload)
	case t.To == client.StateReady:
		p.Clear()
	}
}

func (p *Presenter) render(raw string) (*Artifact, error) {
	if raw == "" {
		return nil, &RenderError{Err: fmt.Errorf("empty pairing payload")}
	}

	qr, err := qrcode.New(raw, qrcode.Medium)
	if err != nil {
		return nil, &RenderError{Err: fmt.Errorf("failed to encode QR code: %w", err)}
	}

	artifact := &Artifact{GeneratedAt: time.Now()}

	if p.mode != config.QRModeTerminal {
		qr.ForegroundColor = color.Black
		qr.BackgroundColor = color.White
		png, err := qr.PNG(ImageSize)
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("failed to generate PNG: %w", err)}
		}
		artifact.PNG = png
		artifact.DataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}

	if p.mode != config.QRModeImage {
		glyphs, err := renderTerminal(raw)
		if err != nil {
			return nil, &RenderError{Err: err}
		}
		artifact.Terminal = glyphs
	}

	return artifact, nil
}

// renderTerminal draws half-block glyphs. qrterminal does not return encoding
// errors, so a panic inside it is reported as an error.
func renderTerminal(raw string) (glyphs string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to draw terminal QR code: %v", r)
		}
	}()

	var buf bytes.Buffer
	qrterminal.GenerateWithConfig(raw, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         &buf,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
	return buf.String(), nil
}
