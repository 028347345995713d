package player

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/schollz/waveseg/internal/logger"
)

// OSC addresses understood by the audio engine
const (
	AddrPlay     = "/waveseg/play"
	AddrPause    = "/waveseg/pause"
	AddrSeek     = "/waveseg/seek"
	AddrPosition = "/waveseg/position"
	AddrStopped  = "/waveseg/stopped"
)

type sender interface {
	Send(packet osc.Packet) error
}

// OSC drives an external audio engine over OSC and keeps a local clock in
// between the position reports it sends back.
type OSC struct {
	*Clock
	client sender
	path   string
}

// NewOSC returns a player that sends transport messages for path to
// host:port
func NewOSC(host string, port int, path string, durationMs int64) *OSC {
	return &OSC{
		Clock:  NewClock(durationMs),
		client: osc.NewClient(host, port),
		path:   path,
	}
}

// Register adds the engine's position and stop reports to d
func (p *OSC) Register(d *osc.StandardDispatcher) error {
	if err := d.AddMsgHandler(AddrPosition, p.handlePosition); err != nil {
		return fmt.Errorf("register %s: %w", AddrPosition, err)
	}
	if err := d.AddMsgHandler(AddrStopped, p.handleStopped); err != nil {
		return fmt.Errorf("register %s: %w", AddrStopped, err)
	}
	return nil
}

func (p *OSC) Play() error {
	msg := osc.NewMessage(AddrPlay)
	msg.Append(p.path)
	msg.Append(int32(p.Clock.Position()))
	if err := p.client.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", AddrPlay, err)
	}
	return p.Clock.Play()
}

func (p *OSC) Pause() error {
	if err := p.client.Send(osc.NewMessage(AddrPause)); err != nil {
		return fmt.Errorf("send %s: %w", AddrPause, err)
	}
	return p.Clock.Pause()
}

func (p *OSC) Seek(ms int64) error {
	if err := p.Clock.Seek(ms); err != nil {
		return err
	}
	msg := osc.NewMessage(AddrSeek)
	msg.Append(int32(p.Clock.Position()))
	if err := p.client.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", AddrSeek, err)
	}
	return nil
}

func (p *OSC) handlePosition(msg *osc.Message) {
	if len(msg.Arguments) == 0 {
		return
	}
	switch v := msg.Arguments[0].(type) {
	case float32:
		p.sync(int64(v))
	case int32:
		p.sync(int64(v))
	default:
		logger.Warnf("unexpected %s argument %T", AddrPosition, v)
	}
}

func (p *OSC) handleStopped(msg *osc.Message) {
	p.Clock.Pause()
}
