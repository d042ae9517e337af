package mpv

import (
	"bufio"
	"fmt"
	"net"

	"github.com/0bVdnt/PixlTouch/internal/media"
)

// observed lists the properties the listener subscribes to.
var observed = []string{
	"pause",
	"paused-for-cache",
	"idle-active",
	"time-pos",
	"duration",
	"speed",
	"eof-reached",
}

// props is the last reported value of every observed property.
type props struct {
	paused   bool
	caching  bool
	idle     bool
	eof      bool
	timePos  float64
	duration float64
	speed    float64
}

// apply folds one property-change event into p. It reports whether the
// event touched a property that affects the time-control status.
func (p *props) apply(name string, data any) bool {
	switch name {
	case "pause":
		p.paused = asBool(data)
	case "paused-for-cache":
		p.caching = asBool(data)
	case "idle-active":
		p.idle = asBool(data)
	case "eof-reached":
		p.eof = asBool(data)
	case "time-pos":
		if v, ok := asFloat(data); ok {
			p.timePos = v
		}
		return false
	case "duration":
		if v, ok := asFloat(data); ok {
			p.duration = v
		} else {
			p.duration = 0
		}
		return false
	case "speed":
		if v, ok := asFloat(data); ok {
			p.speed = v
		}
		return false
	default:
		return false
	}
	return true
}

// status maps the property set onto the time-control status.
func (p *props) status() media.Status {
	switch {
	case p.idle:
		return media.Waiting(media.WaitNoItemToPlay)
	case p.paused || p.eof:
		return media.Paused()
	case p.caching:
		return media.Waiting(media.WaitToMinimizeStalls)
	default:
		return media.Playing()
	}
}

// listen subscribes on a dedicated connection and forwards every
// property-change to the client until the connection closes.
func (c *Client) listen() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := encodeCommand([]any{"observe_property", i + 1, name}, 0)
		if err != nil {
			conn.Close()
			return err
		}
		if _, err := conn.Write(payload); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	c.mu.Lock()
	c.events = conn
	c.mu.Unlock()

	go c.readLoop(conn)

	c.log.WithField("socket", c.socketPath).Infof("mpv event listener started (observing %d properties)", len(observed))
	return nil
}

func (c *Client) readLoop(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, readBufSize), 1<<20)
	for scanner.Scan() {
		msg, err := decodeMessage(scanner.Bytes())
		if err != nil {
			continue
		}
		if msg.Event == "property-change" {
			c.handleProperty(msg.Name, msg.Data)
		}
	}
	if err := scanner.Err(); err != nil {
		c.log.Warnf("mpv event listener read error: %v", err)
	}
}

func (c *Client) handleProperty(name string, data any) {
	c.mu.Lock()
	changed := c.props.apply(name, data)
	status := c.props.status()
	emit := changed && status != c.lastStatus
	if emit {
		c.lastStatus = status
	}
	fns := make([]func(media.Status), 0, len(c.statusFns))
	for _, fn := range c.statusFns {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	if !emit {
		return
	}
	for _, fn := range fns {
		fn(status)
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || !media.Finite(f) {
		return 0, false
	}
	return f, true
}
