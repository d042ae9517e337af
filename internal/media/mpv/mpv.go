// Package mpv drives an external mpv process over its JSON IPC socket and
// exposes it as a media.Player.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

var ErrSocketNotReady = errors.New("mpv socket not ready")

type Options struct {
	Binary string
	Target string
	Title  string
	Logger logrus.FieldLogger

	// LogFile, when set, makes mpv write its own log there.
	LogFile string
}

// Client implements media.Player for one mpv process. Commands are queued
// to a writer goroutine and never wait for mpv.
type Client struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	log        logrus.FieldLogger

	writeMu sync.Mutex

	queue      *commandQueue
	stopWriter chan struct{}
	writerDone chan struct{}
	stopOnce   sync.Once

	mu          sync.Mutex
	events      net.Conn
	props       props
	lastStatus  media.Status
	backward    bool
	nextID      int
	statusFns   map[int]func(media.Status)
	nextRequest int
	inflight    map[int]any
}

// newClient builds a client for socketPath and starts its writer.
func newClient(socketPath string, log logrus.FieldLogger) *Client {
	c := &Client{
		socketPath: socketPath,
		exited:     make(chan struct{}),
		log:        log,
		queue:      newCommandQueue(),
		stopWriter: make(chan struct{}),
		writerDone: make(chan struct{}),
		lastStatus: media.Paused(),
		statusFns:  make(map[int]func(media.Status)),
		inflight:   make(map[int]any),
		props:      props{paused: true, speed: 1},
	}
	go c.writeLoop()
	return c
}

// Start launches mpv paused on the target and connects to its socket.
func Start(ctx context.Context, opts Options) (*Client, error) {
	target, err := sanitizeMediaTarget(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}

	c := newClient(filepath.Join(os.TempDir(), fmt.Sprintf("pixltouch-%x.sock", randomBytes)), log)

	title := sanitizeTitle(opts.Title)
	if title == "" {
		title = filepath.Base(target)
	}

	c.cmd = exec.CommandContext(ctx, opts.Binary, buildArgs(c.socketPath, title, target, opts.LogFile)...)
	c.cmd.SysProcAttr = sysProcAttr()
	if err := c.cmd.Start(); err != nil {
		c.stopCommands()
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	go func() {
		_ = c.cmd.Wait()
		close(c.exited)
	}()

	if err := c.waitForSocket(); err != nil {
		select {
		case <-c.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(c.cmd)
		}
		c.stopCommands()
		return nil, err
	}

	if err := c.listen(); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.WithField("target", target).Info("mpv started")
	return c, nil
}

func buildArgs(socketPath, title, target, logFile string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
	}
	if logFile != "" {
		args = append(args, fmt.Sprintf("--log-file=%s", logFile))
	}
	return append(args, "--", target)
}

func (c *Client) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-c.exited:
			return fmt.Errorf("%w: mpv exited", ErrSocketNotReady)
		default:
		}

		conn, err := net.Dial("unix", c.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrSocketNotReady, c.socketPath, socketWaitRetries)
}

// Wait returns a channel closed when the mpv process exits.
func (c *Client) Wait() <-chan struct{} {
	return c.exited
}

func (c *Client) running() error {
	select {
	case <-c.exited:
		return media.ErrNotRunning
	default:
		return nil
	}
}

// command queues args for the writer. Commands sharing a non-empty key
// coalesce while queued. Failures surface in the log, not here.
func (c *Client) command(key string, args ...any) error {
	if err := c.running(); err != nil {
		return err
	}
	if !c.queue.push(key, args...) {
		return media.ErrNotRunning
	}
	return nil
}

func (c *Client) Play() error {
	return c.command(keyPause, "set_property", "pause", false)
}

func (c *Client) Pause() error {
	return c.command(keyPause, "set_property", "pause", true)
}

// SetRate maps negative rates onto backward playback; mpv's speed is
// always positive.
func (c *Client) SetRate(rate float64) error {
	if !media.Finite(rate) {
		return nil
	}
	if rate == 0 {
		return c.Pause()
	}
	backward := rate < 0

	c.mu.Lock()
	switchDir := backward != c.backward
	c.backward = backward
	c.mu.Unlock()

	if switchDir {
		if err := c.command(keyDirection, "set_property", "play-direction", direction(backward)); err != nil {
			return err
		}
	}
	return c.command(keySpeed, "set_property", "speed", math.Abs(rate))
}

func (c *Client) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backward {
		return -c.props.speed
	}
	return c.props.speed
}

func (c *Client) Seek(seconds float64) error {
	return c.command(keySeek, seekArgs(seconds, false)...)
}

func (c *Client) SeekPrecisely(seconds float64) error {
	return c.command(keySeek, seekArgs(seconds, true)...)
}

func (c *Client) StepFrames(n int) error {
	name := "frame-step"
	if n < 0 {
		name = "frame-back-step"
		n = -n
	}
	for i := 0; i < n; i++ {
		if err := c.command("", name); err != nil {
			return fmt.Errorf("step %d/%d: %w", i+1, n, err)
		}
	}
	return nil
}

func (c *Client) Duration() mo.Option[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return media.KnownDuration(c.props.duration)
}

func (c *Client) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props.timePos
}

func (c *Client) ObserveStatus(fn func(media.Status)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.statusFns[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.statusFns, id)
		c.mu.Unlock()
	}
}

// ObserveTime reports the cached time-pos at every interval while mpv is
// playing. The value is kept fresh by the event listener, so ticks never
// round-trip to the socket.
func (c *Client) ObserveTime(interval time.Duration, fn func(float64)) func() {
	if interval <= 0 {
		interval = time.Second / 30
	}
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-c.exited:
				return
			case <-ticker.C:
				c.mu.Lock()
				playing := c.lastStatus.Kind == media.StatusPlaying
				pos := c.props.timePos
				c.mu.Unlock()
				if playing {
					fn(pos)
				}
			}
		}
	}()

	return func() { once.Do(func() { close(stop) }) }
}

// Close quits mpv, force-killing it if it does not exit in time.
func (c *Client) Close() error {
	c.mu.Lock()
	events := c.events
	c.events = nil
	c.mu.Unlock()
	if events != nil {
		events.Close()
	}

	c.stopCommands()

	if c.running() == nil {
		_, _ = c.send("quit")
		select {
		case <-c.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(c.cmd)
		}
	}

	_ = os.Remove(c.socketPath)
	return nil
}

func seekArgs(seconds float64, exact bool) []any {
	if !media.Finite(seconds) || seconds < 0 {
		seconds = 0
	}
	flags := "absolute+keyframes"
	if exact {
		flags = "absolute+exact"
	}
	return []any{"seek", seconds, flags}
}

func direction(backward bool) string {
	if backward {
		return "backward"
	}
	return "forward"
}

// sanitizeMediaTarget rejects anything that could be parsed as a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty target")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in target")
	}
	if strings.HasPrefix(l, "-") {
		return "", errors.New("target must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}
	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
