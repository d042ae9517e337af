package mpv

import (
	"bufio"
	"net"
	"sync"
	"time"
)

const (
	dialTimeout  = time.Second
	writeTimeout = time.Second
	writeTries   = 2
)

// Coalescing keys. A queued command is replaced in place by a newer one
// with the same key.
const (
	keySeek      = "seek"
	keyPause     = "pause"
	keySpeed     = "speed"
	keyDirection = "play-direction"
)

type queued struct {
	key  string
	args []any
}

// commandQueue holds commands waiting for the writer goroutine.
type commandQueue struct {
	mu      sync.Mutex
	pending []queued
	closed  bool
	wake    chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{wake: make(chan struct{}, 1)}
}

// push queues args without blocking. It reports false once the queue is
// closed.
func (q *commandQueue) push(key string, args ...any) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	replaced := false
	if key != "" {
		for i := range q.pending {
			if q.pending[i].key == key {
				q.pending[i].args = args
				replaced = true
				break
			}
		}
	}
	if !replaced {
		q.pending = append(q.pending, queued{key: key, args: args})
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *commandQueue) take() []queued {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.pending
	q.pending = nil
	return pending
}

func (q *commandQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.pending = nil
	q.mu.Unlock()
}

// writeLoop sends queued commands over one persistent connection. Replies
// are read by readReplies; nothing here waits for them.
func (c *Client) writeLoop() {
	defer close(c.writerDone)

	var conn net.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	for {
		select {
		case <-c.stopWriter:
			return
		case <-c.queue.wake:
		}
		for _, cmd := range c.queue.take() {
			conn = c.write(conn, cmd)
		}
	}
}

// write sends cmd, redialling once if the connection broke. It returns the
// connection to reuse, nil after a failure.
func (c *Client) write(conn net.Conn, cmd queued) net.Conn {
	var err error
	for try := 0; try < writeTries; try++ {
		if conn == nil {
			if conn, err = c.dialCommands(); err != nil {
				continue
			}
		}
		if err = c.writeOne(conn, cmd.args); err == nil {
			return conn
		}
		conn.Close()
		conn = nil
	}
	c.log.WithError(err).WithField("command", cmd.args[0]).Warn("mpv command not sent")
	return nil
}

func (c *Client) dialCommands() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, err
	}
	go c.readReplies(conn)
	return conn, nil
}

func (c *Client) writeOne(conn net.Conn, args []any) error {
	c.mu.Lock()
	c.nextRequest++
	id := c.nextRequest
	c.inflight[id] = args[0]
	c.mu.Unlock()

	payload, err := encodeCommand(args, id)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	_, err = conn.Write(payload)
	return err
}

// readReplies logs failed commands until the connection closes.
func (c *Client) readReplies(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, readBufSize), 1<<20)
	for scanner.Scan() {
		msg, err := decodeMessage(scanner.Bytes())
		if err != nil || msg.Event != "" || msg.RequestID == 0 {
			continue
		}

		c.mu.Lock()
		name, ok := c.inflight[msg.RequestID]
		delete(c.inflight, msg.RequestID)
		c.mu.Unlock()

		if ok && msg.Error != "" && msg.Error != "success" {
			c.log.WithField("command", name).WithField("error", msg.Error).Warn("mpv command failed")
		}
	}
}

// stopCommands ends the writer and drops whatever is still queued.
func (c *Client) stopCommands() {
	c.stopOnce.Do(func() {
		c.queue.close()
		close(c.stopWriter)
	})
	<-c.writerDone
}
