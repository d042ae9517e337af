package mpv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// ipcMessage is either a command reply or an asynchronous event.
type ipcMessage struct {
	Event     string `json:"event,omitempty"`
	Name      string `json:"name,omitempty"`
	Data      any    `json:"data"`
	Error     string `json:"error,omitempty"`
	RequestID int    `json:"request_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
	readBufSize  = 4096
)

var ErrCommand = errors.New("mpv command failed")

// send runs one command on a fresh connection, retrying transient failures.
func (c *Client) send(command ...any) (any, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}
		data, err := sendOnce(c.socketPath, command)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrCommand) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ipc %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

func sendOnce(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := encodeCommand(command, 0)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// mpv broadcasts events to every client, so skip them until the reply.
	reader := bufio.NewReaderSize(conn, readBufSize)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		msg, err := decodeMessage(line)
		if err != nil {
			return nil, err
		}
		if msg.Event != "" {
			continue
		}
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("%w: %s", ErrCommand, msg.Error)
		}
		return msg.Data, nil
	}
}

// encodeCommand produces one newline-terminated JSON request.
func encodeCommand(command []any, requestID int) ([]byte, error) {
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: requestID})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}

// decodeMessage parses one IPC line.
func decodeMessage(line []byte) (ipcMessage, error) {
	line = bytes.TrimSpace(line)
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return ipcMessage{}, fmt.Errorf("unmarshal: %w", err)
	}
	return msg, nil
}
