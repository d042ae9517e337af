package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProps(t *testing.T) {
	Convey("Property folding", t, func() {
		p := props{paused: true, speed: 1}

		Convey("Should start paused", func() {
			So(p.status(), ShouldResemble, media.Paused())
		})

		Convey("Unpausing should report playing", func() {
			So(p.apply("pause", false), ShouldBeTrue)
			So(p.status(), ShouldResemble, media.Playing())
		})

		Convey("Cache stalls should report buffering waits", func() {
			p.apply("pause", false)
			p.apply("paused-for-cache", true)
			st := p.status()
			So(st.Kind, ShouldEqual, media.StatusWaiting)
			So(st.Reason.Buffering(), ShouldBeTrue)
		})

		Convey("Idle should report a non-buffering wait", func() {
			p.apply("idle-active", true)
			st := p.status()
			So(st.Kind, ShouldEqual, media.StatusWaiting)
			So(st.Reason, ShouldEqual, media.WaitNoItemToPlay)
			So(st.Reason.Buffering(), ShouldBeFalse)
		})

		Convey("Time properties should not affect status", func() {
			So(p.apply("time-pos", 12.5), ShouldBeFalse)
			So(p.timePos, ShouldEqual, 12.5)
			So(p.apply("duration", nil), ShouldBeFalse)
			So(p.duration, ShouldEqual, 0)
		})
	})
}

func TestArgs(t *testing.T) {
	Convey("Command arguments", t, func() {
		Convey("Coarse seeks should use keyframes", func() {
			So(seekArgs(5, false), ShouldResemble, []any{"seek", 5.0, "absolute+keyframes"})
		})
		Convey("Precise seeks should be exact", func() {
			So(seekArgs(5, true), ShouldResemble, []any{"seek", 5.0, "absolute+exact"})
		})
		Convey("Negative seeks should clamp to zero", func() {
			So(seekArgs(-3, true)[1], ShouldEqual, 0.0)
		})
		Convey("Args should end with the target after a separator", func() {
			args := buildArgs("/tmp/s.sock", "Title", "movie.mkv", "")
			So(args[len(args)-2], ShouldEqual, "--")
			So(args[len(args)-1], ShouldEqual, "movie.mkv")
			So(args, ShouldContain, "--input-ipc-server=/tmp/s.sock")
			So(args, ShouldNotContain, "--log-file=")
		})
		Convey("A log file should be passed before the separator", func() {
			args := buildArgs("/tmp/s.sock", "Title", "movie.mkv", "/tmp/p.log.mpv")
			So(args[len(args)-3], ShouldEqual, "--log-file=/tmp/p.log.mpv")
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should reject flag-like targets", func() {
			_, err := sanitizeMediaTarget("--script=evil.lua")
			So(err, ShouldNotBeNil)
		})
		Convey("Should reject unsupported schemes", func() {
			_, err := sanitizeMediaTarget("file:///etc/passwd")
			So(err, ShouldNotBeNil)
		})
		Convey("Should accept http URLs", func() {
			u, err := sanitizeMediaTarget(" https://example.com/v.mp4 ")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://example.com/v.mp4")
		})
		Convey("Should clean local paths", func() {
			p, err := sanitizeMediaTarget("videos/../clip.mp4")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, "clip.mp4")
		})
		Convey("Titles should lose control characters", func() {
			So(sanitizeTitle(" a\nb\x00 "), ShouldEqual, "a b")
		})
	})
}

func TestSendOnce(t *testing.T) {
	Convey("sendOnce", t, func() {
		sock := filepath.Join(t.TempDir(), "mpv.sock")
		ln, err := net.Listen("unix", sock)
		So(err, ShouldBeNil)
		defer ln.Close()

		received := make(chan ipcCommand, 1)
		reply := func(lines ...string) {
			go func() {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadBytes('\n')
				if err != nil {
					return
				}
				var cmd ipcCommand
				_ = json.Unmarshal(line, &cmd)
				received <- cmd
				for _, l := range lines {
					_, _ = conn.Write([]byte(l + "\n"))
				}
			}()
		}

		Convey("Should skip broadcast events before the reply", func() {
			reply(`{"event":"playback-restart"}`, `{"data":42.5,"error":"success"}`)
			data, err := sendOnce(sock, []any{"get_property", "time-pos"})
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 42.5)
			cmd := <-received
			So(cmd.Command, ShouldResemble, []any{"get_property", "time-pos"})
		})

		Convey("Should surface mpv errors", func() {
			reply(`{"error":"property unavailable"}`)
			_, err := sendOnce(sock, []any{"get_property", "duration"})
			So(errors.Is(err, ErrCommand), ShouldBeTrue)
		})
	})
}

// fakeMPV accepts connections and hands every request to reply. A nil
// reply never answers.
type fakeMPV struct {
	ln       net.Listener
	requests chan ipcCommand
}

func newFakeMPV(t *testing.T, reply func(ipcCommand) string) *fakeMPV {
	sock := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeMPV{ln: ln, requests: make(chan ipcCommand, 64)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadBytes('\n')
					if err != nil {
						return
					}
					var cmd ipcCommand
					_ = json.Unmarshal(line, &cmd)
					f.requests <- cmd
					if reply != nil {
						_, _ = conn.Write([]byte(reply(cmd) + "\n"))
					}
				}
			}()
		}
	}()
	return f
}

func (f *fakeMPV) path() string { return f.ln.Addr().String() }

func (f *fakeMPV) next() (ipcCommand, bool) {
	select {
	case cmd := <-f.requests:
		return cmd, true
	case <-time.After(2 * time.Second):
		return ipcCommand{}, false
	}
}

func TestCommands(t *testing.T) {
	Convey("Given a client on an mpv that never replies", t, func() {
		f := newFakeMPV(t, nil)
		defer f.ln.Close()
		log, hook := logtest.NewNullLogger()
		c := newClient(f.path(), log)
		defer c.stopCommands()

		Convey("Seeks should return without waiting for mpv", func() {
			start := time.Now()
			So(c.SeekPrecisely(12), ShouldBeNil)
			So(time.Since(start), ShouldBeLessThan, 50*time.Millisecond)

			cmd, ok := f.next()
			So(ok, ShouldBeTrue)
			So(cmd.Command, ShouldResemble, []any{"seek", 12.0, "absolute+exact"})
			So(cmd.RequestID, ShouldBeGreaterThan, 0)
		})

		Convey("Commands should share one connection in order", func() {
			So(c.Play(), ShouldBeNil)
			first, _ := f.next()
			So(c.StepFrames(2), ShouldBeNil)
			second, _ := f.next()
			third, _ := f.next()

			So(first.Command, ShouldResemble, []any{"set_property", "pause", false})
			So(second.Command, ShouldResemble, []any{"frame-step"})
			So(third.Command, ShouldResemble, []any{"frame-step"})
			So(third.RequestID, ShouldEqual, first.RequestID+2)
		})

		Convey("An exited mpv should refuse commands", func() {
			close(c.exited)
			So(errors.Is(c.Play(), media.ErrNotRunning), ShouldBeTrue)
			So(hook.AllEntries(), ShouldBeEmpty)
		})
	})

	Convey("Given an mpv that rejects every command", t, func() {
		f := newFakeMPV(t, func(cmd ipcCommand) string {
			reply, _ := json.Marshal(ipcMessage{RequestID: cmd.RequestID, Error: "property unavailable"})
			return string(reply)
		})
		defer f.ln.Close()
		log, hook := logtest.NewNullLogger()
		c := newClient(f.path(), log)
		defer c.stopCommands()

		Convey("The failure should be logged as a warning", func() {
			So(c.SetRate(2), ShouldBeNil)
			_, ok := f.next()
			So(ok, ShouldBeTrue)

			deadline := time.Now().Add(2 * time.Second)
			for len(hook.AllEntries()) == 0 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			entry := hook.LastEntry()
			So(entry, ShouldNotBeNil)
			So(entry.Level, ShouldEqual, logrus.WarnLevel)
			So(entry.Data["error"], ShouldEqual, "property unavailable")
			So(entry.Data["command"], ShouldEqual, "set_property")
		})
	})
}

func TestCommandQueue(t *testing.T) {
	Convey("Queued commands", t, func() {
		q := newCommandQueue()

		Convey("Newer seeks should replace queued ones in place", func() {
			q.push(keySeek, "seek", 1.0, "absolute+exact")
			q.push(keyPause, "set_property", "pause", true)
			q.push(keySeek, "seek", 2.0, "absolute+exact")

			pending := q.take()
			So(len(pending), ShouldEqual, 2)
			So(pending[0].args, ShouldResemble, []any{"seek", 2.0, "absolute+exact"})
			So(q.take(), ShouldBeEmpty)
		})

		Convey("Unkeyed commands should all be kept", func() {
			q.push("", "frame-step")
			q.push("", "frame-step")
			So(len(q.take()), ShouldEqual, 2)
		})

		Convey("A closed queue should refuse commands", func() {
			q.close()
			So(q.push(keySeek, "seek", 1.0, "absolute+exact"), ShouldBeFalse)
			So(q.take(), ShouldBeEmpty)
		})
	})
}
