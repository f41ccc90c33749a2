package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/yamanami-choir/yamanami/player"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]interface{}
	err   error
}

func (r *recorder) command(args ...interface{}) (interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return nil, r.err
}

func (r *recorder) set(property string, value interface{}) error {
	_, err := r.command("set_property", property, value)
	return err
}

func (r *recorder) last() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

type host struct{ attached bool }

func (h *host) Attached() bool { return h.attached }

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Accepts web and file URLs", func() {
			for _, target := range []string{"https://yamanami.example/a.mp3", "file:///tmp/a.mp3"} {
				got, err := sanitizeMediaTarget(target)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, target)
			}
		})

		Convey("Cleans local paths", func() {
			got, err := sanitizeMediaTarget(" ./audio/../a.mp3 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "a.mp3")
		})

		Convey("Rejects flag-like, empty and exotic targets", func() {
			for _, target := range []string{"", "--script=evil.lua", "a\nb", "ftp://host/a.mp3"} {
				_, err := sanitizeMediaTarget(target)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestParseEvent(t *testing.T) {
	Convey("parseEvent", t, func() {
		Convey("Decodes property changes", func() {
			ev, ok := parseEvent([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":12.5}`))
			So(ok, ShouldBeTrue)
			So(ev.Name, ShouldEqual, "time-pos")
			So(ev.Data, ShouldEqual, 12.5)
		})

		Convey("Keeps the reason of end-file", func() {
			ev, ok := parseEvent([]byte(`{"event":"end-file","reason":"error"}`))
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, "end-file")
			So(ev.Reason, ShouldEqual, "error")
		})

		Convey("Skips replies and garbage", func() {
			_, ok := parseEvent([]byte(`{"data":null,"request_id":3,"error":"success"}`))
			So(ok, ShouldBeFalse)
			_, ok = parseEvent([]byte(`not json`))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAudio(t *testing.T) {
	Convey("Given an audio element over a recording connection", t, func() {
		rec := &recorder{}
		a := newAudio(rec)

		var events []player.AudioEvent
		for _, ev := range []player.AudioEvent{player.EventPlay, player.EventPause, player.EventError, player.EventTimeUpdate, player.EventLoadedMetadata} {
			ev := ev
			a.On(ev, func() { events = append(events, ev) })
		}

		So(a.Paused(), ShouldBeTrue)
		So(math.IsNaN(a.Duration()), ShouldBeTrue)

		Convey("Play without a source is rejected", func() {
			So(errors.Is(a.Play(), ErrNoSource), ShouldBeTrue)
		})

		Convey("Loading and playing a source", func() {
			a.SetSrc("https://yamanami.example/a.mp3")
			a.Load()
			So(rec.last(), ShouldResemble, []interface{}{"loadfile", "https://yamanami.example/a.mp3", "replace"})

			So(a.Play(), ShouldBeNil)
			So(a.Paused(), ShouldBeFalse)
			So(events, ShouldResemble, []player.AudioEvent{player.EventPlay})

			Convey("Observed properties become element events", func() {
				a.handle(Event{Kind: "property-change", Name: "duration", Data: 120.0})
				a.handle(Event{Kind: "property-change", Name: "time-pos", Data: 3.5})
				a.handle(Event{Kind: "property-change", Name: "pause", Data: false})

				So(a.Duration(), ShouldEqual, 120)
				So(a.CurrentTime(), ShouldEqual, 3.5)
				So(events, ShouldResemble, []player.AudioEvent{player.EventPlay, player.EventLoadedMetadata, player.EventTimeUpdate})
			})

			Convey("A failed file reports an error", func() {
				a.handle(Event{Kind: "end-file", Reason: "error"})
				So(a.Paused(), ShouldBeTrue)
				So(events, ShouldResemble, []player.AudioEvent{player.EventPlay, player.EventPause, player.EventError})
			})

			Convey("Clearing the source unloads the file", func() {
				a.Pause()
				a.SetSrc("")
				So(rec.last(), ShouldResemble, []interface{}{"stop"})
				So(a.Src(), ShouldBeEmpty)
			})
		})

		Convey("A rejected IPC call rejects Play", func() {
			a.SetSrc("/a.mp3")
			rec.err = errors.New("connection refused")
			So(a.Play(), ShouldNotBeNil)
			So(a.Paused(), ShouldBeTrue)
		})

		Convey("Removed handlers stop firing", func() {
			count := 0
			off := a.On(player.EventTimeUpdate, func() { count++ })
			off()
			a.handle(Event{Kind: "property-change", Name: "time-pos", Data: 1.0})
			So(count, ShouldEqual, 0)
		})
	})
}

func TestVideo(t *testing.T) {
	Convey("Given a video player", t, func() {
		h := &host{attached: true}
		var states []player.EmbeddedState
		v := newVideo(h, player.EmbeddedEvents{
			OnStateChange: func(s player.EmbeddedState) { states = append(states, s) },
		})

		Convey("Calls before the engine is attached are not ready", func() {
			So(errors.Is(v.Play(), player.ErrNotReady), ShouldBeTrue)
		})

		Convey("Once attached", func() {
			rec := &recorder{}
			So(v.attach(rec, nil, nil), ShouldBeTrue)

			So(v.LoadVideoByID("xyz12345678"), ShouldBeNil)
			url, err := v.VideoURL()
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://www.youtube.com/watch?v=xyz12345678")

			Convey("Playback state follows mpv events", func() {
				v.handle(Event{Kind: "file-loaded"})
				v.handle(Event{Kind: "property-change", Name: "pause", Data: true})
				v.handle(Event{Kind: "property-change", Name: "pause", Data: false})
				v.handle(Event{Kind: "end-file", Reason: "eof"})

				So(states, ShouldResemble, []player.EmbeddedState{player.StatePlaying, player.StatePaused, player.StatePlaying, player.StateEnded})
			})

			Convey("Pause changes before the file loads are not reported", func() {
				v.handle(Event{Kind: "property-change", Name: "pause", Data: false})
				So(states, ShouldBeEmpty)
			})

			Convey("Stop clears the video URL", func() {
				So(v.Stop(), ShouldBeNil)
				url, _ := v.VideoURL()
				So(url, ShouldBeEmpty)
			})

			Convey("Seeking without seek-ahead snaps to keyframes", func() {
				So(v.SeekTo(30, false), ShouldBeNil)
				So(rec.last(), ShouldResemble, []interface{}{"seek", 30.0, "absolute+keyframes"})
			})
		})

		Convey("The rendered element follows its host and the player's lifetime", func() {
			So(v.Element().Attached(), ShouldBeTrue)
			h.attached = false
			So(v.Element().Attached(), ShouldBeFalse)
			h.attached = true

			So(v.Destroy(), ShouldBeNil)
			So(v.Destroy(), ShouldBeNil)
			So(v.Element().Attached(), ShouldBeFalse)

			_, err := v.VideoURL()
			So(err, ShouldNotBeNil)
			So(v.attach(&recorder{}, nil, nil), ShouldBeFalse)
		})
	})
}

func TestLoader(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given stubbed tool lookups", t, func() {
		origLook, origInstall := lookPath, installYtdlp
		Reset(func() { lookPath, installYtdlp = origLook, origInstall })

		lookPath = func(string) (string, error) { return "/usr/bin/mpv", nil }
		installYtdlp = func(context.Context) (string, error) { return "/cache/yt-dlp", nil }

		Convey("The loader becomes available", func() {
			l := Load(context.Background(), "mpv")
			<-l.Done()
			So(l.Available(), ShouldBeTrue)
			So(l.Path(), ShouldEqual, "/cache/yt-dlp")
			So(l.Err(), ShouldBeNil)
		})

		Convey("A missing mpv keeps it unavailable", func() {
			lookPath = func(string) (string, error) { return "", errors.New("not found") }
			l := Load(context.Background(), "mpv")
			<-l.Done()
			So(l.Available(), ShouldBeFalse)
			So(l.Err(), ShouldNotBeNil)
		})
	})
}

// serveIPC answers every command with an unrelated broadcast event first, then the reply.
func serveIPC(t *testing.T, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go func(conn net.Conn) {
			defer conn.Close()
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				var cmd ipcCommand
				if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
					return
				}
				if len(cmd.Command) > 0 && cmd.Command[0] == "observe_property" {
					_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"pause","data":true}` + "\n"))
					continue
				}
				_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
				reply, _ := json.Marshal(map[string]interface{}{"data": 42.0, "error": "success", "request_id": cmd.RequestID})
				_, _ = conn.Write(append(reply, '\n'))
			}
		}(conn)
	}
}

func TestIPC(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given an mpv-like IPC server", t, func() {
		socket := filepath.Join(t.TempDir(), "ipc.sock")
		ln, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		go serveIPC(t, ln)
		Reset(func() { ln.Close() })

		Convey("Replies are matched past interleaved events", func() {
			c := &client{socket: socket}
			v, err := c.float("duration")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 42)
		})

		Convey("The listener observes on its own connection", func() {
			got := make(chan Event, 1)
			l, err := listen(socket, []string{"pause"}, func(ev Event) {
				select {
				case got <- ev:
				default:
				}
			})
			So(err, ShouldBeNil)

			ev := <-got
			So(ev.Name, ShouldEqual, "pause")
			So(ev.Data, ShouldEqual, true)
			l.Close()
		})
	})
}
