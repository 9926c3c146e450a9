package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/mrdg/tilt/audio"
	"github.com/mrdg/tilt/tilt"
)

type fakeSession struct {
	tilts    []float64
	presses  []time.Time
	releases []time.Time
	scale    tilt.Scale
	stops    int
	snap     tilt.Snapshot
}

func (s *fakeSession) Orientation(beta *float64) error {
	s.tilts = append(s.tilts, *beta)
	return nil
}

func (s *fakeSession) Press(t time.Time) error {
	s.presses = append(s.presses, t)
	return nil
}

func (s *fakeSession) Release(t time.Time) error {
	s.releases = append(s.releases, t)
	return nil
}

func (s *fakeSession) SetScale(sc tilt.Scale) error {
	s.scale = sc
	return nil
}

func (s *fakeSession) StopAll() error {
	s.stops++
	return nil
}

func (s *fakeSession) Snapshot() (tilt.Snapshot, error) { return s.snap, nil }

type commandTest struct {
	*testing.T
	env     *env
	session *fakeSession
	out     *bytes.Buffer
	t0      time.Time
	clock   time.Time
}

func newCommandTest(t *testing.T) *commandTest {
	ct := &commandTest{
		T:       t,
		session: &fakeSession{},
		out:     &bytes.Buffer{},
		t0:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	ct.clock = ct.t0
	ct.env = newEnv(ct.session, audio.NewEngine(audio.Headless(false)), ct.out, 500*time.Millisecond)
	ct.env.now = func() time.Time { return ct.clock }
	ct.env.sleep = func(d time.Duration) { ct.clock = ct.clock.Add(d) }
	return ct
}

func (ct *commandTest) eval(line string) {
	ct.Helper()
	if err := ct.env.eval(line); err != nil {
		ct.Fatalf("%s: %v", line, err)
	}
}

func (ct *commandTest) at(ms int) time.Time {
	return ct.t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestTiltCommand(t *testing.T) {
	ct := newCommandTest(t)
	ct.eval("tilt 30; tilt -12.5")
	if want, got := []float64{30, -12.5}, ct.session.tilts; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("want tilts %v, got %v", want, got)
	}
	if err := ct.env.eval("tilt 200"); err == nil {
		t.Error("expected an error for a tilt out of range")
	}
	if err := ct.env.eval("tilt up"); err == nil {
		t.Error("expected an error for a non-numeric tilt")
	}
}

func TestGestureCommands(t *testing.T) {
	ct := newCommandTest(t)
	ct.eval("tap; wait 100; hold; hold 1200; press; wait 50; release")

	wantPresses := []time.Time{ct.at(0), ct.at(100), ct.at(600), ct.at(1800)}
	wantReleases := []time.Time{ct.at(0), ct.at(600), ct.at(1800), ct.at(1850)}
	if len(ct.session.presses) != len(wantPresses) || len(ct.session.releases) != len(wantReleases) {
		t.Fatalf("want %d presses and releases, got %v and %v",
			len(wantPresses), ct.session.presses, ct.session.releases)
	}
	for i := range wantPresses {
		if !wantPresses[i].Equal(ct.session.presses[i]) {
			t.Errorf("press %d: want %v, got %v", i, wantPresses[i], ct.session.presses[i])
		}
		if !wantReleases[i].Equal(ct.session.releases[i]) {
			t.Errorf("release %d: want %v, got %v", i, wantReleases[i], ct.session.releases[i])
		}
	}
}

func TestScaleCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`scale "C Major"`, "C Major"},
		{"scale c minor pentatonic", "C Minor Pentatonic"},
		{"scale off", "Off"},
	}
	for _, test := range tests {
		ct := newCommandTest(t)
		ct.eval(test.input)
		if want, got := test.want, ct.session.scale.Name; want != got {
			t.Errorf("%s: want scale %q, got %q", test.input, want, got)
		}
	}

	ct := newCommandTest(t)
	err := ct.env.eval("scale Klingon")
	if errors.Cause(err) != tilt.ErrUnknownScale {
		t.Errorf("want %v, got %v", tilt.ErrUnknownScale, err)
	}
}

func TestPropertyCommands(t *testing.T) {
	ct := newCommandTest(t)
	ct.eval("set synth level -3; set synth osc1.wave saw; get synth level")
	if want, got := "-3\n", ct.out.String(); want != got {
		t.Errorf("want %q, got %q", want, got)
	}

	ct.out.Reset()
	ct.eval("get transport")
	if want, got := "bpm", ct.out.String(); !strings.HasPrefix(got, want) {
		t.Errorf("want a property listing starting with %q, got %q", want, got)
	}

	ct.eval("preset bell")
	for _, input := range []string{
		"set drums level 0",
		"set synth level 100",
		"set synth osc1.wave noise",
		"preset nope",
	} {
		if err := ct.env.eval(input); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	ct := newCommandTest(t)
	ct.session.snap = tilt.Snapshot{
		State:   tilt.PreviewActive,
		Scale:   "C Major",
		Preview: 440,
		Fixed:   []float64{261.6256},
		Count:   2,
		GainDb:  -6.0206,
		Pressed: true,
	}
	ct.eval("status")
	out := ct.out.String()
	for _, want := range []string{"preview", "C Major", "440.00 Hz", "261.63 Hz", "-6.0 dB", "held"} {
		if !strings.Contains(out, want) {
			t.Errorf("want status to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	ct := newCommandTest(t)
	for _, input := range []string{
		"dance",
		"tilt",
		"tap 1",
		"wait -5",
		"set synth level",
		"tilt 10 20",
	} {
		if err := ct.env.eval(input); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
	if err := ct.env.eval("stop; quit; tap"); err != errQuit {
		t.Errorf("want %v, got %v", errQuit, err)
	}
	if want, got := 1, ct.session.stops; want != got {
		t.Errorf("want %d stop, got %d", want, got)
	}
	if len(ct.session.presses) != 0 {
		t.Error("commands after quit should not run")
	}
}

func TestHelpCommand(t *testing.T) {
	ct := newCommandTest(t)
	ct.eval("help")
	out := ct.out.String()
	for _, cmd := range commands {
		if !strings.Contains(out, cmd.name) {
			t.Errorf("help is missing %s", cmd.name)
		}
	}
	if !strings.Contains(out, "synth, tone, transport") {
		t.Errorf("help should list the devices, got:\n%s", out)
	}
}
