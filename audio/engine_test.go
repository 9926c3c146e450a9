package audio

import (
	"context"
	"testing"
	"time"

	"github.com/mrdg/tilt/tilt"
)

var _ tilt.ToneEngine = (*Engine)(nil)

func TestEngineOscillator(t *testing.T) {
	e := NewEngine(Headless(false))
	if err := e.Resume(context.Background()); err != nil {
		t.Fatal(err)
	}
	osc, err := e.CreateOscillator(440)
	if err != nil {
		t.Fatal(err)
	}
	e.SetVolumeDb(0, 0)
	osc.Start()
	out := e.Render(4096)
	if p := peak(out[0]); p < 0.1 {
		t.Errorf("want an audible oscillator, got peak %v", p)
	}
	if e.Tap().Level() == 0 {
		t.Error("expected the tap to see the output")
	}

	osc.Dispose()
	e.Render(sampleRate)
	if want, got := 0, e.sink.NumSources(); want != got {
		t.Errorf("want disposed oscillator to be removed, got %d sources", got)
	}
}

func TestEngineArticulatingVoice(t *testing.T) {
	e := NewEngine(Headless(false))
	e.SetVolumeDb(0, 0)
	synth, err := e.CreateArticulatingVoice()
	if err != nil {
		t.Fatal(err)
	}
	transport := e.Transport()
	if _, err := transport.ScheduleRepeat(func(offset int) {
		synth.TriggerArticulation(330, tilt.EighthNote, offset)
	}, tilt.QuarterNote); err != nil {
		t.Fatal(err)
	}
	if err := transport.Start(); err != nil {
		t.Fatal(err)
	}
	out := e.Render(sampleRate)
	if p := peak(out[0]); p < 0.05 {
		t.Errorf("want audible notes, got peak %v", p)
	}

	transport.CancelAll()
	synth.Dispose()
	e.Render(sampleRate)
	if want, got := 0, e.sink.NumSources(); want != got {
		t.Errorf("want disposed instrument to be removed, got %d sources", got)
	}
}

func TestEngineMaxSources(t *testing.T) {
	e := NewEngine(Headless(false))
	for i := 0; i < MaxSources; i++ {
		if _, err := e.CreateOscillator(440); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.CreateOscillator(440); err != ErrTooManyVoices {
		t.Errorf("want %v, got %v", ErrTooManyVoices, err)
	}
	if _, err := e.CreateArticulatingVoice(); err != ErrTooManyVoices {
		t.Errorf("want %v, got %v", ErrTooManyVoices, err)
	}
}

func TestEngineDevices(t *testing.T) {
	e := NewEngine(Headless(false))
	if err := e.SetBPM(90); err != nil {
		t.Fatal(err)
	}
	d, err := e.Device("transport")
	if err != nil {
		t.Fatal(err)
	}
	if bpm, _ := d.Get("bpm"); bpm != 90.0 {
		t.Errorf("want bpm 90, got %v", bpm)
	}
	if _, err := e.Device("drums"); err == nil {
		t.Error("expected an error for an unknown device")
	}
	if err := e.LoadPreset("bell"); err != nil {
		t.Error(err)
	}
}

func TestEngineRealtimeClock(t *testing.T) {
	e := NewEngine(Headless(true))
	if err := e.Resume(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := e.Transport().Start(); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for beat, _ := e.Beat(); beat == 0 && time.Now().Before(deadline); beat, _ = e.Beat() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	beat, running := e.Beat()
	if beat == 0 || !running {
		t.Errorf("expected the headless clock to advance the transport, got beat %v (running %v)", beat, running)
	}
}

func TestEngineSession(t *testing.T) {
	e := NewEngine(Headless(false))
	sess, err := tilt.NewSession(e, tilt.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.Run(ctx)

	t0 := time.Now()
	if err := sess.Press(t0); err != nil {
		t.Fatal(err)
	}
	if err := sess.Release(t0.Add(100 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := tilt.PreviewActive, snap.State; want != got {
		t.Fatalf("want state %v, got %v", want, got)
	}

	out := e.Render(sampleRate)
	if p := peak(out[0]); p < 0.05 {
		t.Errorf("want the preview to sound, got peak %v", p)
	}
}
