package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrdg/tilt/tilt"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Bold(true)
	waveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd7af"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
)

func renderScales(w io.Writer) {
	for _, sc := range tilt.Scales {
		if sc.Off() {
			fmt.Fprintf(w, "%-20s free pitch\n", sc.Name)
			continue
		}
		fmt.Fprintf(w, "%-20s %d notes per octave\n", sc.Name, len(sc.Intervals))
	}
}

func renderFreqs(w io.Writer, sc tilt.Scale, minOctave, maxOctave int) error {
	freqs, err := sc.Frequencies(minOctave, maxOctave)
	if err != nil {
		return err
	}
	if len(freqs) == 0 {
		fmt.Fprintf(w, "%s: no table, pitch follows the tilt freely\n", sc.Name)
		return nil
	}
	for i, f := range freqs {
		fmt.Fprintf(w, "%3d  %9.4f Hz\n", i, f)
	}
	return nil
}

func renderStatus(snap tilt.Snapshot, w io.Writer) {
	label := labelStyle.Render
	value := valueStyle.Render
	fmt.Fprintf(w, "%s %s  %s %s  %s %s  %s %s\n",
		label("state"), value(snap.State.String()),
		label("scale"), value(snap.Scale),
		label("tilt"), value(fmt.Sprintf("%.1f°", snap.Tilt)),
		label("pitch"), value(formatHz(snap.Frequency)))
	press := "up"
	if snap.Pressed {
		press = "held"
	}
	fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		label("voices"), value(fmt.Sprint(snap.Count)),
		label("gain"), value(formatDb(snap.GainDb)),
		label("press"), value(press))
	if snap.Continuous > 0 {
		fmt.Fprintf(w, "  continuous %s\n", formatHz(snap.Continuous))
	}
	if snap.Preview > 0 {
		fmt.Fprintf(w, "  preview    %s\n", formatHz(snap.Preview))
	}
	for _, f := range snap.Fixed {
		fmt.Fprintf(w, "  fixed      %s\n", formatHz(f))
	}
}

// renderMeter shows the output level and the loop clock.
func renderMeter(level, beat float64, running bool, w io.Writer) {
	clock := "stopped"
	if running {
		clock = fmt.Sprintf("%.2f", beat)
	}
	fmt.Fprintf(w, "%s %s  %s %s\n",
		labelStyle.Render("level"), valueStyle.Render(formatDb(20*math.Log10(level))),
		labelStyle.Render("beat"), valueStyle.Render(clock))
}

func formatHz(f float64) string {
	return fmt.Sprintf("%.2f Hz", f)
}

func formatDb(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// renderWaveform draws samples as a bar per column, mirrored around the
// middle row. Each column shows the peak of its share of the samples.
func renderWaveform(samples []float32, width, height int) []string {
	rows := make([][]rune, height)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", width))
	}
	if width == 0 || height == 0 {
		return make([]string, height)
	}
	half := float64(height) / 2
	for col := 0; col < width; col++ {
		from := col * len(samples) / width
		to := (col + 1) * len(samples) / width
		var peak float64
		for _, s := range samples[from:to] {
			peak = math.Max(peak, math.Abs(float64(s)))
		}
		peak = math.Min(peak, 1)
		reach := peak * half
		for row := 0; row < height; row++ {
			// distance of the row's center from the middle line
			dist := math.Abs(float64(row) + 0.5 - half)
			if dist < reach || (row == int(half) && peak > 0) {
				rows[row][col] = '█'
			} else if row == int(half) {
				rows[row][col] = '─'
			}
		}
	}
	lines := make([]string, height)
	for i, row := range rows {
		lines[i] = string(row)
	}
	return lines
}
