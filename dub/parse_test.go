package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "tilt 30",
			want: Command{
				Name: Identifier("tilt"),
				Args: []Node{Int(30)},
			},
		},
		{
			input: "tilt -12.5",
			want: Command{
				Name: Identifier("tilt"),
				Args: []Node{Float(-12.5)},
			},
		},
		{
			input: "set synth osc1.wave saw",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("synth"), Identifier("osc1.wave"), Identifier("saw")},
			},
		},
		{
			input: `scale "C Minor Pentatonic"`,
			want: Command{
				Name: Identifier("scale"),
				Args: []Node{String("C Minor Pentatonic")},
			},
		},
		{
			input: `scale ""`,
			want: Command{
				Name: Identifier("scale"),
				Args: []Node{String("")},
			},
		},
		{
			input: "  status  ",
			want:  Command{Name: Identifier("status")},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		got, err := Parse(test.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("\nwant: %+v\ngot:  %+v", test.want, got)
		}
	}
}

func TestParseLine(t *testing.T) {
	got, err := ParseLine("press; wait 600;release ;")
	if err != nil {
		t.Fatal(err)
	}
	want := []Command{
		{Name: Identifier("press")},
		{Name: Identifier("wait"), Args: []Node{Int(600)}},
		{Name: Identifier("release")},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("\nwant: %+v\ngot:  %+v", want, got)
	}

	for _, input := range []string{"", "   ", "# just a comment", ";;"} {
		cmds, err := ParseLine(input)
		if err != nil {
			t.Errorf("%q: unexpected error %v", input, err)
		}
		if len(cmds) != 0 {
			t.Errorf("%q: want no commands, got %v", input, cmds)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"42",
		`"tilt" 1`,
		"press; release",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestNodeValue(t *testing.T) {
	tests := []struct {
		node Node
		want interface{}
	}{
		{Identifier("saw"), "saw"},
		{String("C Major"), "C Major"},
		{Int(3), 3},
		{Float(0.5), 0.5},
	}
	for _, test := range tests {
		if got := test.node.Value(); got != test.want {
			t.Errorf("want %#v, got %#v", test.want, got)
		}
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "scale", Args: []Node{String("C Major"), Int(2), Float(0.5)}}
	if want, got := `scale "C Major" 2 0.5`, cmd.String(); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}
