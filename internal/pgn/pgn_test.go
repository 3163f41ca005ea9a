package pgn

import (
	"reflect"
	"testing"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/engine"
)

func TestParseSimpleLine(t *testing.T) {
	seq := Parse("1. e4 e5 2. Nf3")
	if !reflect.DeepEqual(seq.White, []string{"e4", "Nf3"}) {
		t.Fatalf("white = %v", seq.White)
	}
	if !reflect.DeepEqual(seq.Black, []string{"e5"}) {
		t.Fatalf("black = %v", seq.Black)
	}
	if seq.Len() != 3 {
		t.Fatalf("len = %d", seq.Len())
	}
}

func TestParseStripsNoise(t *testing.T) {
	text := `[Event "Training"]
[Result "1-0"]

1. e4 {best by test} e5 2. Nf3! (2. f4 exf4 {the gambit}) Nc6 3. Bb5 $1 a6?! 1-0`
	seq := Parse(text)
	if !reflect.DeepEqual(seq.White, []string{"e4", "Nf3", "Bb5"}) {
		t.Fatalf("white = %v", seq.White)
	}
	if !reflect.DeepEqual(seq.Black, []string{"e5", "Nc6", "a6"}) {
		t.Fatalf("black = %v", seq.Black)
	}
}

func TestParseGluedMoveNumbers(t *testing.T) {
	seq := Parse("1.d4 d5 2.c4 e6 3.Nc3")
	if !reflect.DeepEqual(seq.White, []string{"d4", "c4", "Nc3"}) {
		t.Fatalf("white = %v", seq.White)
	}
	if !reflect.DeepEqual(seq.Black, []string{"d5", "e6"}) {
		t.Fatalf("black = %v", seq.Black)
	}
}

func TestParseKeepsCastlingAndSuffixes(t *testing.T) {
	seq := Parse("1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7# 1-0")
	if got := seq.White[3]; got != "Qxf7#" {
		t.Fatalf("mate token = %q", got)
	}
	seq = Parse("1. O-O O-O-O")
	if seq.White[0] != "O-O" || seq.Black[0] != "O-O-O" {
		t.Fatalf("castles = %v / %v", seq.White, seq.Black)
	}
}

func TestParseMalformedYieldsEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "hello world", "{only a comment}", "1. 2. 3."} {
		seq := Parse(text)
		if !seq.IsEmpty() {
			t.Fatalf("Parse(%q) = %+v, want empty", text, seq)
		}
	}
}

func TestMoveIndexForColor(t *testing.T) {
	cases := []struct {
		ply   int
		white bool
		want  int
	}{
		{0, true, 0}, {2, true, 1}, {4, true, 2},
		{1, false, 0}, {3, false, 1}, {5, false, 2},
	}
	for _, c := range cases {
		if got := MoveIndexForColor(c.ply, c.white); got != c.want {
			t.Fatalf("MoveIndexForColor(%d, %v) = %d, want %d", c.ply, c.white, got, c.want)
		}
	}
}

func TestMoveAt(t *testing.T) {
	seq := Parse("1. e4 e5 2. Nf3")
	for ply, want := range []string{"e4", "e5", "Nf3"} {
		got, ok := seq.MoveAt(ply)
		if !ok || got != want {
			t.Fatalf("MoveAt(%d) = %q %v, want %q", ply, got, ok, want)
		}
	}
	if _, ok := seq.MoveAt(3); ok {
		t.Fatal("MoveAt past the end should report !ok")
	}
	if _, ok := seq.MoveAt(-1); ok {
		t.Fatal("MoveAt(-1) should report !ok")
	}
}

// Every parsed token must replay legally from the initial position.
func TestRoundTripThroughEngine(t *testing.T) {
	games := []string{
		"1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 d6",
		"1. d4 Nf6 2. c4 g6 3. Nc3 Bg7 4. e4 d6 5. Nf3 O-O 6. Be2 e5 7. O-O Nc6",
		"1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6",
	}
	for _, text := range games {
		seq := Parse(text)
		e := engine.New()
		for ply := 0; ply < seq.Len(); ply++ {
			san, ok := seq.MoveAt(ply)
			if !ok {
				t.Fatalf("sequence ended early at ply %d", ply)
			}
			if _, err := e.MoveSAN(san); err != nil {
				t.Fatalf("replaying %q ply %d (%q): %v", text, ply, san, err)
			}
		}
	}
}
