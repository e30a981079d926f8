package assets

import (
	"bytes"
	"errors"
	"testing"

	"github.com/verte-zerg/memomu/internal/model"
)

func TestLabel(t *testing.T) {
	cases := []struct {
		id   model.ContentID
		want string
	}{
		{"img1", "♠"},
		{"classic26", "Z"},
		{"monad", "◆"},
		{"mmimg7", "07"},
		{"battle14", "b14"},
		{model.Blank, ""},
	}
	for _, tc := range cases {
		got, err := Label(tc.id)
		if err != nil || got != tc.want {
			t.Fatalf("Label(%q) = %q, %v; want %q", tc.id, got, err, tc.want)
		}
	}
	for _, id := range []model.ContentID{"img19", "nothing", "42"} {
		if _, err := Label(id); !errors.Is(err, model.ErrMissingAsset) {
			t.Fatalf("Label(%q) should be a missing asset, got %v", id, err)
		}
	}
}

func TestCell(t *testing.T) {
	if got := Cell("mmimg12", 4); got != " 12 " {
		t.Fatalf("unexpected cell %q", got)
	}
	if got := Cell("battle20", 2); got != "b2" {
		t.Fatalf("unexpected truncated cell %q", got)
	}
	if got := Cell("bogus", 3); got != " ? " {
		t.Fatalf("unexpected unknown cell %q", got)
	}
}

func TestAudio(t *testing.T) {
	var buf bytes.Buffer
	a := NewAudio(&buf, false)
	if err := a.Play("note3"); err != nil {
		t.Fatalf("play note: %v", err)
	}
	if err := a.Play("yupi"); err != nil {
		t.Fatalf("play yupi: %v", err)
	}
	if buf.String() != "\a" || a.Last() != "yupi" {
		t.Fatalf("unexpected output %q last %q", buf.String(), a.Last())
	}
	if err := a.Play("note9"); !errors.Is(err, model.ErrMissingAsset) {
		t.Fatalf("expected missing asset, got %v", err)
	}
	a.SetMuted(true)
	if err := a.Play("kuku"); err != nil || buf.Len() != 1 {
		t.Fatalf("muted audio should not ring")
	}
}
