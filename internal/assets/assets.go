// Package assets maps content and sound ids to what a terminal can show and play.
package assets

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/memomu/internal/model"
)

var (
	musicGlyphs   = []rune("♠♣♥♦★☀☂☃☎☕♞♛♜⚑⚓✈✿❄")
	classicGlyphs = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ2345678")
)

// Label returns the face text of a content id.
func Label(id model.ContentID) (string, error) {
	s := string(id)
	switch {
	case id == model.Blank:
		return "", nil
	case s == "monad":
		return "◆", nil
	case s == "avatar":
		return "☺", nil
	}
	prefix, n, ok := split(s)
	if !ok {
		return "", fmt.Errorf("%w: content %q", model.ErrMissingAsset, id)
	}
	switch prefix {
	case "img":
		if n >= 1 && n <= len(musicGlyphs) {
			return string(musicGlyphs[n-1]), nil
		}
	case "classic":
		if n >= 1 && n <= len(classicGlyphs) {
			return string(classicGlyphs[n-1]), nil
		}
	case "mmimg":
		return fmt.Sprintf("%02d", n), nil
	case "battle":
		return fmt.Sprintf("b%d", n), nil
	}
	return "", fmt.Errorf("%w: content %q", model.ErrMissingAsset, id)
}

// Cell returns the label of id fitted to width display cells.
// Unknown ids render as "?".
func Cell(id model.ContentID, width int) string {
	label, err := Label(id)
	if err != nil {
		label = "?"
	}
	label = runewidth.Truncate(label, width, "")
	pad := width - runewidth.StringWidth(label)
	left := pad / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left)
}

func split(s string) (string, int, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return "", 0, false
	}
	return s[:i], n, true
}

// Audio plays sounds as terminal bells and remembers the last one for display.
type Audio struct {
	out   io.Writer
	muted bool
	last  string
}

// NewAudio returns an Audio writing bells to out. A nil out stays silent.
func NewAudio(out io.Writer, muted bool) *Audio {
	return &Audio{out: out, muted: muted}
}

// Play plays a known sound. Unknown ids return model.ErrMissingAsset.
func (a *Audio) Play(id string) error {
	if !Known(id) {
		return fmt.Errorf("%w: sound %q", model.ErrMissingAsset, id)
	}
	a.last = id
	if a.muted || a.out == nil {
		return nil
	}
	// Notes never ring.
	if strings.HasPrefix(id, "note") {
		return nil
	}
	_, err := io.WriteString(a.out, "\a")
	return err
}

// Last returns the most recent sound id.
func (a *Audio) Last() string {
	return a.last
}

// SetMuted toggles sound output.
func (a *Audio) SetMuted(m bool) {
	a.muted = m
}

// Muted reports whether sound output is off.
func (a *Audio) Muted() bool {
	return a.muted
}

// Known reports whether id names a shipped sound.
func Known(id string) bool {
	switch id {
	case "yupi", "kuku", "buuuu":
		return true
	}
	prefix, n, ok := split(id)
	return ok && prefix == "note" && n >= 1 && n <= 8
}
