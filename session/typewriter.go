package session

import (
	"fmt"
	"io"
	"time"
)

// Typewriter writes text to w one rune at a time with the given delay
// between runes, reproducing the typing animation of the original UI.
// A zero or negative delay writes the text in one go.
func Typewriter(w io.Writer, text string, delay time.Duration) error {
	if delay <= 0 {
		_, err := io.WriteString(w, text)
		return err
	}

	for _, r := range text {
		if _, err := fmt.Fprintf(w, "%c", r); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	return nil
}
