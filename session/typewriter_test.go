package session_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ineyio/askimage/session"
)

func TestTypewriter_NoDelayWritesAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, session.Typewriter(&buf, "hello, image", 0))
	assert.Equal(t, "hello, image", buf.String())
}

func TestTypewriter_WithDelay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, session.Typewriter(&buf, "héllo", time.Microsecond))
	// rune-wise emission must keep multi-byte characters intact
	assert.Equal(t, "héllo", buf.String())
}
