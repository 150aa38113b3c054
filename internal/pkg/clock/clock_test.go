package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, c.Location().String())
	assert.Equal(t, DefaultTimezone, c.Now().Location().String())

	_, err = New("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	at := time.Date(2025, 12, 12, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, time.UTC, Fixed{At: at}.Location())

	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	f := Fixed{At: at, Loc: loc}
	assert.Equal(t, 20, f.Now().Hour())
	assert.True(t, f.Now().Equal(at))
}
