package hibiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChord_Modifiers(t *testing.T) {
	tests := []struct {
		text      string
		symbol    string
		note      string
		sustained bool
		chucked   bool
		nonChord  bool
		palmMuted bool
		hammered  bool
	}{
		{text: "Cadd9", symbol: "Cadd9", note: "Cadd9"},
		{text: "A|", symbol: "A|", note: "A", chucked: true},
		{text: "B_", symbol: "B_", note: "B", palmMuted: true},
		{text: "(C)", symbol: "(C)", note: "C", sustained: true},
		{text: "(Am|)", symbol: "(Am|)", note: "Am|", sustained: true},
		{text: "NC", symbol: "N.C.", note: "N.C.", nonChord: true},
		{text: "N.C.", symbol: "N.C.", note: "N.C.", nonChord: true},
		{text: "A7hA", symbol: "A7hA", note: "A7hA", hammered: true},
		{text: "Q#m7", symbol: "Q#m7", note: "Q#m7"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c := NewChord(tt.text)

			assert.Equal(t, tt.text, c.Text)
			assert.Equal(t, tt.symbol, c.Symbol)
			assert.Equal(t, tt.note, c.Note())
			assert.Equal(t, tt.sustained, c.Sustained)
			assert.Equal(t, tt.chucked, c.Chucked)
			assert.Equal(t, tt.nonChord, c.NonChord)
			assert.Equal(t, tt.palmMuted, c.PalmMuted)
			assert.Equal(t, tt.hammered, c.HammerInto != nil)
			assert.Equal(t, tt.symbol+" ", c.TabRepr())
		})
	}
}

func TestNewChord_HammerInto(t *testing.T) {
	c := NewChord("A7hA")
	require.NotNil(t, c.HammerInto)
	assert.Equal(t, "A", c.HammerInto.Symbol)
	assert.Nil(t, c.HammerInto.HammerInto)

	t.Run("child gets its own modifiers", func(t *testing.T) {
		c := NewChord("Ah(B)")
		require.NotNil(t, c.HammerInto)
		assert.True(t, c.HammerInto.Sustained)
		assert.Equal(t, "Ah(B)", c.Symbol)
	})

	t.Run("splits on the first h", func(t *testing.T) {
		c := NewChord("AhBhC")
		require.NotNil(t, c.HammerInto)
		assert.Equal(t, "BhC", c.HammerInto.Text)
		require.NotNil(t, c.HammerInto.HammerInto)
		assert.Equal(t, "C", c.HammerInto.HammerInto.Symbol)
		assert.Equal(t, "AhBhC", c.Symbol)
	})

	t.Run("into nothing", func(t *testing.T) {
		c := NewChord("Ch")
		require.NotNil(t, c.HammerInto)
		assert.Equal(t, "", c.HammerInto.Text)
		assert.Equal(t, "Ch", c.Symbol)
	})
}

func TestNewChord_Deterministic(t *testing.T) {
	for _, text := range []string{"A|", "(C)", "NC", "A7hA", "(Bh(C)|)", ""} {
		assert.Equal(t, NewChord(text), NewChord(text), text)
	}
}

func TestSpace(t *testing.T) {
	assert.Equal(t, "   ", Space(3).TabRepr())
	assert.Equal(t, "", Space(0).TabRepr())
	assert.Equal(t, "<Space: 3>", Space(3).String())
}
