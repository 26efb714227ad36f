package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
	assert.False(t, bar.ShowingFullHelp())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("Added 3")

	assert.Equal(t, "Added 3", bar.Message())
	assert.Contains(t, bar.View(), "Added 3")
}

func TestStatusBar_ScrollPercent(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetScrollPercent(0.5)

	assert.Contains(t, bar.View(), "50%")
}

func TestStatusBar_ToggleHelp(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(300)

	assert.NotContains(t, bar.View(), "page down")

	bar.ToggleHelp()

	assert.True(t, bar.ShowingFullHelp())
	assert.Contains(t, bar.View(), "page down")
}

func TestStatusBar_View_ShortHelp(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	view := bar.View()

	assert.Contains(t, view, "q: quit")
	assert.Contains(t, view, "next tab")
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
