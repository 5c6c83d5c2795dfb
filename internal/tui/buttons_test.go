package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"
)

func TestButtonBar_States(t *testing.T) {
	t.Parallel()
	b := NewButtonBar()
	b.SetEnabled(false, true)

	buttons := b.Buttons()
	require.Equal(t, ButtonDisabled, buttons[0].State)
	require.Equal(t, ButtonNormal, buttons[1].State)

	b.SetFocused(true)
	require.Equal(t, ButtonFocused, b.Buttons()[1].State)
}

func TestButtonBar_Navigate(t *testing.T) {
	t.Parallel()
	b := NewButtonBar()
	b.SetEnabled(true, true)

	// Unfocused bar ignores keys
	require.Nil(t, b.Update(key("enter")))

	b.SetFocused(true)
	msgs := drain(b.Update(key("enter")))
	require.Equal(t, []tea.Msg{NavigateMsg{Forward: true}}, msgs)

	b.Update(key("left"))
	msgs = drain(b.Update(key("space")))
	require.Equal(t, []tea.Msg{NavigateMsg{Forward: false}}, msgs)
}

func TestButtonBar_DisabledBackSkipped(t *testing.T) {
	t.Parallel()
	b := NewButtonBar()
	b.SetEnabled(false, true)
	b.SetFocused(true)

	b.Update(key("left"))
	msgs := drain(b.Update(key("enter")))
	require.Equal(t, []tea.Msg{NavigateMsg{Forward: true}}, msgs)
}

func TestButtonBar_DisabledNext(t *testing.T) {
	t.Parallel()
	b := NewButtonBar()
	b.SetEnabled(true, false)
	b.SetFocused(true)

	require.Nil(t, b.Update(key("enter")))
}

func TestButtonBar_View(t *testing.T) {
	t.Parallel()
	b := NewButtonBar()

	view := b.View(60)
	require.True(t, strings.Contains(view, "Back"))
	require.True(t, strings.Contains(view, "Next"))
	require.Less(t, strings.Index(view, "Back"), strings.Index(view, "Next"))
}
