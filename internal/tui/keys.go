package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/tapdrill/internal/finger"
)

type keyMap struct {
	NextMode    key.Binding
	PrevMode    key.Binding
	Finger      key.Binding
	Length      key.Binding
	Theme       key.Binding
	Finish      key.Binding
	Backspace   key.Binding
	ResetStats  key.Binding
	Quit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	ToggleHelp  key.Binding
	fingerByKey map[string]finger.Finger
}

func newKeyMap() keyMap {
	return keyMap{
		NextMode:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		PrevMode:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev mode")),
		Finger:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "6", "7", "8", "9"), key.WithHelp("1-4,6-9", "finger")),
		Length:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "length")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^T", "theme")),
		Finish:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish/new")),
		Backspace:  key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("bksp", "delete")),
		ResetStats: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "reset history")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "no")),
		ToggleHelp: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "more keys")),
		fingerByKey: map[string]finger.Finger{
			"1": finger.LeftPinky,
			"2": finger.LeftRing,
			"3": finger.LeftMiddle,
			"4": finger.LeftIndex,
			"6": finger.RightIndex,
			"7": finger.RightMiddle,
			"8": finger.RightRing,
			"9": finger.RightPinky,
		},
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMode, k.Finger, k.Theme, k.Length, k.Finish, k.ResetStats, k.Quit, k.ToggleHelp}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextMode, k.PrevMode, k.Finger},
		{k.Length, k.Theme},
		{k.Finish, k.Backspace},
		{k.ResetStats, k.Quit, k.ToggleHelp},
	}
}
