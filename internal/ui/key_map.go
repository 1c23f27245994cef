package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	login  key.Binding
	logout key.Binding
	review key.Binding
	delete key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		login:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in")),
		logout: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		review: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "edit review")),
		delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete entry")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.login, k.logout},
		{k.review, k.delete, k.quit},
	}
}
