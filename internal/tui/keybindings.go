package tui

// helpBinding represents a single keybinding entry for the help view.
type helpBinding struct {
	key  string
	desc string
}

func dashboardBindings() []helpBinding {
	return []helpBinding{
		{"j/k", "Move through countries"},
		{"g/G", "First / last country"},
		{"space", "Toggle country"},
		{"o", "Only this country"},
		{"a", "Select all countries"},
		{"n", "Select no countries"},
		{"h/l", "Start year -1 / +1"},
		{"H/L", "End year -1 / +1"},
		{"[ ]", "Start year -10 / +10"},
		{"{ }", "End year -10 / +10"},
		{"r", "Reset selection"},
		{"y", "Yank series as CSV"},
		{"?", "Help"},
		{"q", "Quit"},
	}
}

// statusBarHint is the one-line reminder under the dashboard
const statusBarHint = "[j/k] Move  [space] Toggle  [h/l H/L] Years  [r] Reset  [y] Yank  [?] Help  [q] Quit"
