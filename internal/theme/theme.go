// Package theme defines the color themes and persists the selected one.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Theme identifies a color palette.
type Theme int

// Available themes in cycling order.
const (
	Synthwave Theme = iota
	Dracula
	OneDark
	Monokai
	Nord
	Gruvbox
)

// Default is used when no preference is stored.
const Default = Gruvbox

// Palette holds hex colors for one theme.
type Palette struct {
	Primary   string
	Secondary string
	Correct   string
	Error     string
	CurrentFg string
	CurrentBg string
	Pending   string
	Subtitle  string
	Warning   string
}

type themeInfo struct {
	tag     string
	name    string
	palette Palette
}

var themes = [...]themeInfo{
	Synthwave: {"Synthwave", "Synthwave", Palette{
		Primary: "#39FFFA", Secondary: "#BF40FF", Correct: "#39FF14", Error: "#FF69B4",
		CurrentFg: "#14141E", CurrentBg: "#FFFF64", Pending: "#64648C", Subtitle: "#B4B4DC", Warning: "#FFB000",
	}},
	Dracula: {"Dracula", "Dracula", Palette{
		Primary: "#BD93F9", Secondary: "#FF79C6", Correct: "#50FA7B", Error: "#FF5555",
		CurrentFg: "#282A36", CurrentBg: "#F1FA8C", Pending: "#6272A4", Subtitle: "#8B949E", Warning: "#FFB86C",
	}},
	OneDark: {"OneDark", "One Dark", Palette{
		Primary: "#61AFEF", Secondary: "#C678DD", Correct: "#98C379", Error: "#E06C75",
		CurrentFg: "#282C34", CurrentBg: "#E5C07B", Pending: "#5C6370", Subtitle: "#ABB2BF", Warning: "#D19A66",
	}},
	Monokai: {"Monokai", "Monokai", Palette{
		Primary: "#66D9EF", Secondary: "#AE81FF", Correct: "#A6E22E", Error: "#F92672",
		CurrentFg: "#272822", CurrentBg: "#E6DB74", Pending: "#75715E", Subtitle: "#A6ACA3", Warning: "#FD971F",
	}},
	Nord: {"Nord", "Nord", Palette{
		Primary: "#88C0D0", Secondary: "#B48EAD", Correct: "#A3BE8C", Error: "#BF616A",
		CurrentFg: "#2E3440", CurrentBg: "#EBCB8B", Pending: "#4C566A", Subtitle: "#D8DEE9", Warning: "#D08770",
	}},
	Gruvbox: {"Gruvbox", "Gruvbox", Palette{
		Primary: "#FBBD2E", Secondary: "#D3869B", Correct: "#B8BB26", Error: "#FB4934",
		CurrentFg: "#282828", CurrentBg: "#FABD2F", Pending: "#928374", Subtitle: "#BDAE93", Warning: "#FE8019",
	}},
}

// All returns every theme in cycling order.
func All() []Theme {
	return []Theme{Synthwave, Dracula, OneDark, Monokai, Nord, Gruvbox}
}

func (t Theme) info() themeInfo {
	if t < Synthwave || t > Gruvbox {
		return themes[Default]
	}
	return themes[t]
}

// Name returns the display name.
func (t Theme) Name() string {
	return t.info().name
}

func (t Theme) String() string {
	return t.Name()
}

// Palette returns the theme colors.
func (t Theme) Palette() Palette {
	return t.info().palette
}

// Next cycles to the following theme, wrapping around.
func (t Theme) Next() Theme {
	all := All()
	for i, candidate := range all {
		if candidate == t {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}

// MarshalJSON encodes the theme as its tag string.
func (t Theme) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.info().tag)
}

// UnmarshalJSON decodes a tag string.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	for _, candidate := range All() {
		if themes[candidate].tag == tag {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown theme %q", tag)
}

// Load reads the stored theme. Missing or unreadable files yield Default and
// the error, if any, for logging.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default, nil
		}
		return Default, fmt.Errorf("read theme: %w", err)
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return Default, fmt.Errorf("decode theme %s: %w", path, err)
	}
	return t, nil
}

// Save writes the theme, creating parent directories as needed.
func Save(path string, t Theme) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}
