package tfcs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/tfcs/internal/rowpatch"
)

// GameID identifies a game by its series number times ten.
// Ordering matters: everything up to TH145 uses the legacy row layout.
type GameID int

// Known games.
const (
	GameUnknown GameID = 0
	TH135       GameID = 135
	TH145       GameID = 145
	TH155       GameID = 155
)

// ParseGameID accepts "th155", "TH155", "155" or "15.5".
func ParseGameID(s string) (GameID, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	v = strings.TrimPrefix(v, "th")
	if v == "" {
		return GameUnknown, nil
	}
	if whole, frac, ok := strings.Cut(v, "."); ok {
		v = whole + frac
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return GameUnknown, fmt.Errorf("tfcs: unknown game %q", s)
	}
	return GameID(n), nil
}

func (g GameID) String() string {
	if g == GameUnknown {
		return "unknown"
	}
	return fmt.Sprintf("th%d", int(g))
}

// Legacy reports whether g uses the TH145-and-earlier message layout.
func (g GameID) Legacy() bool {
	return g <= TH145
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *GameID) UnmarshalYAML(node *yaml.Node) error {
	id, err := ParseGameID(node.Value)
	if err != nil {
		return err
	}
	*g = id
	return nil
}

// SubtitlesConfig is the "subtitles" run setting: either the literal true,
// meaning subtitles mirror the main patch stack, or a separate stack of
// patch directories.
type SubtitlesConfig struct {
	Mirror bool
	Layers []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SubtitlesConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err == nil {
			*s = SubtitlesConfig{Mirror: b}
			return nil
		}
		*s = SubtitlesConfig{Layers: []string{node.Value}}
		return nil
	case yaml.SequenceNode:
		var layers []string
		if err := node.Decode(&layers); err != nil {
			return fmt.Errorf("subtitles: %w", err)
		}
		*s = SubtitlesConfig{Layers: layers}
		return nil
	default:
		return fmt.Errorf("subtitles: expected bool or list, got %v", node.Tag)
	}
}

// Config is the run configuration a Patcher is built from. It is read once;
// changing it afterwards has no effect on existing Patchers.
type Config struct {
	Game             GameID          `yaml:"game"`
	SubtitlesSupport bool            `yaml:"subtitles_support"`
	Subtitles        SubtitlesConfig `yaml:"subtitles"`
}

// ParseConfig decodes a YAML run configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("tfcs: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a YAML run configuration from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return Config{}, fmt.Errorf("tfcs: read config: %w", err)
	}
	return ParseConfig(data)
}

// MirrorSubtitles reports whether lines bundles go to the subtitle slots
// instead of the balloons: subtitles are supported and the subtitles
// setting is the literal true rather than a patch stack.
func (c Config) MirrorSubtitles() bool {
	return c.SubtitlesSupport && c.Subtitles.Mirror
}

func (c Config) settings() rowpatch.Settings {
	return rowpatch.Settings{
		Legacy:          c.Game.Legacy(),
		MirrorSubtitles: c.MirrorSubtitles(),
	}
}
