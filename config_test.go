package tfcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    GameID
		wantErr bool
	}{
		{in: "th155", want: TH155},
		{in: "TH145", want: TH145},
		{in: " 135 ", want: TH135},
		{in: "15.5", want: TH155},
		{in: "", want: GameUnknown},
		{in: "th", want: GameUnknown},
		{in: "touhou", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseGameID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGameIDLegacy(t *testing.T) {
	t.Parallel()

	assert.True(t, GameUnknown.Legacy())
	assert.True(t, TH135.Legacy())
	assert.True(t, TH145.Legacy())
	assert.False(t, TH155.Legacy())
	assert.Equal(t, "th155", TH155.String())
	assert.Equal(t, "unknown", GameUnknown.String())
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		yaml       string
		want       Config
		wantMirror bool
	}{
		{
			name:       "mirror",
			yaml:       "game: th155\nsubtitles_support: true\nsubtitles: true\n",
			want:       Config{Game: TH155, SubtitlesSupport: true, Subtitles: SubtitlesConfig{Mirror: true}},
			wantMirror: true,
		},
		{
			name: "mirror without support",
			yaml: "game: th155\nsubtitles: true\n",
			want: Config{Game: TH155, Subtitles: SubtitlesConfig{Mirror: true}},
		},
		{
			name: "layer list",
			yaml: "game: 155\nsubtitles_support: true\nsubtitles:\n  - base/subs\n  - lang_fr/subs\n",
			want: Config{
				Game:             TH155,
				SubtitlesSupport: true,
				Subtitles:        SubtitlesConfig{Layers: []string{"base/subs", "lang_fr/subs"}},
			},
		},
		{
			name: "single layer",
			yaml: "game: th145\nsubtitles: subs\n",
			want: Config{Game: TH145, Subtitles: SubtitlesConfig{Layers: []string{"subs"}}},
		},
		{
			name: "empty",
			yaml: "",
			want: Config{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := ParseConfig([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
			assert.Equal(t, tt.wantMirror, cfg.MirrorSubtitles())
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig([]byte("game: touhou\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("subtitles: {a: b}\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: th135\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, TH135, cfg.Game)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
