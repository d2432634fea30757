package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meigma/tfcs"
	"github.com/meigma/tfcs/patchstack"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	game       string
	stack      []string
	root       string
	verbose    bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "tfcs",
		Short:        "Patch translated text into TFCS table containers",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML run configuration")
	flags.StringVar(&opts.game, "game", "", "game id, overrides the configuration (th135, th145, th155)")
	flags.StringSliceVarP(&opts.stack, "stack", "s", nil, "patch directories, lowest priority first")
	flags.StringVar(&opts.root, "root", ".", "game data root; patch documents are looked up relative to it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(newPatchCmd(opts), newDumpCmd(opts), newEstimateCmd(opts))
	return cmd
}

// loadConfig reads the run configuration and applies flag overrides.
func (o *globalOptions) loadConfig() (tfcs.Config, error) {
	var cfg tfcs.Config
	if o.configPath != "" {
		var err error
		if cfg, err = tfcs.LoadConfig(o.configPath); err != nil {
			return tfcs.Config{}, err
		}
	}
	if o.game != "" {
		id, err := tfcs.ParseGameID(o.game)
		if err != nil {
			return tfcs.Config{}, err
		}
		cfg.Game = id
	}
	return cfg, nil
}

func (o *globalOptions) newPatcher(cfg tfcs.Config) *tfcs.Patcher {
	return tfcs.New(cfg, tfcs.WithLogger(o.logger))
}

func (o *globalOptions) newStack() *patchstack.Stack {
	return patchstack.FromDirs(o.stack, patchstack.WithLogger(o.logger))
}

// gameFileName maps a path on disk to the name patch documents are keyed by.
func (o *globalOptions) gameFileName(path string) (string, error) {
	rel, err := filepath.Rel(o.root, path)
	if err != nil {
		return "", fmt.Errorf("%s is not under %s: %w", path, o.root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is not under %s", path, o.root)
	}
	return rel, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
