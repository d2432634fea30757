package main

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/meigma/tfcs"
	"github.com/meigma/tfcs/internal/batch"
	"github.com/meigma/tfcs/patchstack"
)

type patchOptions struct {
	*globalOptions
	out       string
	subtitles bool
	jobs      int
}

func newPatchCmd(g *globalOptions) *cobra.Command {
	opts := &patchOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "patch [flags] file...",
		Short: "Apply the patch stack to TFCS files",
		Long: "Apply the patch stack to TFCS files.\n\n" +
			"Files are patched in place unless --out is set, in which case the\n" +
			"patched copies are written under it, keeping their path below --root.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default: patch in place)")
	cmd.Flags().BoolVar(&opts.subtitles, "subtitles", false, "also apply the subtitles stack from the configuration")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files patched concurrently")
	return cmd
}

func (o *patchOptions) run(ctx context.Context, files []string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	p := o.newPatcher(cfg)
	stack := o.newStack()

	entries := make([]*batch.Entry, 0, len(files))
	for _, path := range files {
		name, err := o.gameFileName(path)
		if err != nil {
			return err
		}
		entry, err := batch.NewEntry(path, name)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	proc := batch.NewProcessor(func(entry *batch.Entry, data []byte) ([]byte, error) {
		return o.patchFile(p, stack, entry.Name, data)
	}, batch.WithWorkers(o.jobs))
	sink := batch.NewFileSink(o.out, batch.WithOverwrite(true), batch.WithPreserveMode(true))

	stats, err := proc.Process(ctx, entries, sink)
	if err != nil {
		return err
	}
	o.logger.Info("done", slog.Int("patched", stats.Written), slog.Int("skipped", stats.Skipped))
	return nil
}

// patchFile returns the patched contents of name, or nil when nothing
// changed.
func (o *patchOptions) patchFile(p *tfcs.Patcher, stack *patchstack.Stack, name string, data []byte) ([]byte, error) {
	raw, patchSize, err := stack.Resolve(name)
	if err != nil {
		return nil, err
	}
	doc, err := tfcs.ParsePatch(raw)
	if err != nil {
		return nil, err
	}

	extra := p.EstimateSize(name, doc, patchSize)
	if o.subtitles {
		extra += p.EstimateSubtitlesSize(name)
	}
	if extra == 0 {
		o.logger.Debug("no patch", slog.String("file", name))
		return nil, nil
	}

	buf := make([]byte, len(data)+extra)
	copy(buf, data)

	// Failed patches leave buf untouched and are already logged by the
	// patcher; the file is then served as it is.
	res, err := p.PatchTable(buf, len(data), name, doc)
	if err != nil {
		res = tfcs.Result{Size: len(data)}
	}
	rows := res.Rows
	if o.subtitles {
		if sub, err := p.PatchSubtitles(buf, res.Size, name); err == nil {
			res.Size = sub.Size
			res.Truncated = res.Truncated || sub.Truncated
			rows += sub.Rows
		}
	}
	if rows == 0 {
		o.logger.Debug("nothing patched", slog.String("file", name))
		return nil, nil
	}

	out := buf[:res.Size]
	o.logger.Info("patched",
		slog.String("file", name),
		slog.Int("rows", rows),
		slog.Bool("plain", res.Plain),
		slog.Bool("truncated", res.Truncated),
		slog.String("in", digest.FromBytes(data).String()),
		slog.String("out", digest.FromBytes(out).String()))
	return out, nil
}
