package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/meigma/tfcs/internal/codec"
	"github.com/meigma/tfcs/internal/container"
	"github.com/meigma/tfcs/internal/table"
)

type dumpOptions struct {
	*globalOptions
	encoding string
	rows     []int
}

func newDumpCmd(g *globalOptions) *cobra.Command {
	opts := &dumpOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "dump [flags] file",
		Short: "Print the rows of a TFCS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.OutOrStdout(), args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.encoding, "encoding", "e", "utf8", "text encoding of the columns (utf8, sjis)")
	cmd.Flags().IntSliceVarP(&opts.rows, "row", "r", nil, "only print these rows")
	return cmd
}

func textDecoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf8", "utf-8":
		return unicode.UTF8.NewDecoder(), nil
	case "sjis", "shift_jis", "shift-jis", "cp932":
		return japanese.ShiftJIS.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

func (o *dumpOptions) run(w io.Writer, path string) error {
	dec, err := textDecoder(o.encoding)
	if err != nil {
		return err
	}
	data, err := readFile(path)
	if err != nil {
		return err
	}

	h, err := container.ReadHeader(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	compressed, err := container.Payload(data, len(data), h)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	payload, err := codec.New().Inflate(compressed, int(h.UncompressedSize))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r, err := table.NewReader(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	only := make(map[int]bool, len(o.rows))
	for _, i := range o.rows {
		only[i] = true
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s: %d rows, %d bytes compressed, %d bytes uncompressed\n",
		path, r.RowCount(), h.CompressedSize, h.UncompressedSize)
	for row, err := range r.Rows() {
		if err != nil {
			bw.Flush() //nolint:errcheck // the read error is what matters
			return fmt.Errorf("%s: %w", path, err)
		}
		if len(only) > 0 && !only[row.Index] {
			continue
		}
		fmt.Fprintf(bw, "row %d (%d columns, %d bytes)\n", row.Index, row.NumColumns(), 4+len(row.Raw()))
		for i, col := range row.Columns() {
			if col == "" {
				continue
			}
			text, err := dec.String(col)
			if err != nil {
				text = col
			}
			fmt.Fprintf(bw, "  %d: %s\n", i, strconv.Quote(text))
		}
	}
	return bw.Flush()
}
