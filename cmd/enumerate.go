package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inference-sim/fracalloc/alloc"
)

func newEnumerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Print every allocation vector of the discretized simplex as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnumerate(v, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64("total", 0, "Total quantity to split")
	cmd.Flags().Float64("interval", 0, "Step size")
	cmd.Flags().Int("dims", 3, "Number of dimensions")
	cmd.Flags().Int("limit", 0, "Stop after this many vectors (0 = all)")
	return cmd
}

func runEnumerate(v *viper.Viper, out io.Writer) error {
	n := v.GetInt("dims")
	seq, err := alloc.Enumerate(v.GetFloat64("total"), v.GetFloat64("interval"), n)
	if err != nil {
		return err
	}
	limit := v.GetInt("limit")

	writer := csv.NewWriter(out)
	header := make([]string, n)
	for d := range header {
		header[d] = fmt.Sprintf("x%d", d)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, n)
	written := 0
	for vec := range seq {
		if limit > 0 && written == limit {
			break
		}
		for d, x := range vec {
			row[d] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", written, err)
		}
		written++
	}
	writer.Flush()
	return writer.Error()
}
