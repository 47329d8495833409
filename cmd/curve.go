package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inference-sim/fracalloc/alloc"
	"github.com/inference-sim/fracalloc/alloc/config"
)

var curveColumns = []string{"use", "quantity", "effective_quantity", "price", "revenue"}

func newCurveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print each use's price and revenue over the full quantity range as CSV",
		Long: "Sample every use's price model from zero to the total quantity. Points where a " +
			"price model is undefined are written with empty price and revenue cells.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurve(v, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("config", "", "Path to the allocation problem file")
	cmd.Flags().Int("steps", config.DefaultSteps, "Number of samples per use, excluding zero")
	return cmd
}

func runCurve(v *viper.Viper, out io.Writer) error {
	path := v.GetString("config")
	if path == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	uses, err := cfg.Uses()
	if err != nil {
		return err
	}
	interval := cfg.Interval(v.GetInt("steps"))

	writer := csv.NewWriter(out)
	if err := writer.Write(curveColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, u := range uses {
		points, err := alloc.RevenueCurve(u, cfg.TotalQuantity, interval)
		if err != nil {
			return err
		}
		for _, p := range points {
			price, revenue := "", ""
			if p.Defined {
				price = strconv.FormatFloat(p.Price, 'f', -1, 64)
				revenue = strconv.FormatFloat(p.Revenue, 'f', -1, 64)
			}
			row := []string{
				u.Name,
				strconv.FormatFloat(p.Quantity, 'f', -1, 64),
				strconv.FormatFloat(p.Effective, 'f', -1, 64),
				price,
				revenue,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row for %s: %w", u.Name, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
