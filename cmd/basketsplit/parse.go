package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/basketsplit/basketsplit/internal/pdftext"
	"github.com/basketsplit/basketsplit/internal/receipt"
)

var parseRetailer string

var parseCmd = &cobra.Command{
	Use:   "parse <receipt.pdf>",
	Short: "Parse a receipt PDF and print its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		registry := newRegistry(logger)

		retailer := parseRetailer
		if retailer == "" {
			retailer = cfg.Parser.Retailer
		}
		parser, err := registry.Get(retailer)
		if err != nil {
			return err
		}

		lines, err := pdftext.ExtractLines(args[0])
		if err != nil {
			return err
		}

		parsed, err := receipt.Parse(parser, lines)
		if err != nil {
			return err
		}

		printReceipt(parsed)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseRetailer, "retailer", "", "receipt format (defaults to config)")
	rootCmd.AddCommand(parseCmd)
}

func printReceipt(parsed *receipt.Receipt) {
	fmt.Printf("Order ID:   %d\n", parsed.Header.OrderID)
	fmt.Printf("Order time: %s\n\n", parsed.Header.OrderTime.Format("Monday 2 January 2006, 3:04pm"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tWEIGHT (KG)\tUNIT PRICE")
	var total float64
	for _, row := range parsed.Rows {
		weight := "-"
		if row.WeightKG != nil {
			weight = fmt.Sprintf("%.3g", *row.WeightKG)
		}
		fmt.Fprintf(w, "%s\t%s\t£%.2f\n", row.ItemName, weight, row.UnitPrice)
		total += row.UnitPrice
	}
	w.Flush()

	fmt.Printf("\n%d rows, total £%.2f\n", len(parsed.Rows), total)
}
