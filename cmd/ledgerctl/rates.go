package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/spf13/cobra"
)

var flagRatesCurrencies []string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch and print the current exchange rates",
	Args:  cobra.NoArgs,
	RunE:  runRates,
}

func init() {
	ratesCmd.Flags().StringSliceVarP(&flagRatesCurrencies, "currency", "c", nil, "Only print these currency codes")
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	currency := service.NewCurrencyService(service.NewExchangeRateClient(cfg.Rates.APIURL, 10*time.Second), cfg.Rates.TTL)
	rates := currency.Refresh(ctx)

	codes := flagRatesCurrencies
	if len(codes) == 0 {
		for code := range rates.Rates {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "base %s, source %s, fetched %s\n", rates.Base, rates.Source, rates.FetchedAt.Format(time.RFC3339))
	for _, code := range codes {
		rate, ok := rates.Rates[code]
		if !ok {
			fmt.Fprintf(out, "  %-4s  unsupported\n", code)
			continue
		}
		fmt.Fprintf(out, "  %-4s  %s\n", code, rate.String())
	}
	return nil
}
