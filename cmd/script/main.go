package main

import (
	"context"
	"divmetrics/cmd"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "divmetrics",
		Short: "portfolio tracker maintenance commands",
	}

	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the api server",
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(apiHandler)
			return apiHandler.StartApi(port)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 3009, "port to listen on")

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "import holdings from a text or csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(apiHandler)

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			result, err := apiHandler.ImportService.ImportHoldings(context.Background(), nil, string(content))
			if err != nil {
				return err
			}

			fmt.Printf("created %d, merged %d, skipped %d\n", result.Created, result.Merged, result.Skipped)
			return nil
		},
	}

	quotesCmd := &cobra.Command{
		Use:   "quotes",
		Short: "fetch current quotes for all holdings",
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(apiHandler)

			ctx := context.Background()
			holdings, err := apiHandler.HoldingService.ListHoldings(ctx, nil)
			if err != nil {
				return err
			}
			quotes, err := apiHandler.QuoteService.GetQuotes(ctx, holdings, false, true)
			if err != nil {
				return err
			}

			for symbol, q := range quotes {
				fmt.Printf("%s\t%s\t%s%%\n", symbol, q.Price.StringFixed(2), q.ChangePercent.StringFixed(2))
			}
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, importCmd, quotesCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
