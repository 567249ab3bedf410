// Command cardhub processes card statement exports from the command line.
//
//	cardhub process statement.csv --format quickbooks --output july.csv
//	cardhub providers
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/JonMunkholm/cardhub/internal/core"
	"github.com/JonMunkholm/cardhub/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const formatJSON = "json"

type options struct {
	providersFile string
	logLevel      string
	workers       int
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "cardhub",
		Short:         "Normalize and validate corporate card transaction exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&opts.providersFile, "providers-file", os.Getenv("PROVIDERS_FILE"), "YAML file of additional card providers")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "parallel chunk workers (0 = one per CPU)")

	root.AddCommand(newProcessCmd(opts), newProvidersCmd(opts))
	return root
}

// loadRegistry returns the built-in providers plus any from the providers file.
func loadRegistry(opts *options) (*core.Registry, error) {
	registry := core.DefaultRegistry()
	if opts.providersFile == "" {
		return registry, nil
	}
	n, err := registry.RegisterFile(opts.providersFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("custom providers loaded", "path", opts.providersFile, "count", n)
	return registry, nil
}

func newProcessCmd(opts *options) *cobra.Command {
	var (
		provider string
		format   string
		output   string
		maxSize  int64
	)

	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Process a statement file and write the result",
		Long: `Process a CSV or XLSX statement export.

The result is written as JSON by default. Use --format to write a
QuickBooks or Xero import file, or the validation report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if format != formatJSON {
				if _, err := core.ParseExportFormat(format); err != nil {
					return err
				}
			}

			registry, err := loadRegistry(opts)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("%w: %v", core.ErrInputUnreadable, err)
			}
			defer f.Close()

			svc := core.NewService(core.NewEngine(registry, opts.workers), nil, core.ServiceConfig{
				MaxFileSize:   maxSize,
				MaxConcurrent: 1,
			})

			run, err := svc.Process(cmd.Context(), filepath.Base(path), f, provider)
			if err != nil {
				return err
			}

			res := run.Result
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d rows, %d valid, %d fixed, %d errors, %d duplicates (%s)\n",
				res.FileName, res.TotalRows, res.ValidRows, res.FixedRows, res.ErrorRows,
				len(res.Duplicates), res.ProviderID)

			w := cmd.OutOrStdout()
			if output != "" {
				out, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer out.Close()
				w = out
			}

			return writeResult(cmd.Context(), w, svc, run, format)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "card provider id (auto-detected when empty)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, quickbooks, xero or report")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "maximum input size in bytes (0 = unlimited)")
	return cmd
}

func writeResult(ctx context.Context, w io.Writer, svc *core.Service, run *core.Run, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Result)
	}

	file, err := svc.Export(ctx, run.ID, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, file.Content+"\n")
	return err
}

func newProvidersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List card providers in detection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, p := range registry.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
			}
			return tw.Flush()
		},
	}
}
