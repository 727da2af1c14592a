// Package cli implements the cpuid command tree. The root command prints a
// decoded summary of the bound CPU or of a recorded fixture; subcommands
// capture, report and browse snapshots.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"cpuid"

	"cpuid/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cpuid",
	Short: "Query and decode the x86 CPUID instruction",
	Long: `Cpuid queries the CPUID instruction of the running processor and prints
a decoded summary of every supported leaf. With --file it decodes a recorded
snapshot instead of the live CPU, so dumps from other machines can be
inspected anywhere.`,
	Example: `
# Decode the running CPU
cpuid

# Raw register table
cpuid --raw

# Decode a recorded fixture
cpuid --file ivybridge.json
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := source(cmd)
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			return writeRaw(cmd.OutOrStdout(), c.Reader())
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			f := snapshot(c.Reader()).File()
			bts, err := json.MarshalIndent(f, "", "  ")
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		}

		writeSummary(cmd.OutOrStdout(), c)
		return nil
	},
}

// source binds the facade selected by --file: a loaded fixture, or the live
// hardware when the flag is absent.
func source(cmd *cobra.Command) (*cpuid.CPUID, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return cpuid.New(), nil
	}
	logger.Debug("loading snapshot", "path", path)
	d, err := cpuid.ReadDumpFile(path)
	if err != nil {
		return nil, err
	}
	return cpuid.FromReader(d), nil
}

// snapshot returns r as a dump, capturing first when the reader is live
// hardware.
func snapshot(r cpuid.Reader) *cpuid.Dump {
	if d, ok := r.(*cpuid.Dump); ok {
		return d
	}
	return cpuid.Capture(r)
}

var logger = logging.NewLogger()

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Decode a recorded snapshot instead of the live CPU")

	rootCmd.Flags().BoolP("json", "j", false, "Output the snapshot as JSON")
	rootCmd.Flags().BoolP("raw", "r", false, "Print the raw register table")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(schemaCmd)
}

func Execute() {
	// Bypass fang's markdown rendering for machine-readable output and when
	// output is piped.
	plain := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" || arg == "-j" || arg == "--raw" || arg == "-r" {
			plain = true
			break
		}
	}
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
