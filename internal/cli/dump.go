package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cpuid"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Capture the CPU into a snapshot file",
	Long: `Dump walks every supported CPUID leaf of the running processor and writes
the register values to a snapshot file. The codec follows the extension:
.msgpack for the binary form, JSON otherwise. The resulting file decodes
identically to the live CPU it was captured from.`,
	Example: `
# JSON snapshot
cpuid dump -o machine.json

# Binary snapshot
cpuid dump -o machine.msgpack
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		c, err := source(cmd)
		if err != nil {
			return err
		}
		d := snapshot(c.Reader())

		if err := cpuid.WriteDumpFile(out, d); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", out, "entries", d.Len())
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "cpuid.json", "Snapshot output path")
}
