package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"cpuid/internal/styles"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a markdown report of the decoded CPU",
	Long: `Report renders the decoded summary as a markdown document. On a terminal
the markdown is rendered with glamour; piped output gets the plain source so
it can be committed or diffed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := source(cmd)
		if err != nil {
			return err
		}

		var md strings.Builder
		writeMarkdown(&md, c)

		if !term.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprint(cmd.OutOrStdout(), md.String())
			return nil
		}

		width, _, err := term.GetSize(os.Stdout.Fd())
		if err != nil || width <= 0 || width > 120 {
			width = 100
		}
		rendered, err := styles.GetMarkdownRenderer(width).Render(md.String())
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}
