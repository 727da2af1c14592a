package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"cpuid"
)

// writeRaw prints every recorded register quad as a table, one row per
// (leaf, subleaf) pair. Live hardware is captured first so the table shows
// exactly what a dump of this machine would contain.
func writeRaw(w io.Writer, r cpuid.Reader) error {
	d := snapshot(r)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Leaf", "Subleaf", "EAX", "EBX", "ECX", "EDX"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, e := range d.Entries() {
		subleaf := "-"
		if e.Subleaf != nil {
			subleaf = fmt.Sprintf("%#x", *e.Subleaf)
		}
		table.Append([]string{
			fmt.Sprintf("%#010x", e.Leaf),
			subleaf,
			fmt.Sprintf("%#010x", e.Result.EAX),
			fmt.Sprintf("%#010x", e.Result.EBX),
			fmt.Sprintf("%#010x", e.Result.ECX),
			fmt.Sprintf("%#010x", e.Result.EDX),
		})
	}
	table.Render()
	return nil
}
