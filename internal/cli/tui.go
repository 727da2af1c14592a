package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"cpuid/internal/styles"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the decoded leaves interactively",
	Long: `Tui opens an interactive browser over the decoded CPU: a filterable list
of leaf sections on the left, the selected section's fields on the right.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := source(cmd)
		if err != nil {
			return err
		}

		program := tea.NewProgram(
			newBrowser(sections(c)),
			tea.WithAltScreen(),
		)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run browser: %w", err)
		}
		return nil
	},
}

type sectionItem struct {
	section section
}

func (i sectionItem) Title() string       { return i.section.title }
func (i sectionItem) FilterValue() string { return i.section.title }

type sectionDelegate struct{}

func (d sectionDelegate) Height() int                               { return 1 }
func (d sectionDelegate) Spacing() int                              { return 0 }
func (d sectionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d sectionDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(sectionItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprintf(w, " %s %s", styles.Selected.Render(">"), styles.Selected.Render(i.section.title))
		return
	}
	fmt.Fprintf(w, "   %s", i.section.title)
}

type browser struct {
	sections []section
	list     list.Model
	detail   viewport.Model
	width    int
	height   int
}

func newBrowser(secs []section) browser {
	items := make([]list.Item, len(secs))
	for i, s := range secs {
		items[i] = sectionItem{section: s}
	}

	sectionList := list.New(items, sectionDelegate{}, 40, 24)
	sectionList.SetShowStatusBar(false)
	sectionList.SetFilteringEnabled(true)
	sectionList.Title = "Leaves"
	sectionList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	sectionList.SetShowHelp(true)

	vp := viewport.New()
	vp.SetWidth(40)
	vp.SetHeight(24)

	b := browser{sections: secs, list: sectionList, detail: vp, width: 80, height: 24}
	b.updateDetail()
	return b
}

func (b *browser) updateDetail() {
	i, ok := b.list.SelectedItem().(sectionItem)
	if !ok {
		b.detail.SetContent(styles.Missing.Render("nothing selected"))
		return
	}
	var sb strings.Builder
	sb.WriteString(styles.Section.Render(i.section.title))
	sb.WriteString("\n\n")
	width := 0
	for _, ln := range i.section.lines {
		if len(ln.label) > width {
			width = len(ln.label)
		}
	}
	for _, ln := range i.section.lines {
		fmt.Fprintf(&sb, "%s  %s\n",
			styles.Label.Render(fmt.Sprintf("%-*s", width, ln.label)),
			styles.Value.Render(ln.value))
	}
	b.detail.SetContent(sb.String())
}

func (b browser) Init() tea.Cmd {
	return nil
}

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		listWidth := msg.Width / 2
		b.list.SetWidth(listWidth)
		b.list.SetHeight(msg.Height - 2)
		b.detail.SetWidth(msg.Width - listWidth - 2)
		b.detail.SetHeight(msg.Height - 2)
		b.updateDetail()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b, tea.Quit
		}
		if b.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q":
				return b, tea.Quit
			case "pgup", "pgdown":
				var cmd tea.Cmd
				b.detail, cmd = b.detail.Update(msg)
				return b, cmd
			}
		}
	}

	var cmd tea.Cmd
	before := b.list.Index()
	b.list, cmd = b.list.Update(msg)
	if b.list.Index() != before {
		b.updateDetail()
	}
	return b, cmd
}

func (b browser) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, b.list.View(), "  ", b.detail.View())
}
