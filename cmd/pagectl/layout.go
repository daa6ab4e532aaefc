package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/pagekit/internal/format"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show the physical memory layout",
		Long: `The layout command prints where RAM starts and ends, where the kernel
image ends, and which pages the allocator will manage.

Example:
  pagectl layout
  pagectl layout --mem 64 --kernel 1048576 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
}

// LayoutInfo is the JSON form of the layout report.
type LayoutInfo struct {
	Base       string `json:"base"`
	KernelEnd  string `json:"kernel_end"`
	PhysTop    string `json:"phys_top"`
	FirstPage  string `json:"first_page"`
	LastPage   string `json:"last_page"`
	PageSize   int    `json:"page_size"`
	TableSlots int    `json:"table_slots"`
	Pages      int    `json:"pages"`
	KiB        int    `json:"kib"`
}

func runLayout() error {
	l, err := machineLayout()
	if err != nil {
		return err
	}
	start, end := l.FreeRange()
	info := LayoutInfo{
		Base:       l.Base.String(),
		KernelEnd:  l.KernelEnd.String(),
		PhysTop:    l.PhysTop.String(),
		FirstPage:  start.String(),
		LastPage:   (end - format.PageSize).String(),
		PageSize:   format.PageSize,
		TableSlots: l.TablePages(),
		Pages:      l.Pages(),
		KiB:        l.Pages() * format.PageSize / format.KiB,
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("RAM:          [%s, %s)\n", info.Base, info.PhysTop)
	printInfo("Kernel image: [%s, %s)\n", info.Base, info.KernelEnd)
	printInfo("Managed:      [%s, %s]\n", info.FirstPage, info.LastPage)
	printInfo("Page size:    %d bytes\n", info.PageSize)
	printInfo("Table slots:  %d\n", info.TableSlots)
	printInfo("Pages:        %d (%d KB)\n", info.Pages, info.KiB)
	return nil
}
