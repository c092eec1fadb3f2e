package cache

import (
	"fmt"
	"io"

	"kapsel/cmd/ctl/root"
	"kapsel/internal/cache"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the cached payload with the bundle",
	Long:  "Compare the BLAKE3 digest of every cached payload item with the bundled copy. Exits non-zero when an item is stale or missing.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return verify(cmd.OutOrStdout())
	},
}

func verify(out io.Writer) error {
	l, _, err := root.NewLauncher()
	if err != nil {
		return err
	}
	b, err := l.OpenBundle()
	if err != nil {
		return err
	}
	defer b.Close()

	cfg, err := b.LaunchConfig()
	if err != nil {
		return err
	}
	layout, err := l.Layout(cfg)
	if err != nil {
		return err
	}
	statuses, err := cache.Verify(layout, b)
	if err != nil {
		return err
	}

	printStatuses(out, statuses)
	bad := 0
	for _, st := range statuses {
		if st.State != cache.ItemFresh {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d payload items are stale or missing in %s", bad, len(statuses), layout.Dir)
	}
	return nil
}

func printStatuses(out io.Writer, statuses []cache.ItemStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Item", "State", "Digest", "Path"})
	for _, st := range statuses {
		digest := st.Bundle
		if len(digest) > 16 {
			digest = digest[:16]
		}
		t.AppendRow(table.Row{st.Item, st.State, digest, st.Path})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func init() {
	cacheCmd.AddCommand(verifyCmd)
}
