package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-shoplist/internal/view"
)

// share 公共只读视图：凭 token 看别人分享的清单，无需登录
func newShareCmd(a *app) *cobra.Command {
	var search, sortKey, cat string
	cmd := &cobra.Command{
		Use:   "share <token>",
		Short: "View a shared list by token (no login required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			l, err := a.lists.FetchListByShareToken(c.Context(), args[0])
			if err != nil {
				return fmt.Errorf("shared list not found")
			}
			items, err := a.items.FetchItemsByList(c.Context(), l.ID)
			if err != nil {
				return fmt.Errorf("failed to load shared items")
			}

			fmt.Printf("%s (shared)\n", l.Name)
			visible := view.VisibleItems(items, search, cat, view.ParseSort(sortKey))
			if len(visible) == 0 {
				fmt.Println("no items")
				return nil
			}
			for _, it := range visible {
				fmt.Printf("%3d x %-24s  %s\n", it.Quantity, it.Name, it.Category)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	cmd.Flags().StringVar(&sortKey, "sort", string(view.DefaultSort), "sort key")
	cmd.Flags().StringVar(&cat, "cat", view.CategoryAll, "category filter")
	return cmd
}
