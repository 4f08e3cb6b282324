package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/view"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage shopping lists",
	}
	cmd.AddCommand(
		newListLsCmd(a),
		newListAddCmd(a),
		newListRenameCmd(a),
		newListRmCmd(a),
		newListShareCmd(a),
	)
	return cmd
}

// fetchMyLists 拉取当前用户的清单（自动选中逻辑在 store 里）
func (a *app) fetchMyLists(ctx context.Context) (domain.SafeUser, error) {
	u, err := a.requireUser()
	if err != nil {
		return domain.SafeUser{}, err
	}
	if err := a.lists.FetchLists(ctx, u.ID); err != nil {
		return domain.SafeUser{}, fmt.Errorf("%s", a.lists.State().Error)
	}
	return u, nil
}

func newListLsCmd(a *app) *cobra.Command {
	var search, sortKey string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show your lists",
		RunE: func(c *cobra.Command, _ []string) error {
			if _, err := a.fetchMyLists(c.Context()); err != nil {
				return err
			}
			st := a.lists.State()
			visible := view.VisibleLists(st.Lists, search, view.ParseSort(sortKey))
			if len(visible) == 0 {
				fmt.Println("no lists")
				return nil
			}
			for _, l := range visible {
				marker := " "
				if l.ID == st.SelectedListID {
					marker = "*"
				}
				shared := ""
				if l.ShareToken != "" {
					shared = "  [shared: " + l.ShareToken + "]"
				}
				fmt.Printf("%s %-32s  %s%s\n", marker, l.ID, l.Name, shared)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	cmd.Flags().StringVar(&sortKey, "sort", string(view.DefaultSort), "name_asc|name_desc|date_asc|date_desc")
	return cmd
}

func newListAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			l, err := a.lists.AddList(c.Context(), u.ID, args[0])
			if err != nil {
				if msg := a.lists.State().Error; msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}
			fmt.Printf("created list %s (%s)\n", l.Name, l.ID)
			return nil
		},
	}
}

func newListRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			l, err := a.lists.UpdateList(c.Context(), args[0], args[1])
			if err != nil {
				if msg := a.lists.State().Error; msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}
			fmt.Printf("renamed to %s\n", l.Name)
			return nil
		},
	}
}

func newListRmCmd(a *app) *cobra.Command {
	var withItems bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if _, err := a.fetchMyLists(c.Context()); err != nil {
				return err
			}
			if err := a.lists.DeleteList(c.Context(), args[0], withItems); err != nil {
				return fmt.Errorf("%s", a.lists.State().Error)
			}
			fmt.Println("deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withItems, "with-items", true, "also delete the list's items")
	return cmd
}

func newListShareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Issue a public read-only share link",
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected a list id")
			}
			if _, err := a.requireUser(); err != nil {
				return err
			}
			l, err := a.lists.ShareList(c.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s", a.lists.State().Error)
			}
			fmt.Printf("share token: %s\nview with: shopctl share %s\n", l.ShareToken, l.ShareToken)
			return nil
		},
	}
}
