package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go-shoplist/internal/store"
	"go-shoplist/internal/view"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items on a list",
	}
	cmd.AddCommand(
		newItemLsCmd(a),
		newItemAddCmd(a),
		newItemEditCmd(a),
		newItemRmCmd(a),
	)
	return cmd
}

// resolveList 选目标清单：--list 优先，否则用拉取后自动选中的那张
func (a *app) resolveList(ctx context.Context, override string) (userID, listID string, err error) {
	u, err := a.fetchMyLists(ctx)
	if err != nil {
		return "", "", err
	}
	if override != "" {
		return u.ID, override, nil
	}
	st := a.lists.State()
	if st.SelectedListID == "" {
		return "", "", fmt.Errorf("no lists yet (create one with `shopctl list add`)")
	}
	return u.ID, st.SelectedListID, nil
}

func newItemLsCmd(a *app) *cobra.Command {
	var listID, search, sortKey, cat string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show items on the selected list",
		RunE: func(c *cobra.Command, _ []string) error {
			_, lid, err := a.resolveList(c.Context(), listID)
			if err != nil {
				return err
			}
			if err := a.items.FetchItems(c.Context(), lid); err != nil {
				return fmt.Errorf("%s", a.items.State().Error)
			}
			visible := view.VisibleItems(a.items.State().Items, search, cat, view.ParseSort(sortKey))
			if len(visible) == 0 {
				fmt.Println("no items")
				return nil
			}
			for _, it := range visible {
				notes := ""
				if it.Notes != "" {
					notes = "  (" + it.Notes + ")"
				}
				fmt.Printf("%-32s  %3d x %-24s  %-12s%s\n", it.ID, it.Quantity, it.Name, it.Category, notes)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list id (defaults to the selected list)")
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	cmd.Flags().StringVar(&sortKey, "sort", string(view.DefaultSort), "name_asc|name_desc|category_asc|category_desc|date_asc|date_desc")
	cmd.Flags().StringVar(&cat, "cat", view.CategoryAll, "category filter")
	return cmd
}

func newItemAddCmd(a *app) *cobra.Command {
	var listID, qty, cat, notes, imageURL string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			uid, lid, err := a.resolveList(c.Context(), listID)
			if err != nil {
				return err
			}
			req, err := store.NewAddItemRequest(uid, lid, strings.Join(args, " "), qty, cat, notes, imageURL)
			if err != nil {
				return err
			}
			it, err := a.items.AddItem(c.Context(), req)
			if err != nil {
				return fmt.Errorf("%s", a.items.State().Error)
			}
			fmt.Printf("added %d x %s [%s] (%s)\n", it.Quantity, it.Name, it.Category, it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list id (defaults to the selected list)")
	cmd.Flags().StringVar(&qty, "qty", "1", "quantity")
	cmd.Flags().StringVar(&cat, "cat", "", "category (defaults to Other)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&imageURL, "image", "", "image url")
	return cmd
}

func newItemEditCmd(a *app) *cobra.Command {
	var name, qty, cat, notes, imageURL string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item (only the flags you pass are patched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			var patch store.ItemPatch
			if c.Flags().Changed("name") {
				patch.Name = &name
			}
			if c.Flags().Changed("qty") {
				patch.Quantity = &qty
			}
			if c.Flags().Changed("cat") {
				patch.Category = &cat
			}
			if c.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			if c.Flags().Changed("image") {
				patch.ImageURL = &imageURL
			}
			it, err := a.items.UpdateItem(c.Context(), args[0], patch)
			if err != nil {
				if msg := a.items.State().Error; msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}
			fmt.Printf("updated %d x %s [%s]\n", it.Quantity, it.Name, it.Category)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&qty, "qty", "", "quantity")
	cmd.Flags().StringVar(&cat, "cat", "", "category")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&imageURL, "image", "", "image url")
	return cmd
}

func newItemRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			if err := a.items.DeleteItem(c.Context(), args[0]); err != nil {
				return fmt.Errorf("%s", a.items.State().Error)
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
