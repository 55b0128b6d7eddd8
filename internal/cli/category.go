package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todo/pkg/types"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
		Long: `Categories group to-do items. A category is referenced by its ID or,
when the name is unique, by its name.

Example:
  todo category add Groceries
  todo category list
  todo category rename Groceries Shopping
  todo category delete Shopping`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cats, err := store.ListCategories()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					if cats == nil {
						cats = []*types.Category{}
					}
					return printJSON(cmd.OutOrStdout(), cats)
				}
				printCategories(cmd.OutOrStdout(), cats)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cat, err := store.CreateCategory(args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), cat)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category: %s\n", cat.CategoryID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <category> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cat, err := resolveCategory(store, args[0])
				if err != nil {
					return err
				}
				cat, err = store.RenameCategory(cat, args[1])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), cat)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed category %s to %q\n", cat.CategoryID, cat.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category and all of its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cat, err := resolveCategory(store, args[0])
				if err != nil {
					return err
				}
				if err := store.DeleteCategory(cat); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), cat)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category: %s\n", cat.CategoryID)
				return nil
			})
		},
	})

	return cmd
}
