package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todo/pkg/query"
	"github.com/mesh-intelligence/todo/pkg/types"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a category",
		Long: `Items are the entries of a to-do list. Items are listed in the order they
were added; a search filters titles ignoring case and accents and sorts the
matches by title.

Example:
  todo item add Groceries "Buy milk"
  todo item list Groceries
  todo item list Groceries --search milk
  todo item toggle <item-id>`,
	}

	var search string
	list := &cobra.Command{
		Use:   "list <category>",
		Short: "List the items of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cat, err := resolveCategory(store, args[0])
				if err != nil {
					return err
				}
				items, err := store.ListItems(cat, query.Search(search))
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					if items == nil {
						items = []*types.Item{}
					}
					return printJSON(cmd.OutOrStdout(), items)
				}
				printItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only show items whose title contains text")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "add <category> <title>",
		Short: "Add an item to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				cat, err := resolveCategory(store, args[0])
				if err != nil {
					return err
				}
				item, err := store.CreateItem(cat, args[1])
				if err != nil {
					return err
				}
				return a.printItemResult(cmd, item, "Created item: %s\n", item.ItemID)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Flip the done flag of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				item, err := store.GetItem(args[0])
				if err != nil {
					return err
				}
				if _, err := store.ToggleItemDone(item); err != nil {
					return err
				}
				return a.printItemResult(cmd, item, "%s %s\n", doneMark(item.Done), item.Title)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <item-id> <title>",
		Short: "Change the title of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				item, err := store.GetItem(args[0])
				if err != nil {
					return err
				}
				item, err = store.RenameItem(item, args[1])
				if err != nil {
					return err
				}
				return a.printItemResult(cmd, item, "Renamed item %s to %q\n", item.ItemID, item.Title)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				item, err := store.GetItem(args[0])
				if err != nil {
					return err
				}
				if err := store.DeleteItem(item); err != nil {
					return err
				}
				return a.printItemResult(cmd, item, "Deleted item: %s\n", item.ItemID)
			})
		},
	})

	return cmd
}

// printItemResult prints item as JSON in --json mode and the formatted
// message otherwise.
func (a *app) printItemResult(cmd *cobra.Command, item *types.Item, format string, args ...any) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), item)
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	return nil
}
