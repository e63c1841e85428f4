package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/opius/internal/render"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse previously generated plans",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent plans, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openHistory()
			if err != nil {
				fatalError(err)
			}
			defer store.Close()

			entries, err := store.List(context.Background(), limit)
			if err != nil {
				fatalError(err)
			}
			fmt.Print(render.New(pretty).History(entries))
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored plan's markdown",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openHistory()
			if err != nil {
				fatalError(err)
			}
			defer store.Close()

			entry, err := store.Get(context.Background(), args[0])
			if err != nil {
				fatalError(err)
			}
			fmt.Print(entry.Markdown)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := openHistory()
			if err != nil {
				fatalError(err)
			}
			defer store.Close()

			if err := store.Delete(context.Background(), args[0]); err != nil {
				fatalError(err)
			}
			render.Stdout().Println("Deleted %s", args[0])
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}
