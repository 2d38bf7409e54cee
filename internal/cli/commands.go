package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/shop/internal/config"
	"github.com/idilsaglam/shop/internal/model"
	"github.com/idilsaglam/shop/internal/shoplist"
	"github.com/idilsaglam/shop/internal/ui"
)

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: shop %s", usage)
		}
		return nil
	}
}

func rangeArgs(lo, hi int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usagef("usage: shop %s", usage)
		}
		return nil
	}
}

// position parses a 1-based index as typed by the user.
func position(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("%s: not a number: %s", what, s)
	}
	return n - 1, nil
}

func addCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add an item to the shopping list (words are joined)",
		Args:  minArgs(1, "add <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return usagef("add: empty name")
			}
			lists := s.wire.Lists
			hints := lists.Closest(name, 3)
			if !lists.AddItem(name) {
				fmt.Fprintln(ui.Stdout(), ui.Dim(fmt.Sprintf("%q is already on the list", name)))
				return nil
			}
			if err := s.saved(); err != nil {
				return err
			}
			ui.OK("added " + name)
			if len(hints) > 0 {
				ui.Hint("similar suggestions: " + strings.Join(hints, ", "))
			}
			return nil
		},
	}
}

func rmCmd(s *session) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "rm <name...>",
		Short: "Remove an item from the shopping list (suggestions are kept)",
		Args: func(cmd *cobra.Command, args []string) error {
			if index == 0 && len(args) == 0 {
				return usagef("usage: shop rm <name...> | shop rm -i <index>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := s.wire.Lists
			name := strings.TrimSpace(strings.Join(args, " "))
			if index != 0 {
				if n := lists.Len(model.Shopping); index < 1 || index > n {
					ui.Hint("Hint: run `shop ls --plain` to see valid indexes")
					return usagef("index out of range: have %d, got %d", n, index)
				}
				name = lists.Items()[index-1]
			}
			if !lists.RemoveItem(name) {
				fmt.Fprintln(ui.Stdout(), ui.Dim(fmt.Sprintf("%q is not on the list", name)))
				return nil
			}
			if err := s.saved(); err != nil {
				return err
			}
			ui.OK("removed " + name)
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "remove by 1-based position instead of name")
	return cmd
}

func lsCmd(s *session) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show both lists (interactive when attached to a terminal)",
		Args:  rangeArgs(0, 0, "ls [--plain]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain || !term.IsTerminal(int(stdoutFd())) {
				ui.Panel(listLines(s.wire.Lists.Snapshot()))
				return nil
			}
			return runTUI(s)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print instead of opening the interactive view")
	return cmd
}

func suggestedCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "suggested",
		Short: "Print the suggested items with their positions",
		Args:  rangeArgs(0, 0, "suggested"),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ln := range numbered(s.wire.Lists.Suggested(), ui.Current().Suggestion, nil) {
				fmt.Fprintln(ui.Stdout(), ln)
			}
			return nil
		},
	}
}

func unsuggestCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "unsuggest <index>",
		Short: "Delete the suggestion at a 1-based position",
		Args:  rangeArgs(1, 1, "unsuggest <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := position("unsuggest", args[0])
			if err != nil {
				return err
			}
			lists := s.wire.Lists
			v := ""
			if sug := lists.Suggested(); i >= 0 && i < len(sug) {
				v = sug[i]
			}
			if err := lists.DeleteSuggested(i); err != nil {
				ui.Hint("Hint: run `shop suggested` to see valid indexes")
				return usageError{err.Error()}
			}
			if err := s.saved(); err != nil {
				return err
			}
			ui.OK("deleted suggestion " + v)
			return nil
		},
	}
}

func moveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "move <to> <from...>",
		Short: "Move items (1-based positions) so they start at position <to>",
		Long: `Move the items at <from...> so that they sit just before the item now at
position <to>; use one past the last position to move to the end.
Moved items keep their relative order.`,
		Args: minArgs(2, "move <to> <from...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := position("move", args[0])
			if err != nil {
				return err
			}
			from := make([]int, 0, len(args)-1)
			for _, a := range args[1:] {
				i, err := position("move", a)
				if err != nil {
					return err
				}
				from = append(from, i)
			}
			if err := s.wire.Lists.Move(from, to); err != nil {
				ui.Hint("Hint: run `shop ls --plain` to see valid indexes")
				return usageError{err.Error()}
			}
			if err := s.saved(); err != nil {
				return err
			}
			ui.OK("moved")
			return nil
		},
	}
}

func transferCmd(s *session) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "transfer <name...>",
		Short: "Drop an item onto a list, as dragging it there would",
		Args:  minArgs(1, "transfer <name...> [--to shopping|suggested]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := model.ParseListKind(to)
			if err != nil {
				return usageError{err.Error()}
			}
			name := strings.Join(args, " ")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			q := shoplist.NewQueue(s.wire.Lists, s.wire.Log)
			go q.Run(ctx)

			task := shoplist.Drop(ctx, q, shoplist.TextPayload(name), target)
			if err := task.Wait(); err != nil {
				return err
			}
			if !task.Changed() {
				fmt.Fprintln(ui.Stdout(), ui.Dim("nothing to do"))
				return nil
			}
			if err := s.saved(); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("%s → %s (%s)", strings.TrimSpace(name), target, s.wire.Lists.TransferMode()))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "shopping", "destination list: shopping or suggested")
	return cmd
}

func exportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Save both lists to a JSON file (default ./ShoppingList.json)",
		Args:  rangeArgs(0, 1, "export [path]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := ""
			if len(args) == 1 {
				dest = args[0]
			}
			path, err := s.wire.Export(dest)
			if err != nil {
				return err
			}
			ui.OK("saved to " + path)
			return nil
		},
	}
}

func importCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace both lists with the contents of a JSON file",
		Args:  rangeArgs(1, 1, "import <path>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.wire.Import(args[0]); err != nil {
				return err
			}
			if err := s.saved(); err != nil {
				return err
			}
			st := s.wire.Lists.Snapshot()
			ui.OK(fmt.Sprintf("opened %s (%d items, %d suggestions)", args[0], len(st.Items), len(st.SuggestedItems)))
			return nil
		},
	}
}

func suggestCmd(s *session) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <text...>",
		Short: "Show suggestions that look like <text>",
		Args:  minArgs(1, "suggest <text...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits := s.wire.Lists.Closest(strings.Join(args, " "), limit)
			if len(hits) == 0 {
				fmt.Fprintln(ui.Stdout(), ui.Dim("no similar suggestions"))
				return nil
			}
			for _, h := range hits {
				fmt.Fprintln(ui.Stdout(), h)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of suggestions")
	return cmd
}

func configCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  rangeArgs(0, 0, "config"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := s.cfg
			for _, kv := range [][2]string{
				{"store.backend", c.Store.Backend},
				{"store.data_dir", c.Store.DataDir},
				{"transfer.mode", c.Transfer.Mode},
				{"ui.theme", c.UI.Theme},
				{"ui.color", c.UI.Color},
				{"log.file", c.Log.File},
			} {
				fmt.Fprintf(ui.Stdout(), "%-15s %s\n", kv[0], kv[1])
			}
			return nil
		},
	}
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the effective configuration to a TOML file",
		Args:  rangeArgs(1, 1, "config init <path>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], s.cfg); err != nil {
				return err
			}
			ui.OK("wrote " + args[0])
			return nil
		},
	}
	cmd.AddCommand(initCmd)
	return cmd
}
