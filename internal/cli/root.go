package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shop/internal/app"
	"github.com/idilsaglam/shop/internal/config"
	"github.com/idilsaglam/shop/internal/ui"
)

// Options are the root flags, shared by every subcommand.
type Options struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Verbose    bool
}

// usageError marks errors that should exit with code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{fmt.Sprintf(format, a...)} }

// session is the per-invocation state PersistentPreRunE builds.
type session struct {
	opt  Options
	cfg  config.Config
	wire *app.Wire
	logC io.Closer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	s := &session{}
	root := newRoot(s)
	root.SetArgs(args)

	err := root.Execute()
	if s.wire != nil {
		if cerr := s.wire.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}
	if s.logC != nil {
		s.logC.Close()
	}
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

func newRoot(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "shop",
		Short: "shop - a shopping list with suggestions",
		Long: `shop keeps two lists: the shopping list and the suggested items.
Everything you add is remembered as a suggestion; state is saved after
every change and can be exported to / imported from a JSON file.`,
		Example: `  shop add "Oat milk"
  shop ls
  shop transfer bread
  shop move 1 3
  shop export ~/Desktop`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return s.open()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})
	root.SetOut(ui.Stdout())

	root.PersistentFlags().StringVar(&s.opt.ConfigPath, "config", "", "config file (default $SHOP_CONFIG or ~/.config/shop/config.toml)")
	root.PersistentFlags().StringVar(&s.opt.DataDir, "data-dir", "", "where the autosave lives (overrides store.data_dir)")
	root.PersistentFlags().StringVar(&s.opt.Backend, "backend", "", "autosave backend: json or sqlite (overrides store.backend)")
	root.PersistentFlags().BoolVarP(&s.opt.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		addCmd(s), rmCmd(s), lsCmd(s),
		suggestedCmd(s), unsuggestCmd(s), moveCmd(s), transferCmd(s),
		exportCmd(s), importCmd(s), suggestCmd(s),
		configCmd(s),
	)
	return root
}

// open loads config and wires the stores. Restore failures are reported
// and the session carries on with empty lists.
func (s *session) open() error {
	cfg, err := config.Load(s.opt.ConfigPath)
	if err != nil {
		return err
	}
	if s.opt.DataDir != "" {
		cfg.Store.DataDir = s.opt.DataDir
	}
	if s.opt.Backend != "" {
		cfg.Store.Backend = s.opt.Backend
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err.Error()}
	}
	s.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)

	var fallback io.Writer
	if s.opt.Verbose {
		fallback = os.Stderr
	}
	logger, closer, err := app.NewLogger(cfg.Log.File, fallback)
	if err != nil {
		return err
	}
	s.logC = closer

	w, err := app.NewWire(cfg, logger)
	if err != nil {
		return err
	}
	s.wire = w
	if w.RestoreErr != nil {
		ui.Fail("restore: " + w.RestoreErr.Error() + " (starting with empty lists)")
	}
	return nil
}

// saved reports an autosave failure from the last mutation.
func (s *session) saved() error {
	if err := s.wire.Lists.LastSaveError(); err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	return nil
}
