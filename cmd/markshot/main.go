package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/imageio"
	"github.com/example/markshot/internal/notify"
	"github.com/example/markshot/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// Exit codes for files that cannot be annotated.
const (
	exitFileNotFound      = 255
	exitUnsupportedFormat = 254
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	saveAlerts   bool
	copyAlerts   bool
	deleteAlerts bool
	themeName    string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("markshot", flag.ContinueOnError),
		program:  "markshot",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.deleteAlerts, "notify-delete", cfg.Notify.Delete, "show a desktop notification after deleting an image")

	// Precedence: CLI > Env > Config > Default. The loader has already
	// applied MARKSHOT_THEME to the config.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, solarized or a file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadTheme resolves the theme named on the command line or in the config.
func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// command picks the subcommand for the arguments left after the root flags.
// Anything that is not a known command is taken as a file to annotate.
func (r *root) command(args []string) (runnable, error) {
	if len(args) < 1 {
		return nil, &UsageError{of: r}
	}
	name, rest := args[0], args[1:]
	switch name {
	case "annotate":
		return parseAnnotateCmd(rest, r)
	case "draw":
		return parseDrawCmd(rest, r)
	case "config":
		return parseConfigCmd(rest, r)
	case "version":
		return &versionCmd{r: r}, nil
	case "help":
		return nil, &UsageError{of: r}
	}
	if strings.HasPrefix(name, "-") {
		return nil, &UsageError{of: r}
	}
	return parseAnnotateCmd(args, r)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventDelete, r.deleteAlerts)
	}
	r.activeTheme = r.loadTheme()

	cmd, err := r.command(r.fs.Args())
	if err != nil {
		return err
	}
	return cmd.Run()
}

// exitCode maps an error from Run onto the process exit status.
func exitCode(err error) int {
	var uerr *UsageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errors.As(err, &uerr):
		return 2
	case errors.Is(err, imageio.ErrFileNotFound):
		return exitFileNotFound
	case errors.Is(err, imageio.ErrUnsupportedFormat):
		return exitUnsupportedFormat
	}
	return 1
}

func main() {
	r := newRoot()
	err := r.Run(os.Args[1:])
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
