package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/example/markshot/internal/appstate"
	"github.com/example/markshot/internal/capture"
	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/imageio"
)

var (
	workAreaFn = capture.WorkArea
	runUI      = func(st *appstate.AppState) { st.Run() }
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	file     string
	capture  string
	settle   time.Duration
	color    string
	stroke   float64
	fontSize float64
	fill     bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.capture, "capture", cfg.Capture, "how crop and save grab the canvas: render or screen")
	fs.DurationVar(&a.settle, "settle", cfg.SettleDelay, "pause before crop and save grab the canvas")
	fs.StringVar(&a.color, "color", cfg.Color, "initial color name or hex value")
	fs.Float64Var(&a.stroke, "stroke", cfg.Stroke, "initial stroke width")
	fs.Float64Var(&a.fontSize, "font-size", cfg.FontSize, "initial font size in points")
	fs.BoolVar(&a.fill, "fill", cfg.Fill, "fill rectangles, circles and ellipses")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: a}
	}
	a.file = fs.Arg(0)
	switch a.capture {
	case config.CaptureRender, config.CaptureScreen:
	default:
		return nil, fmt.Errorf("unknown capture mode %q", a.capture)
	}
	return a, nil
}

// settings merges the flags into a copy of the loaded config.
func (a *annotateCmd) settings() (*config.Config, error) {
	cfg := *config.New()
	if a.root != nil && a.root.config != nil {
		cfg = *a.root.config
	}
	cfg.Capture = a.capture
	cfg.Color = a.color
	cfg.Stroke = a.stroke
	cfg.FontSize = a.fontSize
	cfg.Fill = a.fill
	if a.settle < 0 {
		return nil, fmt.Errorf("settle must not be negative")
	}
	cfg.SettleDelay = a.settle
	return &cfg, nil
}

func (a *annotateCmd) Run() error {
	cfg, err := a.settings()
	if err != nil {
		return err
	}
	style, err := styleFromConfig(cfg)
	if err != nil {
		return err
	}
	img, doc, err := imageio.Open(a.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.file, err)
	}

	var work image.Rectangle
	if r, err := workAreaFn(); err != nil {
		log.Printf("work area: %v", err)
	} else {
		work = r
	}

	opts := []appstate.Option{
		appstate.WithImage(img),
		appstate.WithDocument(doc),
		appstate.WithStyle(style),
		appstate.WithSettleDelay(cfg.SettleDelay),
		appstate.WithCapture(cfg.Capture),
		appstate.WithWorkArea(work),
	}
	if a.root != nil {
		opts = append(opts, appstate.WithNotifier(a.root.notifier))
		if a.root.activeTheme != nil {
			opts = append(opts, appstate.WithTheme(a.root.activeTheme))
		}
	}
	runUI(appstate.New(opts...))
	return nil
}
