package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mobile/event/key"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/clipboard"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/imageio"
	"github.com/example/markshot/internal/transform"
)

// drawOp is one step replayed through the editor.
type drawOp struct {
	name   string
	tool   annotation.Tool
	points []annotation.Point
	text   string
	flip   transform.Flip
	color  color.RGBA
	value  float64
	on     bool
}

// drawCmd replays annotations onto an image without opening a window.
type drawCmd struct {
	file        string
	output      string
	toClipboard bool
	colorSpec   string
	stroke      float64
	fontSize    float64
	fill        bool
	ops         []drawOp
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

var gestureTools = map[string]annotation.Tool{
	"pen":         annotation.ToolPen,
	"highlighter": annotation.ToolHighlighter,
	"rect":        annotation.ToolRectangle,
	"rectangle":   annotation.ToolRectangle,
	"circle":      annotation.ToolCircle,
	"ellipse":     annotation.ToolEllipse,
	"arrow":       annotation.ToolArrow,
	"crop":        annotation.ToolCrop,
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", cfg.Color, "initial color name or hex value")
	fs.Float64Var(&d.stroke, "stroke", cfg.Stroke, "initial stroke width")
	fs.Float64Var(&d.fontSize, "font-size", cfg.FontSize, "initial font size in points")
	fs.BoolVar(&d.fill, "fill", cfg.Fill, "fill rectangles, circles and ellipses")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positionals := fs.Args()
	if len(positionals) < 2 {
		return nil, &UsageError{of: d}
	}
	d.file = positionals[0]
	ops, err := parseDrawOps(positionals[1:])
	if err != nil {
		return nil, err
	}
	d.ops = ops
	if d.output == "" {
		d.output = d.file
	}
	if d.stroke <= 0 {
		return nil, fmt.Errorf("stroke must be positive")
	}
	if d.fontSize <= 0 {
		return nil, fmt.Errorf("font-size must be positive")
	}
	return d, nil
}

func parsePoint(s string) (annotation.Point, bool) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return annotation.Point{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return annotation.Point{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return annotation.Point{}, false
	}
	return annotation.Pt(x, y), true
}

// parseDrawOps reads the operation list. Strokes take every point that
// follows them; other gestures take exactly two.
func parseDrawOps(args []string) ([]drawOp, error) {
	var ops []drawOp
	for i := 0; i < len(args); {
		name := strings.ToLower(args[i])
		i++
		op := drawOp{name: name}
		need := func(n int) ([]string, error) {
			if i+n > len(args) {
				return nil, fmt.Errorf("%s requires %d argument(s)", name, n)
			}
			out := args[i : i+n]
			i += n
			return out, nil
		}
		points := func(n int) error {
			vals, err := need(n)
			if err != nil {
				return err
			}
			for _, v := range vals {
				p, ok := parsePoint(v)
				if !ok {
					return fmt.Errorf("%s: invalid point %q, want x,y", name, v)
				}
				op.points = append(op.points, p)
			}
			return nil
		}

		switch name {
		case "pen", "highlighter":
			op.tool = gestureTools[name]
			for i < len(args) {
				p, ok := parsePoint(args[i])
				if !ok {
					break
				}
				op.points = append(op.points, p)
				i++
			}
			if len(op.points) < 2 {
				return nil, fmt.Errorf("%s requires at least 2 points", name)
			}
		case "rect", "rectangle", "circle", "ellipse", "arrow", "crop":
			op.tool = gestureTools[name]
			if err := points(2); err != nil {
				return nil, err
			}
			if name == "crop" && (op.points[0].X == op.points[1].X || op.points[0].Y == op.points[1].Y) {
				return nil, fmt.Errorf("crop: %w", editor.ErrCropDegenerate)
			}
		case "text":
			op.tool = annotation.ToolText
			if err := points(1); err != nil {
				return nil, err
			}
			vals, err := need(1)
			if err != nil {
				return nil, fmt.Errorf("text requires x,y and content")
			}
			op.text = vals[0]
			if strings.TrimSpace(op.text) == "" {
				return nil, fmt.Errorf("text content cannot be empty")
			}
		case "flip":
			vals, err := need(1)
			if err != nil {
				return nil, err
			}
			if op.flip, err = transform.ParseFlip(vals[0]); err != nil {
				return nil, err
			}
		case "color", "colour":
			op.name = "color"
			vals, err := need(1)
			if err != nil {
				return nil, err
			}
			if op.color, err = parseColor(vals[0]); err != nil {
				return nil, err
			}
		case "width", "font":
			vals, err := need(1)
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(vals[0], 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("%s must be a positive number, got %q", name, vals[0])
			}
			op.value = v
		case "fill":
			vals, err := need(1)
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(vals[0]) {
			case "on", "true", "1":
				op.on = true
			case "off", "false", "0":
			default:
				return nil, fmt.Errorf("fill expects on or off, got %q", vals[0])
			}
		case "undo", "redo":
		default:
			return nil, fmt.Errorf("unsupported operation %q", name)
		}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return nil, errors.New("no operations given")
	}
	return ops, nil
}

// replay feeds op into ed the way a user would produce it.
func replay(ctx context.Context, ed *editor.Editor, op drawOp) error {
	switch op.name {
	case "flip":
		ed.Flip(op.flip)
	case "color":
		ed.SetColor(op.color)
	case "width":
		ed.SetStrokeWidth(op.value)
	case "font":
		ed.SetFontSize(op.value)
	case "fill":
		ed.SetFilled(op.on)
	case "undo":
		ed.Undo()
	case "redo":
		ed.Redo()
	case "text":
		ed.SetSelection(annotation.ToolText)
		ed.PointerDown(ctx, op.points[0])
		ed.PointerUp(op.points[0])
		if err := ed.Paste(op.text); err != nil {
			return err
		}
		ed.KeyDown(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})
	default:
		ed.SetSelection(op.tool)
		ed.PointerDown(ctx, op.points[0])
		for _, p := range op.points[1 : len(op.points)-1] {
			ed.PointerMove(p)
		}
		ed.PointerUp(op.points[len(op.points)-1])
		if resized := ed.TakeLayout(); op.tool == annotation.ToolCrop && !resized {
			return fmt.Errorf("crop %v %v was not applied", op.points[0], op.points[1])
		}
	}
	return nil
}

func (d *drawCmd) Run() error {
	img, src, err := imageio.Open(d.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.file, err)
	}
	doc := src
	if d.output != d.file {
		if doc, err = imageio.NewFile(d.output); err != nil {
			return err
		}
	}
	style := editor.DefaultStyle()
	if style.Color, err = parseColor(d.colorSpec); err != nil {
		return err
	}
	style.StrokeWidth = d.stroke
	style.FontSize = d.fontSize
	style.Filled = d.fill

	ed, err := editor.New(img,
		editor.WithDocument(doc),
		editor.WithStyle(style),
		editor.WithSettleDelay(0),
	)
	if err != nil {
		return err
	}
	ctx := context.Background()
	for _, op := range d.ops {
		if err := replay(ctx, ed, op); err != nil {
			return fmt.Errorf("draw %s: %w", op.name, err)
		}
	}

	ed.RequestSave()
	if err := ed.CompleteSave(ctx); err != nil {
		return err
	}
	saved := doc.Path()
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)

	var result *image.RGBA
	if d.toClipboard || d.root != nil {
		f := ed.Frame()
		result = image.NewRGBA(image.Rectangle{Max: f.Base.Bounds().Size()})
		compositor.Render(result, f)
	}
	if d.root != nil {
		d.root.notifier.Save(saved, result)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(result); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(saved)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if d.root != nil {
			d.root.notifier.Copy(detail)
		}
	}
	return nil
}
