// Command poolside runs one of the pool water demos, optionally recording
// it to a video file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"Poolside/internal/capture"
	"Poolside/internal/config"
	"Poolside/internal/engine"
	"Poolside/internal/logger"
	"Poolside/internal/scene"

	"go.uber.org/zap"
)

type options struct {
	variant  string
	config   string
	watch    bool
	width    int
	height   int
	record   string
	duration float64
	fps      int
	ffmpeg   string
	codec    string
	debug    bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("poolside", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.variant, "variant", "", "water variant: "+strings.Join(scene.Names(), "|"))
	fs.StringVar(&o.config, "config", "", "TOML preset file")
	fs.BoolVar(&o.watch, "watch", false, "reload the preset file when it changes")
	fs.IntVar(&o.width, "width", 0, "window width (overrides the preset)")
	fs.IntVar(&o.height, "height", 0, "window height (overrides the preset)")
	fs.StringVar(&o.record, "record", "", "render offscreen and encode to this video file")
	fs.Float64Var(&o.duration, "duration", 10, "recording length in seconds")
	fs.IntVar(&o.fps, "fps", 60, "recording frame rate")
	fs.StringVar(&o.ffmpeg, "ffmpeg", "", "ffmpeg binary (default from PATH)")
	fs.StringVar(&o.codec, "codec", "h264", "recording codec: h264|hevc")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.watch && o.config == "" {
		return options{}, errors.New("-watch needs -config")
	}
	if o.record != "" && o.watch {
		return options{}, errors.New("-watch cannot be combined with -record")
	}
	return o, nil
}

// preset loads the preset file, or the default one, and applies the flag
// overrides.
func (o options) preset() (config.Preset, error) {
	p := config.Default()
	if o.config != "" {
		var err error
		if p, err = config.Load(o.config); err != nil {
			return config.Preset{}, err
		}
	}
	if o.variant != "" {
		p.Variant = o.variant
	}
	if o.width > 0 {
		p.Window.Width = o.width
	}
	if o.height > 0 {
		p.Window.Height = o.height
	}
	return p, p.Validate()
}

func (o options) engineOptions(p config.Preset) engine.Options {
	opts := scene.EngineOptions(p)
	if o.record != "" {
		opts.Record = capture.Options{
			Output:     o.record,
			FPS:        o.fps,
			FFmpegPath: o.ffmpeg,
			Codec:      o.codec,
		}
		opts.Duration = time.Duration(o.duration * float64(time.Second))
	}
	return opts
}

func run(o options) error {
	p, err := o.preset()
	if err != nil {
		return err
	}
	app, err := scene.New(p.Variant, p)
	if err != nil {
		return err
	}

	opts := o.engineOptions(p)
	if o.watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		presets, err := config.Watch(ctx, o.config)
		if err != nil {
			return fmt.Errorf("watch %s: %w", o.config, err)
		}
		opts.Presets = presets
	}

	logger.Log.Info("Starting",
		zap.String("variant", p.Variant),
		zap.Int("width", p.Window.Width),
		zap.Int("height", p.Window.Height),
		zap.String("record", o.record))
	return engine.Run(app, opts)
}

func main() {
	logger.Init()
	defer logger.Sync()

	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Log.Error("Invalid arguments", zap.Error(err))
		os.Exit(2)
	}
	logger.SetDebug(o.debug)

	if err := run(o); err != nil {
		logger.Log.Error("Poolside stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
