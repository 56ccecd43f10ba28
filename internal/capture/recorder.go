// Package capture encodes rendered frames to a video file through ffmpeg.
package capture

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"Poolside/internal/logger"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

var (
	ErrClosed      = errors.New("capture: recorder closed")
	ErrFrameSize   = errors.New("capture: frame has the wrong size")
	ErrEncoderDone = errors.New("capture: encoder exited")
)

type Options struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	FFmpegPath string
	Codec      string // h264 (default) or hevc
}

func (o Options) validate() error {
	if o.Output == "" {
		return errors.New("capture: no output file")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("capture: frame size %dx%d must be positive", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("capture: fps %d must be positive", o.FPS)
	}
	return nil
}

// FrameSize is the byte length of one RGBA frame.
func (o Options) FrameSize() int {
	return o.Width * o.Height * 4
}

func (o Options) inputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       strconv.Itoa(o.FPS),
	}
}

// outputArgs flips vertically since glReadPixels returns rows bottom-up.
func (o Options) outputArgs() ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"vf":      "vflip",
		"c:v":     "libx264",
	}
	if o.Codec == "hevc" {
		args["c:v"] = "libx265"
		if strings.HasSuffix(o.Output, ".mp4") {
			args["tag:v"] = "hvc1"
		}
	}
	return args
}

// encoder runs until its input reaches EOF.
type encoder interface {
	Run() error
}

type launcher func(opts Options, input io.Reader) encoder

func ffmpegLauncher(opts Options, input io.Reader) encoder {
	cmd := ffmpeg.Input("pipe:", opts.inputArgs()).
		Output(opts.Output, opts.outputArgs()).
		OverWriteOutput().WithInput(input).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}
	return ffmpegEncoder{cmd}
}

type ffmpegEncoder struct {
	stream *ffmpeg.Stream
}

func (e ffmpegEncoder) Run() error {
	return e.stream.Run()
}

// Recorder streams raw RGBA frames into an ffmpeg process. WriteFrame and
// Close must be called from one goroutine.
type Recorder struct {
	opts   Options
	pw     *io.PipeWriter
	errc   chan error
	frames int

	closeOnce sync.Once
	closeErr  error
}

func Start(opts Options) (*Recorder, error) {
	return start(opts, ffmpegLauncher)
}

func start(opts Options, launch launcher) (*Recorder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	enc := launch(opts, pr)

	r := &Recorder{opts: opts, pw: pw, errc: make(chan error, 1)}
	go func() {
		err := enc.Run()
		// Unblock a writer stuck on a dead encoder.
		if err != nil {
			pr.CloseWithError(fmt.Errorf("%w: %v", ErrEncoderDone, err))
		} else {
			pr.CloseWithError(ErrEncoderDone)
		}
		r.errc <- err
	}()

	logger.Log.Info("Recording started",
		zap.String("output", opts.Output),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("fps", opts.FPS))
	return r, nil
}

// WriteFrame sends one frame. The slice must hold exactly Width*Height*4
// bytes. An error means the encoder is gone and recording cannot continue.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.pw == nil {
		return ErrClosed
	}
	if len(pixels) != r.opts.FrameSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(pixels), r.opts.FrameSize())
	}
	if _, err := r.pw.Write(pixels); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *Recorder) Frames() int { return r.frames }

func (r *Recorder) Options() Options { return r.opts }

// Close ends the input stream and waits for the encoder to finish.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.pw.Close()
		r.pw = nil
		r.closeErr = <-r.errc
		if r.closeErr != nil {
			logger.Log.Error("Encoder failed", zap.Error(r.closeErr))
			return
		}
		logger.Log.Info("Recording finished", zap.String("output", r.opts.Output), zap.Int("frames", r.frames))
	})
	return r.closeErr
}
