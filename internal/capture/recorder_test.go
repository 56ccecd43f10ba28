package capture

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkEncoder struct {
	input io.Reader
	got   *bytes.Buffer
	err   error
	limit int // stop reading after this many bytes when > 0
}

func (s *sinkEncoder) Run() error {
	if s.limit > 0 {
		_, _ = io.CopyN(s.got, s.input, int64(s.limit))
		return s.err
	}
	_, _ = io.Copy(s.got, s.input)
	return s.err
}

func testLauncher(enc *sinkEncoder) launcher {
	return func(_ Options, input io.Reader) encoder {
		enc.input = input
		return enc
	}
}

func smallOptions() Options {
	return Options{Output: "out.mp4", Width: 2, Height: 2, FPS: 30}
}

func TestRecorderStreamsFrames(t *testing.T) {
	enc := &sinkEncoder{got: &bytes.Buffer{}}
	rec, err := start(smallOptions(), testLauncher(enc))
	require.NoError(t, err)

	frame := bytes.Repeat([]byte{1, 2, 3, 4}, 4)
	require.NoError(t, rec.WriteFrame(frame))
	require.NoError(t, rec.WriteFrame(frame))
	require.NoError(t, rec.Close())

	assert.Equal(t, 2, rec.Frames())
	assert.Equal(t, 32, enc.got.Len())
	assert.ErrorIs(t, rec.WriteFrame(frame), ErrClosed)
	assert.NoError(t, rec.Close(), "second close is a no-op")
}

func TestRecorderRejectsWrongFrameSize(t *testing.T) {
	enc := &sinkEncoder{got: &bytes.Buffer{}}
	rec, err := start(smallOptions(), testLauncher(enc))
	require.NoError(t, err)
	defer rec.Close()

	assert.ErrorIs(t, rec.WriteFrame(make([]byte, 3)), ErrFrameSize)
	assert.Equal(t, 0, rec.Frames())
}

func TestRecorderEncoderFailureStopsWrites(t *testing.T) {
	boom := errors.New("boom")
	enc := &sinkEncoder{got: &bytes.Buffer{}, err: boom, limit: 16}
	rec, err := start(smallOptions(), testLauncher(enc))
	require.NoError(t, err)

	frame := make([]byte, 16)
	require.NoError(t, rec.WriteFrame(frame))

	// The encoder has stopped reading; the next write must fail instead of
	// blocking.
	err = rec.WriteFrame(frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoderDone)

	assert.ErrorIs(t, rec.Close(), boom)
}

func TestOptionsValidate(t *testing.T) {
	_, err := start(Options{Width: 2, Height: 2, FPS: 30}, nil)
	assert.Error(t, err)
	_, err = start(Options{Output: "x.mp4", Width: 0, Height: 2, FPS: 30}, nil)
	assert.Error(t, err)
	_, err = start(Options{Output: "x.mp4", Width: 2, Height: 2}, nil)
	assert.Error(t, err)
}

func TestFFmpegArgs(t *testing.T) {
	opts := Options{Output: "clip.mp4", Width: 640, Height: 360, FPS: 60}
	in := opts.inputArgs()
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "640x360", in["s"])
	assert.Equal(t, "60", in["r"])

	out := opts.outputArgs()
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])

	opts.Codec = "hevc"
	out = opts.outputArgs()
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])
	assert.Equal(t, 640*360*4, opts.FrameSize())
}
