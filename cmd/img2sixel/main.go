// Command img2sixel loads an image and writes its DECSIXEL encoding to
// stdout: decode -> Quantize -> Emit, the reference integration named in
// spec.md §6. Exit codes: 0 success, 1 load failure, 2 argument error.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taqusixel/sixel"
	"github.com/taqusixel/sixel/internal/colorspace"
)

const (
	logMaxSize   = 10 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	maxColors := flag.Int("max-colors", colorspace.MaxColors, "maximum palette size (<= 256)")
	flip := flag.Bool("flip", false, "flip the source image vertically before quantizing")
	verbose := flag.Bool("v", false, "log image dimensions and bytes written to stderr")
	logFile := flag.String("log-file", "", "rotate logs to this file instead of stderr only")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: img2sixel [flags] <path-to-image>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := int8(logging.Info)
	if *verbose {
		level = logging.Debug
	}
	var out io.Writer = os.Stderr
	if *logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		})
	}
	log := logging.New(level, out, true)

	img, err := loadImage(path)
	if err != nil {
		log.Error("failed to load image", "path", path, "error", err.Error())
		fmt.Fprintln(os.Stderr, "Error: failed to open an image")
		os.Exit(1)
	}

	bounds := img.Bounds()
	log.Debug("loaded image", "path", path, "width", bounds.Dx(), "height", bounds.Dy())

	opts := &sixel.EncoderOptions{MaxColors: *maxColors, FlipVertical: *flip}
	var buf bytes.Buffer
	if err := sixel.Encode(&buf, img, opts); err != nil {
		log.Error("failed to encode image", "path", path, "error", err.Error())
		fmt.Fprintln(os.Stderr, "Error: failed to encode image")
		os.Exit(1)
	}
	log.Debug("encoded image", "bytes", buf.Len())

	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		log.Error("failed to write output", "error", err.Error())
		os.Exit(1)
	}
}

// loadImage decodes path with the standard library's png/jpeg/gif decoders
// plus golang.org/x/image's bmp/tiff decoders, registered via blank import,
// matching the format set stb_image accepted in the original sample without
// a CGo dependency.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode image")
	}
	return img, nil
}
