// Command dfield computes the distance field of a heightmap image.
//
//	dfield [flags] INPUT
//
// The result is written next to INPUT as <name>_output.<ext>. Settings not
// given as flags are read from dfield.yaml and, on a terminal, prompted for.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/soypat/dfield"
	"github.com/soypat/dfield/internal/config"
	"github.com/soypat/dfield/internal/logger"
	"github.com/soypat/dfield/render"
	"github.com/soypat/glgl/math/ms3"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli, err := config.ParseArgs(args, stderr, config.StdinIsTerminal())
	if errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 1
	}
	cfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cli.ApplyLogging(cfg)
	cfg.Logging.Output = stderr
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()
	log := logger.Log

	cli.Apply(cfg, log)
	if cli.Interactive {
		cli.Prompt(cfg, config.NewPrompter(stdin, stdout, log))
	}
	cfg.Sanitize(log)
	if cli.PrintConfig {
		if err := cfg.WriteYAML(stdout); err != nil {
			log.Error("printing config", zap.Error(err))
			return 1
		}
	}
	if err := process(cli.Input, cfg, log); err != nil {
		log.Error("failed", zap.Error(err))
		return 1
	}
	return 0
}

func process(input string, cfg *config.Config, log *zap.Logger) error {
	img, format, err := decodeImage(input)
	if err != nil {
		return err
	}
	b := img.Bounds()
	log.Info("input decoded", zap.String("file", input), zap.String("format", format),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	log.Info("settings",
		zap.Int("radius", cfg.Settings.Radius),
		zap.Stringer("boundary", cfg.Settings.Boundary),
		zap.Stringer("height", cfg.Settings.Height),
		zap.Float32("mult", cfg.Settings.HeightMult),
		zap.Stringer("search", cfg.Search),
	)

	start := time.Now()
	m, err := dfield.BuildMesh(dfield.HeightmapFromImage(img), cfg.Settings)
	if err != nil {
		return fmt.Errorf("building mesh: %w", err)
	}
	log.Info("mesh generated", zap.Duration("elapsed", time.Since(start)),
		zap.Int("vertices", len(m.Vertices())),
		zap.Int("usableRadius", m.UsableRadius),
		zap.Int("skirt", m.Skirt),
	)
	log.Debug("extrema",
		zap.Uint8("min", m.Extrema.Min), zap.Uint8("max", m.Extrema.Max),
		zap.Uint8("frameMin", m.Frame.Min), zap.Uint8("frameMax", m.Frame.Max),
	)

	start = time.Now()
	comp := dfield.Computer{Workers: cfg.Workers, Method: cfg.Search, Log: log}
	dists := comp.Compute(m, cfg.Settings, m.Extrema)
	log.Info("distances computed", zap.Duration("elapsed", time.Since(start)))

	if err := exportMesh(input, m, cfg.Export, log); err != nil {
		return err
	}

	out, err := dfield.EncodeImage(m.Width, m.Height, dists)
	if err != nil {
		return err
	}
	outPath := outputPath(input, "output")
	if err := saveImage(outPath, out); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}
	log.Info("image saved", zap.String("file", outPath))

	if cfg.Preview > 0 {
		n := uint(cfg.Preview)
		thumb := resize.Thumbnail(n, n, out, resize.Lanczos3)
		previewPath := stem(input) + "_preview.png"
		if err := saveImage(previewPath, thumb); err != nil {
			return fmt.Errorf("saving preview: %w", err)
		}
		log.Info("preview saved", zap.String("file", previewPath))
	}
	return nil
}

func exportMesh(input string, m *dfield.Mesh, cfg config.ExportConfig, log *zap.Logger) error {
	if cfg.OBJ || cfg.STL {
		size := ms3.Scale(cfg.Scale, m.Bounds().Size())
		log.Debug("exported mesh size", zap.Float32("x", size.X), zap.Float32("y", size.Y), zap.Float32("z", size.Z))
	}
	if cfg.OBJ {
		start := time.Now()
		path := stem(input) + "_output.obj"
		if err := render.CreateOBJ(path, m, cfg.Scale); err != nil {
			return fmt.Errorf("exporting OBJ: %w", err)
		}
		log.Info("mesh exported", zap.String("file", path), zap.Duration("elapsed", time.Since(start)))
	}
	if cfg.STL {
		start := time.Now()
		path := stem(input) + "_output.stl"
		if err := render.CreateSTL(path, render.NewMeshRenderer(m, cfg.Scale)); err != nil {
			return fmt.Errorf("exporting STL: %w", err)
		}
		log.Info("mesh exported", zap.String("file", path), zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

func decodeImage(path string) (image.Image, string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening input: %w", err)
	}
	defer fp.Close()
	img, format, err := image.Decode(fp)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// outputPath returns <stem>_<suffix><ext> next to input. Extensions
// without an encoder are replaced by .png.
func outputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	if _, ok := encoders[strings.ToLower(ext)]; !ok {
		ext = ".png"
	}
	return stem(input) + "_" + suffix + ext
}

type encodeFunc func(w io.Writer, img image.Image) error

var encoders = map[string]encodeFunc{
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".gif":  encodeGIF,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// encodeGIF writes grayscale images with an exact 256 level palette.
func encodeGIF(w io.Writer, img image.Image) error {
	if g, ok := img.(*image.Gray); ok {
		pal := make(color.Palette, 256)
		for i := range pal {
			pal[i] = color.Gray{Y: uint8(i)}
		}
		p := image.NewPaletted(g.Bounds(), pal)
		for y := 0; y < g.Rect.Dy(); y++ {
			copy(p.Pix[y*p.Stride:], g.Pix[y*g.Stride:y*g.Stride+g.Rect.Dx()])
		}
		img = p
	}
	return gif.Encode(w, img, nil)
}

func saveImage(path string, img image.Image) error {
	enc, ok := encoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		enc = png.Encode
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = enc(fp, img)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	return err
}
