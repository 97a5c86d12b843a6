package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/razemify/razemify"
	"github.com/razemify/razemify/internal/config"
	"github.com/razemify/razemify/internal/utils"
	"github.com/razemify/razemify/pkg/clahe"
	"github.com/razemify/razemify/pkg/codec"
	"github.com/razemify/razemify/pkg/palette"
	"github.com/razemify/razemify/pkg/params"
	"github.com/razemify/razemify/pkg/rembg"
)

func main() {
	var in, outDir, preset, paletteName string
	var bgHex, midHex, hiHex string
	var maskPath string
	var maskThreshold float64
	var workers int
	var configPath string
	var enhance bool
	var verbose bool

	flag.StringVar(&in, "in", "", "input image file or directory")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&preset, "preset", "", "preset: "+strings.Join(params.PresetNames(), "|"))
	flag.StringVar(&paletteName, "palette", "", "palette: "+strings.Join(palette.Names(), "|")+"|auto")
	flag.StringVar(&bgHex, "bg", "", "custom background color (hex), overrides -palette with -mid and -hi")
	flag.StringVar(&midHex, "mid", "", "custom midtone color (hex)")
	flag.StringVar(&hiHex, "hi", "", "custom highlight color (hex)")
	flag.StringVar(&maskPath, "mask", "", "precomputed foreground mask (grayscale image, single file mode)")
	flag.Float64Var(&maskThreshold, "mask-threshold", 0, "mask alpha cutoff ratio 0.30-0.80 (default from config)")
	flag.IntVar(&workers, "workers", 0, "concurrent workers for directory input (default from config)")
	flag.StringVar(&configPath, "config", "", "config file path (default: "+config.GetConfigPath()+")")
	flag.BoolVar(&enhance, "enhance", false, "write the contrast-enhanced color image instead of posterizing")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if in == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -in input.jpg|dir [-out outdir] [-preset name] [-palette name|auto] [-mask mask.png]\n",
			filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	cfg := loadConfig(log, configPath)
	if preset == "" {
		preset = cfg.Processing.Preset
	}
	if paletteName == "" {
		paletteName = cfg.Processing.Palette
	}
	if outDir == "" {
		outDir = cfg.Output.OutputDir
	}
	if workers <= 0 {
		workers = cfg.Output.Workers
	}
	if maskThreshold == 0 {
		maskThreshold = cfg.Rembg.MaskThresholdRatio
	}

	p, ok := params.FromPreset(preset)
	if !ok {
		log.Fatal().Str("preset", preset).Msg("unknown preset")
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal().Err(err).Str("dir", outDir).Msg("cannot create output directory")
	}

	info, err := os.Stat(in)
	if err != nil {
		log.Fatal().Err(err).Str("in", in).Msg("cannot read input")
	}

	run := runner{
		log:           log,
		params:        p,
		paletteName:   paletteName,
		customHex:     [3]string{bgHex, midHex, hiHex},
		outDir:        outDir,
		suffix:        cfg.Output.Suffix,
		maskThreshold: maskThreshold,
		enhance:       enhance,
	}

	if info.IsDir() {
		if maskPath != "" {
			log.Fatal().Msg("-mask only applies to single file input")
		}
		run.batch(in, workers)
		return
	}

	if err := run.one(in, maskPath); err != nil {
		log.Fatal().Err(err).Str("file", in).Msg("processing failed")
	}
}

func loadConfig(log zerolog.Logger, path string) *config.Config {
	explicit := path != ""
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		if explicit {
			log.Fatal().Err(err).Str("path", path).Msg("cannot load config")
		}
		return config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("invalid config")
	}
	log.Debug().Str("path", path).Msg("loaded config")
	return cfg
}

type runner struct {
	log           zerolog.Logger
	params        params.Params
	paletteName   string
	customHex     [3]string
	outDir        string
	suffix        string
	maskThreshold float64
	enhance       bool
}

// pick resolves the palette for one image. "auto" derives it from the
// image content, so each file in a batch gets its own.
func (r *runner) pick(img *image.NRGBA) (palette.Palette, error) {
	if r.customHex[0] != "" || r.customHex[1] != "" || r.customHex[2] != "" {
		return palette.ParseHex(r.customHex[0], r.customHex[1], r.customHex[2])
	}
	if r.paletteName == "auto" {
		return palette.FromImage(img), nil
	}
	pal, ok := palette.FromName(r.paletteName)
	if !ok {
		return palette.Palette{}, fmt.Errorf("unknown palette %q", r.paletteName)
	}
	return pal, nil
}

func (r *runner) one(path, maskPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	img, hasAlpha, err := codec.Decode(data)
	if err != nil {
		return err
	}

	if maskPath != "" {
		mask, err := loadMask(maskPath)
		if err != nil {
			return fmt.Errorf("loading mask: %w", err)
		}
		if err := rembg.ApplyMask(img, mask, r.maskThreshold); err != nil {
			return err
		}
		hasAlpha = true
	}

	if r.enhance {
		clahe.EnhanceImage(img, r.params.ClipLimit, r.params.TileGrid)
		data, err := codec.EncodePNG(img)
		if err != nil {
			return err
		}
		outPath := utils.OutputFilename(path, r.outDir, r.suffix)
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
		r.log.Info().Str("in", path).Str("out", outPath).Msg("enhanced")
		return nil
	}

	pal, err := r.pick(img)
	if err != nil {
		return err
	}

	out, err := razemify.ProcessImage(context.Background(), img, hasAlpha, r.params, pal, nil)
	if err != nil {
		return err
	}

	png, err := codec.EncodePNG(out)
	if err != nil {
		return err
	}

	outPath := utils.OutputFilename(path, r.outDir, r.suffix)
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		return err
	}

	r.log.Info().Str("in", path).Str("out", outPath).Msg("processed")
	return nil
}

func (r *runner) batch(dir string, workers int) {
	files, err := utils.ListImageFiles(dir)
	if err != nil {
		r.log.Fatal().Err(err).Str("dir", dir).Msg("cannot list directory")
	}
	if len(files) == 0 {
		r.log.Warn().Str("dir", dir).Msg("no image files found")
		return
	}

	r.log.Info().Int("files", len(files)).Int("workers", workers).Msg("batch start")

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := r.one(path, ""); err != nil {
					r.log.Error().Err(err).Str("file", path).Msg("failed")
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	r.log.Info().Int("ok", len(files)-failed).Int("failed", failed).Msg("batch done")
	if failed > 0 {
		os.Exit(1)
	}
}

// loadMask decodes a mask image into a grayscale plane.
func loadMask(path string) (*image.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	gray := codec.Luminance(img)
	for y := 0; y < h; y++ {
		copy(mask.Pix[y*mask.Stride:y*mask.Stride+w], gray[y*w:(y+1)*w])
	}
	return mask, nil
}
