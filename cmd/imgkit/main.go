package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/imgkit/imgkit/internal/codec"
	"github.com/imgkit/imgkit/internal/compose"
	"github.com/imgkit/imgkit/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("imgkit %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var (
		in      = flag.String("in", "", "source image path (required)")
		out     = flag.String("out", "", "destination path (required)")
		format  = flag.String("format", "", "output format: gif, jpg, png, webp (default: from extension)")
		cfgFile = flag.String("config", "", "optional config file (yaml/toml/json)")
		resize  = flag.String("resize", "", "target size WxH")
		cover   = flag.Bool("cover", false, "resize fills the target, cropping overflow")
		stretch = flag.Bool("stretch", false, "resize ignores the aspect ratio")
		crop    = flag.String("crop", "", "crop region x1,y1,x2,y2")
		rotate  = flag.Float64("rotate", 0, "rotation angle in degrees (counter-clockwise)")
		flip    = flag.String("flip", "", "mirror: h or v")
		merge   = flag.String("merge", "", "overlay image path")
		mergeAt = flag.String("merge-pos", "right,bottom", "overlay position: x,y (pixels or left/right/top/bottom/center)")
		opacity = flag.Int("opacity", -1, "opacity percentage 0-100")
		text    = flag.String("text", "", "text to draw")
		textAt  = flag.String("text-pos", "0,0", "text position x,y in pixels")
	)
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	opts, err := loadOptions(*cfgFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	img, err := pipeline.Open(*in, opts)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *in, err)
	}
	if img.Format() == codec.FormatGIF && codec.IsAnimated(*in) {
		log.Printf("Warning: %s is animated; only the first frame is processed", *in)
	}

	// Operations apply in a fixed order: resize, crop, rotate, flip,
	// merge, opacity, text.
	if *resize != "" {
		w, h, err := parseSize(*resize)
		if err != nil {
			log.Fatalf("Invalid -resize: %v", err)
		}
		if err := img.Resize(w, h, *cover, !*stretch); err != nil {
			log.Fatalf("Resize failed: %v", err)
		}
	}
	if *crop != "" {
		c, err := parseInts(*crop, 4)
		if err != nil {
			log.Fatalf("Invalid -crop: %v", err)
		}
		if err := img.Crop(c[0], c[1], c[2], c[3]); err != nil {
			log.Fatalf("Crop failed: %v", err)
		}
	}
	if *rotate != 0 {
		if err := img.Rotate(*rotate, opts.FillColor, false); err != nil {
			log.Fatalf("Rotate failed: %v", err)
		}
	}
	switch *flip {
	case "":
	case "h":
		if err := img.FlipHorizontal(); err != nil {
			log.Fatalf("Flip failed: %v", err)
		}
	case "v":
		if err := img.FlipVertical(); err != nil {
			log.Fatalf("Flip failed: %v", err)
		}
	default:
		log.Fatalf("Invalid -flip %q: want h or v", *flip)
	}
	if *merge != "" {
		x, y, err := parseOffsets(*mergeAt)
		if err != nil {
			log.Fatalf("Invalid -merge-pos: %v", err)
		}
		if err := img.MergeFile(*merge, x, y); err != nil {
			log.Fatalf("Merge failed: %v", err)
		}
	}
	if *opacity >= 0 {
		if err := img.Opacity(*opacity); err != nil {
			log.Fatalf("Opacity failed: %v", err)
		}
	}
	if *text != "" {
		p, err := parseInts(*textAt, 2)
		if err != nil {
			log.Fatalf("Invalid -text-pos: %v", err)
		}
		to := opts.Text
		to.X, to.Y = p[0], p[1]
		if err := img.AddText(*text, to); err != nil {
			log.Fatalf("Text failed: %v", err)
		}
	}

	if err := img.Save(*out, codec.Format(strings.ToLower(*format))); err != nil {
		log.Fatalf("Failed to save %s: %v", *out, err)
	}
}

// loadOptions builds the pipeline configuration from an optional config
// file plus IMGKIT_-prefixed environment variables.
func loadOptions(cfgFile string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	v := viper.New()
	v.SetEnvPrefix("imgkit")
	v.AutomaticEnv()
	v.SetDefault("jpeg_quality", opts.JPEGQuality)
	v.SetDefault("png_compression", opts.PNGCompression)
	v.SetDefault("memory_limit_mb", codec.DefaultMemoryLimit>>20)
	v.SetDefault("fill_color", "")
	v.SetDefault("font_path", "")
	v.SetDefault("font_size", opts.Text.Size)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return opts, fmt.Errorf("failed to read config: %w", err)
		}
	}

	opts.JPEGQuality = v.GetInt("jpeg_quality")
	opts.PNGCompression = v.GetInt("png_compression")
	opts.MemoryLimit = v.GetInt64("memory_limit_mb") << 20
	opts.Text.FontPath = v.GetString("font_path")
	opts.Text.Size = v.GetFloat64("font_size")
	if hex := v.GetString("fill_color"); hex != "" {
		if err := opts.SetFillHex(hex); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", parts[1])
	}
	return w, h, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseOffsets(s string) (compose.Offset, compose.Offset, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return compose.Offset{}, compose.Offset{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := compose.ParseOffset(parts[0])
	if err != nil {
		return compose.Offset{}, compose.Offset{}, err
	}
	y, err := compose.ParseOffset(parts[1])
	if err != nil {
		return compose.Offset{}, compose.Offset{}, err
	}
	return x, y, nil
}
