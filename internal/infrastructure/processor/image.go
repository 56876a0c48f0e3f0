package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Quality names a compression profile.
type Quality string

const (
	QualityGood Quality = "good" // main image
	QualityLow  Quality = "low"  // thumbnail
)

type ResizeOption struct {
	MaxSide     int   // longest side in px
	Quality     int   // starting JPEG quality, 1-100
	MaxBytes    int64 // encoder steps quality down until the output fits
	MinQuality  int
	QualityStep int
}

var profiles = map[Quality]ResizeOption{
	QualityGood: {MaxSide: 1920, Quality: 85, MaxBytes: 1 << 20, MinQuality: 40, QualityStep: 10},
	QualityLow:  {MaxSide: 300, Quality: 50, MaxBytes: 50 << 10, MinQuality: 20, QualityStep: 10},
}

func Profile(q Quality) (ResizeOption, bool) {
	opt, ok := profiles[q]
	return opt, ok
}

// Compressor turns uploaded images into JPEG variants.
type Compressor interface {
	Compress(src []byte, q Quality) ([]byte, error)
}

type ImageCompressor struct{}

func NewImageCompressor() *ImageCompressor {
	return &ImageCompressor{}
}

func (ImageCompressor) Compress(src []byte, q Quality) ([]byte, error) {
	opt, ok := profiles[q]
	if !ok {
		return nil, fmt.Errorf("unknown quality profile %q", q)
	}
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return ResizeAndEncode(img, opt)
}

// ResizeAndEncode fits img inside opt.MaxSide (never upscaling) and encodes it
// as JPEG, lowering quality until the result is within opt.MaxBytes or
// opt.MinQuality is reached.
func ResizeAndEncode(img image.Image, opt ResizeOption) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > opt.MaxSide || b.Dy() > opt.MaxSide {
		img = imaging.Fit(img, opt.MaxSide, opt.MaxSide, imaging.Lanczos)
	}

	step := opt.QualityStep
	if step <= 0 {
		step = 10
	}
	var buf bytes.Buffer
	for quality := opt.Quality; ; quality -= step {
		if quality < opt.MinQuality {
			quality = opt.MinQuality
		}
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if opt.MaxBytes <= 0 || int64(buf.Len()) <= opt.MaxBytes || quality <= opt.MinQuality {
			break
		}
	}
	return buf.Bytes(), nil
}

// ReadAll reads an upload fully so it can be compressed more than once.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}
	return data, nil
}
