// Package media turns uploaded photos into the fixed set of recipe image
// renditions and stores them on disk under a content hash.
package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultDir         = "/tmp/recipebox/media"
	DefaultMaxUploadMB = 8
	MasterMaxSize      = 1600
	ThumbnailSize      = 480
	JPEGQuality        = 82
	WebPQuality        = 70

	// URLPrefix is where the server mounts Dir.
	URLPrefix = "/media"
)

// Rendition file names inside a hash directory.
const (
	MasterJPEG = "master.jpg"
	MasterWebP = "master.webp"
	ThumbWebP  = "thumb.webp"
)

var recipeRatios = []struct {
	name  string
	ratio float64
}{
	{name: "landscape", ratio: 4.0 / 3.0},
	{name: "square", ratio: 1.0},
	{name: "portrait", ratio: 0.8},
}

type UploadInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// Image describes a stored upload.
type Image struct {
	Hash         string `json:"hash"`
	URL          string `json:"url"`
	WebPURL      string `json:"webpUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Crop         string `json:"crop"`
}

type Store struct {
	dir            string
	maxUploadBytes int64
}

func NewStore(cfg *config.Config) *Store {
	dir := DefaultDir
	maxMB := DefaultMaxUploadMB
	if cfg != nil {
		if cfg.MediaDir != "" {
			dir = cfg.MediaDir
		}
		if cfg.MediaMaxUploadMB > 0 {
			maxMB = cfg.MediaMaxUploadMB
		}
	}
	return &Store{dir: dir, maxUploadBytes: int64(maxMB) * 1024 * 1024}
}

// Dir is the root directory served under URLPrefix.
func (s *Store) Dir() string { return s.dir }

// MaxUploadBytes is the largest accepted upload.
func (s *Store) MaxUploadBytes() int64 { return s.maxUploadBytes }

// Upload validates, crops, scales and writes the renditions. Uploading the
// same picture twice returns the existing files.
func (s *Store) Upload(ctx context.Context, in UploadInput) (img *Image, err error) {
	_, span := observability.StartSpan(ctx, "media", "Upload")
	defer func() {
		observability.EndSpan(span, err)
		outcome := "stored"
		if err != nil {
			outcome = "rejected"
			if models.AsAppError(err).Code == models.CodeInternal {
				outcome = "failed"
			}
		}
		observability.MediaUploadsTotal.WithLabelValues(outcome).Inc()
	}()

	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, formatToMIME(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	b := decoded.Bounds()
	crop, rect := cropRect(b.Dx(), b.Dy())
	master := resizeToFit(cropTo(decoded, rect.Add(b.Min)), MasterMaxSize)

	masterJPEG, err := encodeJPEG(master)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	hash := contentHash(masterJPEG)
	mb := master.Bounds()
	img = &Image{
		Hash:         hash,
		URL:          s.URL(hash, MasterJPEG),
		WebPURL:      s.URL(hash, MasterWebP),
		ThumbnailURL: s.URL(hash, ThumbWebP),
		Width:        mb.Dx(),
		Height:       mb.Dy(),
		Crop:         crop,
	}

	if s.exists(hash) {
		return img, nil
	}

	masterWebP, err := encodeWebP(master)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	thumb, err := encodeWebP(resizeToFit(master, ThumbnailSize))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var written []string
	for _, f := range []struct {
		name string
		data []byte
	}{
		{MasterJPEG, masterJPEG},
		{MasterWebP, masterWebP},
		{ThumbWebP, thumb},
	} {
		path := filepath.Join(s.dir, hash, f.name)
		if err := writeFile(path, f.data); err != nil {
			removeAll(written)
			return nil, models.NewInternalError(err)
		}
		written = append(written, path)
	}

	middleware.Logger.InfoContext(ctx, "image stored",
		"hash", hash, "user_id", in.UserID, "filename", in.Filename, "crop", crop)
	return img, nil
}

// URL returns the public path of one rendition.
func (s *Store) URL(hash, name string) string {
	return fmt.Sprintf("%s/%s/%s", URLPrefix, hash, name)
}

func (s *Store) exists(hash string) bool {
	for _, name := range []string{MasterJPEG, MasterWebP, ThumbWebP} {
		if _, err := os.Stat(filepath.Join(s.dir, hash, name)); err != nil {
			return false
		}
	}
	return true
}

// cropRect picks the recipe ratio closest to w:h and returns the centered
// crop rectangle for it.
func cropRect(w, h int) (string, image.Rectangle) {
	if w <= 0 || h <= 0 {
		return "free", image.Rect(0, 0, w, h)
	}
	ratio := float64(w) / float64(h)
	best := recipeRatios[0]
	for _, r := range recipeRatios[1:] {
		if absFloat(ratio-r.ratio) < absFloat(ratio-best.ratio) {
			best = r
		}
	}

	cw, ch := w, h
	if ratio > best.ratio {
		cw = int(math.Round(float64(h) * best.ratio))
	} else {
		ch = int(math.Round(float64(w) / best.ratio))
	}
	cw, ch = max(cw, 1), max(ch, 1)
	x, y := (w-cw)/2, (h-ch)/2
	return best.name, image.Rect(x, y, x+cw, y+ch)
}

func cropTo(src image.Image, r image.Rectangle) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}
	scale := float64(maxSide) / float64(max(w, h))
	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}

func isMatchingContentType(provided, detected string) bool {
	if provided == "image/jpg" {
		provided = "image/jpeg"
	}
	return provided == detected
}

func formatToMIME(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + strings.ToLower(format)
	default:
		return ""
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// IsValidHash reports whether hash is lowercase hex, so it can be joined to a path.
func IsValidHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
