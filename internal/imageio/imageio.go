// Package imageio converts uploaded photographs to OpenCV matrices and
// annotated results back to JPEG.
package imageio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	// Additional upload formats beyond the imaging defaults.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode marks input that is not a readable image.
var ErrDecode = errors.New("image decode failed")

// jpegQuality of the result images.
const jpegQuality = 90

// Decode reads an image, applies its EXIF orientation and returns it as a
// BGR Mat. The caller must close the Mat.
func Decode(r io.Reader) (gocv.Mat, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ImageToMat(img)
}

// Open decodes the image file at path.
func Open(path string) (gocv.Mat, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ImageToMat(img)
}

// ImageToMat converts an image to a 3-channel BGR Mat. Alpha is dropped
// without compositing.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: empty image", ErrDecode)
	}

	bgr := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			bgr = append(bgr, px[2], px[1], px[0])
		}
	}
	// NewMatFromBytes borrows bgr; the clone owns its pixels.
	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap pixels: %w", err)
	}
	defer view.Close()
	return view.Clone(), nil
}

// EncodeJPEG writes m as a JPEG.
func EncodeJPEG(w io.Writer, m gocv.Mat) error {
	img, err := m.ToImage()
	if err != nil {
		return fmt.Errorf("convert result image: %w", err)
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
}

// Base64JPEG returns m as a base64-encoded JPEG.
func Base64JPEG(m gocv.Mat) (string, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, m); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveJPEG writes m to path as a JPEG.
func SaveJPEG(path string, m gocv.Mat) error {
	img, err := m.ToImage()
	if err != nil {
		return fmt.Errorf("convert result image: %w", err)
	}
	return imaging.Save(img, path, imaging.JPEGQuality(jpegQuality))
}
