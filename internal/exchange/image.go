package exchange

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const (
	// MaxImageBytes bounds the encoded image handed to Decode.
	MaxImageBytes = 10 << 20
	// MaxImagePixels bounds the decoded image area (40 megapixels).
	MaxImagePixels = 40_000_000
)

// PNG renders the payload text as a size×size QR PNG with medium recovery.
func (e Encoder) PNG(p Payload, size int) ([]byte, error) {
	text, err := e.Text(p)
	if err != nil {
		return nil, err
	}
	return encodeQRText(text, size)
}

func encodeQRText(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}

// Decode locates a QR code in a PNG, JPEG or GIF image and parses its text.
// Oversized inputs are rejected before any pixel data is decoded.
func Decode(imageBytes []byte) (Payload, error) {
	text, err := DecodeText(imageBytes)
	if err != nil {
		return Payload{}, err
	}
	return ParseText(text)
}

// DecodeText returns the raw text of the QR code in the image.
func DecodeText(imageBytes []byte) (string, error) {
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrNoCodeFound)
	}
	if len(imageBytes) > MaxImageBytes {
		return "", fmt.Errorf("%w: image larger than %d bytes", ErrNoCodeFound, MaxImageBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCodeFound, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return "", fmt.Errorf("%w: image is %dx%d", ErrNoCodeFound, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCodeFound, err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCodeFound, err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_TRY_HARDER: true}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCodeFound, err)
	}
	return result.GetText(), nil
}
