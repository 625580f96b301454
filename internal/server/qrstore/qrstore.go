// Package qrstore turns rendered QR PNGs into something a browser can load:
// an inline data URL, or an object in S3-compatible storage behind a
// presigned GET URL.
package qrstore

import (
	"context"
	"encoding/base64"
)

// Publisher stores a QR image for a company and returns a URL for it.
type Publisher interface {
	Publish(ctx context.Context, companyID int64, png []byte) (string, error)
}

// DataURLPublisher inlines the image. It needs no storage.
type DataURLPublisher struct{}

func (DataURLPublisher) Publish(_ context.Context, _ int64, png []byte) (string, error) {
	return DataURL(png), nil
}

// DataURL encodes png as a data:image/png;base64 URL.
func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
