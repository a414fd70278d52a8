// Package qr decodes QR codes from uploaded image bytes.
package qr

import (
	"bytes"
	"context"
	"image"

	// register the supported upload formats with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi/qrcode"
	"go.uber.org/zap"

	"qrguard/pkg/domain"
	"qrguard/pkg/logger"
	"qrguard/pkg/metrics"
	"qrguard/pkg/serrors"
)

// Decode extracts every QR code from the given image bytes.
//
// An image that decodes but contains no QR code yields a NOT_FOUND kind,
// distinct from a broken image which yields BAD_REQUEST. Payloads keep the
// raw text, the symbology name and the bounding rectangle of each code.
func Decode(ctx context.Context, data []byte) ([]domain.QRPayload, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		metrics.QRDecodesTotal.WithLabelValues("error").Inc()

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode image")
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		metrics.QRDecodesTotal.WithLabelValues("error").Inc()

		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not binarize image")
	}

	reader := qrcode.NewQRCodeMultiReader()
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	results, err := reader.DecodeMultiple(bmp, hints)
	if err != nil || len(results) == 0 {
		if err != nil {
			logger.Debug(ctx, "no QR code decoded", zap.Error(err))
		}
		metrics.QRDecodesTotal.WithLabelValues("not_found").Inc()

		return nil, serrors.With(serrors.ErrNotFound, "no QR code found")
	}

	payloads := make([]domain.QRPayload, 0, len(results))
	for _, res := range results {
		payloads = append(payloads, domain.QRPayload{
			Data: res.GetText(),
			Type: res.GetBarcodeFormat().String(),
			Rect: boundingRect(res.GetResultPoints()),
		})
	}
	metrics.QRDecodesTotal.WithLabelValues("decoded").Inc()

	return payloads, nil
}

// boundingRect computes the axis-aligned bounding rectangle of the finder
// points reported for a decoded code.
func boundingRect(points []gozxing.ResultPoint) domain.Rect {
	if len(points) == 0 {
		return domain.Rect{}
	}

	minX, maxX := points[0].GetX(), points[0].GetX()
	minY, maxY := points[0].GetY(), points[0].GetY()
	for _, p := range points[1:] {
		if p.GetX() < minX {
			minX = p.GetX()
		}
		if p.GetX() > maxX {
			maxX = p.GetX()
		}
		if p.GetY() < minY {
			minY = p.GetY()
		}
		if p.GetY() > maxY {
			maxY = p.GetY()
		}
	}

	return domain.Rect{
		Left:   int(minX),
		Top:    int(minY),
		Width:  int(maxX - minX),
		Height: int(maxY - minY),
	}
}
