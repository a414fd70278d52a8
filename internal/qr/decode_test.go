package qr_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"

	"qrguard/internal/qr"
	"qrguard/pkg/logger"
	"qrguard/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	os.Exit(m.Run())
}

// encodeQRPNG renders the given text as a QR code PNG.
func encodeQRPNG(t *testing.T, text string) []byte {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))

	return buf.Bytes()
}

func TestDecode_RoundTrip(t *testing.T) {
	data := encodeQRPNG(t, "https://example.com/landing")

	payloads, err := qr.Decode(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, "https://example.com/landing", payloads[0].Data)
	require.Equal(t, "QR_CODE", payloads[0].Type)
	require.Positive(t, payloads[0].Rect.Width)
	require.Positive(t, payloads[0].Rect.Height)
}

func TestDecode_UPIPayload(t *testing.T) {
	data := encodeQRPNG(t, "upi://pay?pa=alice@bank&am=10")

	payloads, err := qr.Decode(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, "upi://pay?pa=alice@bank&am=10", payloads[0].Data)
}

func TestDecode_NoCode(t *testing.T) {
	// a plain white image decodes fine but carries no QR code
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, err := qr.Decode(context.Background(), buf.Bytes())
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestDecode_BrokenImage(t *testing.T) {
	_, err := qr.Decode(context.Background(), []byte("definitely not an image"))
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.NotErrorIs(t, err, serrors.ErrNotFound, "a broken image is not the same as no code found")
}
