package generator

import qrcode "github.com/skip2/go-qrcode"

// QRCode renders the content as a PNG of the given size in pixels.
func QRCode(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}
