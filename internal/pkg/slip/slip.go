// Package slip renders printable admission slips.
package slip

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length of the generated PNG in pixels
const DefaultSize = 256

// Payload is the text encoded in an admission slip QR code
func Payload(admissionCode, studentName, institute string) string {
	return strings.Join([]string{
		"ADMISSION:" + admissionCode,
		"NAME:" + studentName,
		"INSTITUTE:" + institute,
	}, "\n")
}

// QRCode returns a PNG QR code of the slip payload
func QRCode(admissionCode, studentName, institute string, size int) ([]byte, error) {
	if admissionCode == "" {
		return nil, fmt.Errorf("admission code is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(Payload(admissionCode, studentName, institute), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode admission slip: %w", err)
	}
	return png, nil
}
