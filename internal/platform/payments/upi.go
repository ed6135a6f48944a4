package payments

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// UPILink builds a upi://pay deep link for amount rupees, tagged with the
// order code so the payee can reconcile the transfer.
func UPILink(handle, payeeName string, amount float64, orderCode string) string {
	q := []string{
		"pa=" + queryEscape(strings.TrimSpace(handle)),
		"pn=" + queryEscape(strings.TrimSpace(payeeName)),
		"am=" + strconv.FormatFloat(amount, 'f', -1, 64),
		"cu=INR",
		"tn=" + queryEscape(orderCode),
	}
	return "upi://pay?" + strings.Join(q, "&")
}

// queryEscape escapes a query value with %20 for spaces, matching the
// percent-encoding UPI apps expect.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QRDataURL renders content as a PNG QR code inlined in a data URL.
func QRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
