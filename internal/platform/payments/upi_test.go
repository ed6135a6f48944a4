package payments

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
)

func TestUPILink(t *testing.T) {
	got := UPILink("books@upi", "Campus Books", 400, "ORD-1-abc123")
	if !strings.HasPrefix(got, "upi://pay?") {
		t.Fatalf("scheme: %s", got)
	}
	if !strings.Contains(got, "pn=Campus%20Books") || strings.Contains(got, "+") {
		t.Fatalf("spaces must encode as %%20: %s", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	want := map[string]string{"pa": "books@upi", "pn": "Campus Books", "am": "400", "cu": "INR", "tn": "ORD-1-abc123"}
	for k, v := range want {
		if q.Get(k) != v {
			t.Fatalf("%s = %q, want %q (%s)", k, q.Get(k), v, got)
		}
	}
	if got := UPILink("a@upi", "S", 199.5, "X"); !strings.Contains(got, "am=199.5&") {
		t.Fatalf("fractional amount: %s", got)
	}
}

func TestUPILinkEscapesReservedCharacters(t *testing.T) {
	cases := []string{"Books & More", "X&am=1", "A+B = C?"}
	for _, name := range cases {
		got := UPILink("shop@upi", name, 200, "ORD-1")
		u, err := url.Parse(got)
		if err != nil {
			t.Fatalf("%q: parse: %v", name, err)
		}
		q := u.Query()
		if q.Get("pn") != name {
			t.Fatalf("%q: pn = %q (%s)", name, q.Get("pn"), got)
		}
		if len(q["am"]) != 1 || q.Get("am") != "200" {
			t.Fatalf("%q: am = %v (%s)", name, q["am"], got)
		}
		if len(q) != 5 {
			t.Fatalf("%q: extra parameters injected: %v", name, q)
		}
	}
}

func TestQRDataURLIsPNG(t *testing.T) {
	u, err := QRDataURL("upi://pay?pa=x@upi")
	if err != nil {
		t.Fatalf("QRDataURL: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(u, prefix) {
		t.Fatalf("missing data url prefix: %.40s", u)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) < 8 || string(raw[1:4]) != "PNG" {
		t.Fatalf("payload is not a PNG")
	}
}
