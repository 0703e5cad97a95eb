//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name       string
		opts       CaptureOptions
		wantCursor string
	}{
		{name: "defaults", opts: CaptureOptions{}, wantCursor: "hidden"},
		{name: "cursor", opts: CaptureOptions{IncludeCursor: true}, wantCursor: "embedded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.opts)
			if got := values["interactive"].Value(); got != false {
				t.Fatalf("interactive = %v, want false", got)
			}
			if got := values["cursor_mode"].Value(); got != tc.wantCursor {
				t.Fatalf("cursor_mode = %v, want %q", got, tc.wantCursor)
			}
			if got := values["handle_token"].Value(); got != "test-token" {
				t.Fatalf("handle_token = %v, want %q", got, "test-token")
			}
			if len(values) != 3 {
				t.Fatalf("expected 3 options, got %d", len(values))
			}
		})
	}
}

func TestPortalHandleTokenIsObjectPathSafe(t *testing.T) {
	tok := newPortalHandleToken()
	if !strings.HasPrefix(tok, "markshot_") {
		t.Fatalf("token %q missing prefix", tok)
	}
	for _, r := range tok {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Fatalf("token %q contains %q", tok, r)
		}
	}
	if newPortalHandleToken() == tok {
		t.Fatalf("tokens should differ")
	}
}

func TestPortalResponsePath(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}
	path, err := portalResponsePath([]interface{}{uint32(0), ok})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/Screenshot one.png" {
		t.Fatalf("path = %q", path)
	}

	if _, err := portalResponsePath([]interface{}{uint32(1), ok}); err == nil {
		t.Fatalf("expected cancelled request to fail")
	}
	if _, err := portalResponsePath([]interface{}{uint32(0), map[string]dbus.Variant{}}); err == nil {
		t.Fatalf("expected missing uri to fail")
	}
	if _, err := portalResponsePath(nil); err == nil {
		t.Fatalf("expected malformed body to fail")
	}
}

func TestWorkAreaFromProperty(t *testing.T) {
	value := []byte{
		0, 0, 0, 0,
		28, 0, 0, 0,
		0x80, 0x07, 0, 0,
		0x1e, 0x04, 0, 0,
	}
	r, ok := workAreaFromProperty(32, value)
	if !ok {
		t.Fatalf("expected work area")
	}
	if r.Min.X != 0 || r.Min.Y != 28 || r.Dx() != 1920 || r.Dy() != 1054 {
		t.Fatalf("unexpected work area %v", r)
	}
	if _, ok := workAreaFromProperty(8, value); ok {
		t.Fatalf("expected format 8 to be rejected")
	}
	if _, ok := workAreaFromProperty(32, value[:8]); ok {
		t.Fatalf("expected short value to be rejected")
	}
}
