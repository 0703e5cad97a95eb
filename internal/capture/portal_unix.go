//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/example/markshot/internal/imageio"
)

var portalHandleToken = newPortalHandleToken

// portalScreenshot asks the xdg desktop portal for a full screenshot. The
// portal writes a file, which is decoded and removed.
func portalScreenshot(ctx context.Context, captureOpts CaptureOptions) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalScreenshotOptions(captureOpts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: connection closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			path, err := portalResponsePath(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadScreenshot(path)
		}
	}
}

// portalResponsePath extracts the file path from a Request.Response body.
func portalResponsePath(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed response")
	}
	uriVar, ok := res["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image data")
	}
	uri, ok := uriVar.Value().(string)
	if !ok {
		return "", errors.New("portal screenshot: uri is not a string")
	}
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		return u.Path, nil
	}
	return strings.TrimPrefix(uri, "file://"), nil
}

func newPortalHandleToken() string {
	return "markshot_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func portalScreenshotOptions(captureOpts CaptureOptions) map[string]dbus.Variant {
	cursorMode := "hidden"
	if captureOpts.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(false),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}
}

func loadScreenshot(path string) (*image.RGBA, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()
	img, _, err := imageio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	return img, nil
}
