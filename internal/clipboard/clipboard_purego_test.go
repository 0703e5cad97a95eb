//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestTextFromSelection(t *testing.T) {
	tests := []struct {
		data    []byte
		want    string
		wantErr error
	}{
		{[]byte("héllo"), "héllo", nil},
		{[]byte("plain\x00"), "plain", nil},
		{[]byte{0}, "", ErrNoText},
		{nil, "", ErrNoText},
	}
	for _, tc := range tests {
		got, err := textFromSelection(tc.data)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("textFromSelection(%q) error = %v, want %v", tc.data, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("textFromSelection(%q) = %q, want %q", tc.data, got, tc.want)
		}
	}
}

func TestSelectionPayload(t *testing.T) {
	c := &x11Clipboard{atoms: atomSet{clipboard: 1, targets: 2, utf8: 3, png: 4, property: 5}}

	typ, format, payload, ok := c.selectionPayload(c.atoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 || len(payload) != 4 {
		t.Fatalf("empty TARGETS = %v %d %v %v", typ, format, payload, ok)
	}
	if _, _, _, ok := c.selectionPayload(c.atoms.png); ok {
		t.Fatalf("PNG served before any image was written")
	}

	png := []byte{0x89, 'P', 'N', 'G'}
	c.imageData = png
	typ, format, payload, ok = c.selectionPayload(c.atoms.png)
	if !ok || typ != c.atoms.png || format != 8 || !bytes.Equal(payload, png) {
		t.Fatalf("PNG = %v %d %v %v", typ, format, payload, ok)
	}
	_, _, payload, _ = c.selectionPayload(c.atoms.targets)
	if len(payload) != 8 || xproto.Atom(xgb.Get32(payload[4:])) != c.atoms.png {
		t.Fatalf("TARGETS does not list PNG: % x", payload)
	}
	if _, _, _, ok := c.selectionPayload(c.atoms.utf8); ok {
		t.Fatalf("text target served by an image-only owner")
	}
}
