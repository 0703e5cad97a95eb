package notify

import (
	"errors"
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	title, body string
	icon        string
	iconExisted bool
}

func capture(t *testing.T, err error) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, body string, opts Options) error {
		s := sent{title: title, body: body, icon: opts.IconPath}
		if opts.IconPath != "" {
			_, statErr := os.Stat(opts.IconPath)
			s.iconExisted = statErr == nil
		}
		got = append(got, s)
		return err
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences())
	n.Save("/tmp/a.png", nil)
	n.Copy("")
	n.Delete("/tmp/a.png")
	assert.Empty(t, *got)

	var none *Notifier
	none.Copy("x")
	none.Enable(EventCopy, true)
	assert.Empty(t, *got)
}

func TestDispatchFormatsTemplates(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences())
	for _, e := range []Event{EventSave, EventCopy, EventDelete} {
		n.Enable(e, true)
	}
	n.Copy("  ")
	n.Delete("/tmp/a.png")
	n.Save("/tmp/a.png", nil)

	require.Len(t, *got, 3)
	assert.Equal(t, "markshot", (*got)[0].title)
	assert.Equal(t, "Copied image to clipboard", (*got)[0].body)
	assert.Equal(t, "Deleted /tmp/a.png", (*got)[1].body)
	assert.Equal(t, "Saved /tmp/a.png", (*got)[2].body)
	assert.Empty(t, (*got)[2].icon)
}

func TestSaveAttachesTemporaryPreview(t *testing.T) {
	got := capture(t, errors.New("no notification daemon"))
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save("/tmp/a.png", image.NewRGBA(image.Rect(0, 0, 640, 480)))

	require.Len(t, *got, 1)
	s := (*got)[0]
	assert.NotEmpty(t, s.icon)
	assert.True(t, s.iconExisted)
	_, err := os.Stat(s.icon)
	assert.True(t, os.IsNotExist(err), "preview should be removed after dispatch")
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("MARKSHOT_NOTIFY_TITLE", "Shots")
	t.Setenv("MARKSHOT_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("MARKSHOT_NOTIFY_COPY_TEXT", "")
	t.Setenv("MARKSHOT_NOTIFY_DELETE_TEXT", "")
	prefs := LoadPreferences()
	assert.Equal(t, "Shots", prefs.Title)
	assert.Equal(t, "Wrote %s", prefs.Events[EventSave].Template)
	assert.Equal(t, "Copied %s to clipboard", prefs.Events[EventCopy].Template)
}

func TestNewClonesPreferences(t *testing.T) {
	got := capture(t, nil)
	prefs := DefaultPreferences()
	n := New(prefs)
	prefs.Events[EventCopy] = EventPreference{Template: "changed %s"}
	n.Enable(EventCopy, true)
	n.Copy("x")
	require.Len(t, *got, 1)
	assert.Equal(t, "Copied x to clipboard", (*got)[0].body)
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		w, h  int
		wantW int
		wantH int
	}{
		{640, 480, 128, 96},
		{100, 400, 32, 128},
		{50, 20, 50, 20},
		{1000, 2, 128, 1},
	}
	for _, tc := range tests {
		got := Thumbnail(image.NewRGBA(image.Rect(0, 0, tc.w, tc.h)), ThumbnailSize).Bounds()
		assert.Equal(t, tc.wantW, got.Dx(), "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, got.Dy(), "%dx%d", tc.w, tc.h)
	}
}
