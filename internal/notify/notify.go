// Package notify sends desktop notifications after a save, copy or delete.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/transform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave   Event = "save"
	EventCopy   Event = "copy"
	EventDelete Event = "delete"
)

// ThumbnailSize bounds the longer side of the preview shown with a save.
const ThumbnailSize = 128

// Options configures how a notification is displayed.
type Options struct {
	// IconPath points to an image the notification centre may show.
	IconPath string
}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification text.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification text.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "markshot",
		Events: map[Event]EventPreference{
			EventSave:   {Template: "Saved %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
			EventDelete: {Template: "Deleted %s"},
		},
	}
}

// LoadPreferences applies the MARKSHOT_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("MARKSHOT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range map[Event]string{
		EventSave:   "MARKSHOT_NOTIFY_SAVE_TEXT",
		EventCopy:   "MARKSHOT_NOTIFY_COPY_TEXT",
		EventDelete: "MARKSHOT_NOTIFY_DELETE_TEXT",
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

var send = platformNotify

// Notifier sends notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save announces a written file with a thumbnail of img when given.
func (n *Notifier) Save(path string, img image.Image) {
	if !n.enabledFor(EventSave) {
		return
	}
	opts := Options{}
	if img != nil {
		if preview, cleanup, err := createPreview(Thumbnail(img, ThumbnailSize)); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = preview
		}
	}
	n.dispatch(EventSave, path, opts)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, Options{})
}

// Delete announces a removed file.
func (n *Notifier) Delete(path string) {
	n.dispatch(EventDelete, path, Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// Thumbnail scales img so its longer side is at most size, keeping the
// aspect ratio. Smaller images are returned as is.
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}
	if w >= h {
		h = max(1, h*size/w)
		w = size
	} else {
		w = max(1, w*size/h)
		h = size
	}
	return transform.Resize(img, w, h, transform.Linear)
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "markshot-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
