//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// platformNotify uses Notification Center through osascript. Icons are not
// supported there.
func platformNotify(title, body string, _ Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
