package oauth2

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// openBrowser best-effort launches url in the system browser. On failure
// it prints the URL to stderr for manual use.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "open this URL to authorize: %s\n", url)
		return
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "open this URL to authorize: %s\n", url)
	}
}
