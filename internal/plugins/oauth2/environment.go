package oauth2

import "os"

// stdoutIsTTY reports whether stdout is attached to a terminal, used to
// decide whether to use interactive prompts.
func stdoutIsTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

var ciIndicators = []string{"CI", "CONTINUOUS_INTEGRATION", "BUILD_NUMBER", "GITHUB_ACTIONS", "TRAVIS", "CIRCLECI", "GITLAB_CI"}

func isCI() bool {
	for _, name := range ciIndicators {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// wantsInteractive reports whether the auto-detected interactive
// authorization-code flow conditions hold.
func wantsInteractive(cfg *Config, tty bool) bool {
	return cfg.GrantType == "authorization_code" &&
		cfg.AuthorizationCode == "" &&
		cfg.AuthorizationURL != "" &&
		tty &&
		!isCI()
}
