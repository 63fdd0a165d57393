package plugin

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// configFingerprint hashes a plugin's effective configuration for the
// API-level override reuse check: "byte-identical" is interpreted as
// byte-identical canonical JSON rather than source YAML, so key reordering
// between global and API config doesn't force a spurious new instance.
// encoding/json already sorts map[string]any keys, which is sufficient
// canonicalization here.
func configFingerprint(config map[string]any) (string, error) {
	body, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(body)
	return "blake3:" + hex.EncodeToString(sum[:]), nil
}
