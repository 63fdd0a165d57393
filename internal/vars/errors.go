package vars

import (
	"fmt"

	"github.com/httpcraft/httpcraft/internal/herr"
)

func resolutionErrorf(name, format string, args ...any) error {
	return herr.NewVariableResolutionError(name, fmt.Sprintf(format, args...))
}
