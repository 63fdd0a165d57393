package main

import (
	"fmt"
	"os"
)

// runCompletionCmd emits a shell completion script. Only zsh is supported.
func runCompletionCmd(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft completion zsh")
		return 1
	}
	switch args[0] {
	case "zsh":
		fmt.Print(zshCompletionScript)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unsupported completion shell: %s\n", args[0])
		return 1
	}
}

const zshCompletionScript = `#compdef httpcraft

_httpcraft() {
  local curcontext="$curcontext" state line
  local -a nouns

  nouns=(
    'chain:run a named chain'
    'list:list apis, endpoints, profiles, or variables'
    'describe:describe an api, profile, or endpoint'
    'cache:inspect or manage the local cache'
    'completion:emit a shell completion script'
    'version:print version information'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'httpcraft command' nouns
    _values 'api' $(httpcraft --get-api-names)
    return
  fi

  case ${words[2]} in
    chain)
      if (( CURRENT == 3 )); then
        _values 'chain' $(httpcraft --get-chain-names)
      fi
      ;;
    *)
      if (( CURRENT == 3 )); then
        _values 'endpoint' $(httpcraft --get-endpoint-names ${words[2]})
      fi
      ;;
  esac

  if [[ ${words[CURRENT]} == --profile* ]] || [[ ${words[CURRENT-1]} == --profile ]]; then
    _values 'profile' $(httpcraft --get-profile-names)
  fi
}

compdef _httpcraft httpcraft
`
