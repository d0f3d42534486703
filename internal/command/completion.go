// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

const bashCompletionScript = `# bash completion for catpreload
_catpreload()
{
    local cur prev cmd
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "preload fetch status get clear purge completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t"
    local loader="--origin --logo-root --timeout --max-size --mirror -m --badger-dir --metrics-file --bucket --prefix --region --profile --endpoint --dedupe --progress -p"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --mirror|-m)
            COMPREPLY=( $(compgen -W "none disk badger s3" -- "$cur") )
            return 0
            ;;
        --out)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    case "$cmd" in
        preload|status|clear)
            COMPREPLY=( $(compgen -W "$common $loader --index -i --query -q" -- "$cur") $(compgen -f -- "$cur") )
            ;;
        get)
            COMPREPLY=( $(compgen -W "$common $loader --index -i --query -q --out" -- "$cur") $(compgen -f -- "$cur") )
            ;;
        fetch)
            COMPREPLY=( $(compgen -W "$common $loader --key -k" -- "$cur") )
            ;;
        purge)
            COMPREPLY=( $(compgen -W "$common --hours" -- "$cur") )
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            ;;
    esac
    return 0
}
complete -o default -F _catpreload catpreload
`

const zshCompletionScript = `#compdef catpreload
_catpreload() {
  local -a common loader catalogflags
  common=(
    '(-a --attrs)'{-a,--attrs}'[columns to emit]:attrs:'
    '(-c --color)'{-c,--color}'[colored text output]'
    '(-f --filter)'{-f,--filter}'[filter results]:filter:'
    '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
    '(-s --sort)'{-s,--sort}'[sort results]:columns:'
    '(-t --titles)'{-t,--titles}'[show titles]'
  )
  loader=(
    '--origin[origin URL]:url:'
    '--logo-root[logo directory]:path:'
    '--timeout[request timeout]:duration:'
    '--max-size[max image bytes]:bytes:'
    '(-m --mirror)'{-m,--mirror}'[mirror store]:mirror:(none disk badger s3)'
    '--badger-dir[badger database directory]:dir:_files -/'
    '--metrics-file[write Prometheus metrics]:file:_files'
    '--bucket[S3 bucket]:bucket:'
    '--prefix[S3 key prefix]:prefix:'
    '--region[AWS region]:region:'
    '--profile[AWS profile]:profile:'
    '--endpoint[S3 endpoint]:url:'
    '--dedupe[share concurrent fetches]'
    '(-p --progress)'{-p,--progress}'[progress bar]'
  )
  catalogflags=(
    '(-i --index)'{-i,--index}'[catalog index]:index:'
    '(-q --query)'{-q,--query}'[gjson query]:query:'
  )

  if (( CURRENT == 2 )); then
    _values 'command' preload fetch status get clear purge completion
    return
  fi

  case $words[2] in
    preload|status|clear)
      _arguments $common $loader $catalogflags '1:catalog file:_files'
      ;;
    get)
      _arguments $common $loader $catalogflags '--out[write bytes to file]:file:_files' '1:catalog file:_files' '2:key:'
      ;;
    fetch)
      _arguments $common $loader '(-k --key)'{-k,--key}'[cache key]:key:' '1:path:'
      ;;
    purge)
      _arguments $common '--hours[max age in hours]:hours:'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _catpreload catpreload
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	w := stdout(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("%w: catpreload completion [bash|zsh]", ErrUsage)
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "catpreload completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
