package cli

import (
	"fmt"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals) error {
	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

const bashCompletion = `# platescan bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(platescan completion bash)"

_platescan_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="serve recognize config doctor version completion"
    local global_flags="-f --format -l --level -q --quiet -v --verbose"
    local engines="gemini ocrspace tesseract"

    case "${prev}" in
        platescan)
            COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
            return
            ;;
        -f|--format)
            COMPREPLY=($(compgen -W "ndjson text" -- "${cur}"))
            return
            ;;
        -l|--level)
            COMPREPLY=($(compgen -W "debug info warn error" -- "${cur}"))
            return
            ;;
        --engines)
            COMPREPLY=($(compgen -W "${engines}" -- "${cur}"))
            return
            ;;
        recognize)
            COMPREPLY=($(compgen -W "plate odometer" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
    esac

    case "${words[1]}" in
        serve)
            COMPREPLY=($(compgen -W "--addr --engines --no-tls ${global_flags}" -- "${cur}"))
            ;;
        recognize)
            _filedir '@(jpg|jpeg|png|gif|webp|bmp)'
            ;;
        *)
            COMPREPLY=($(compgen -W "${commands} ${global_flags}" -- "${cur}"))
            ;;
    esac
}

complete -F _platescan_completions platescan
`

const zshCompletion = `#compdef platescan
# platescan zsh completion script
# Add to ~/.zshrc:
#   eval "$(platescan completion zsh)"

_platescan() {
    local -a commands
    commands=(
        'serve:Run the capture API server'
        'recognize:Read a plate or odometer from image files'
        'config:Show or manage configuration'
        'doctor:Check API keys, users and OCR engines'
        'version:Show version information'
        'completion:Generate shell completions'
    )

    local -a global_opts
    global_opts=(
        '-f[Output format]:format:(ndjson text)'
        '--format[Output format]:format:(ndjson text)'
        '-l[Minimum log level]:level:(debug info warn error)'
        '--level[Minimum log level]:level:(debug info warn error)'
        '-q[Suppress banners and warnings]'
        '--quiet[Suppress banners and warnings]'
        '-v[Debug logging]'
        '--verbose[Debug logging]'
    )

    _arguments -C \
        $global_opts \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                serve)
                    _arguments \
                        '--addr[Listen address]:address:' \
                        '--engines[OCR engines in fallback order]:engines:(gemini ocrspace tesseract)' \
                        '--no-tls[Serve plain HTTP]' \
                        $global_opts
                    ;;
                recognize)
                    _arguments \
                        '1:kind:(plate odometer)' \
                        '*:image:_files -g "*.(jpg|jpeg|png|gif|webp|bmp)"' \
                        '--engines[OCR engines in fallback order]:engines:(gemini ocrspace tesseract)' \
                        $global_opts
                    ;;
                config)
                    _arguments '1:action:(show path generate)'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

compdef _platescan platescan
`

const fishCompletion = `# platescan fish completion script
# Add to ~/.config/fish/completions/platescan.fish

# Disable file completion by default
complete -c platescan -f

# Commands
complete -c platescan -n "__fish_use_subcommand" -a "serve" -d "Run the capture API server"
complete -c platescan -n "__fish_use_subcommand" -a "recognize" -d "Read a plate or odometer from image files"
complete -c platescan -n "__fish_use_subcommand" -a "config" -d "Show or manage configuration"
complete -c platescan -n "__fish_use_subcommand" -a "doctor" -d "Check API keys, users and OCR engines"
complete -c platescan -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c platescan -n "__fish_use_subcommand" -a "completion" -d "Generate shell completions"

# Global flags
complete -c platescan -s f -l format -d "Output format" -xa "ndjson text"
complete -c platescan -s l -l level -d "Minimum log level" -xa "debug info warn error"
complete -c platescan -s q -l quiet -d "Suppress banners and warnings"
complete -c platescan -s v -l verbose -d "Debug logging"

# Serve command
complete -c platescan -n "__fish_seen_subcommand_from serve" -l addr -d "Listen address" -r
complete -c platescan -n "__fish_seen_subcommand_from serve" -l engines -d "OCR engines in fallback order" -xa "gemini ocrspace tesseract"
complete -c platescan -n "__fish_seen_subcommand_from serve" -l no-tls -d "Serve plain HTTP"

# Recognize command
complete -c platescan -n "__fish_seen_subcommand_from recognize; and not __fish_seen_subcommand_from plate odometer" -a "plate odometer"
complete -c platescan -n "__fish_seen_subcommand_from plate odometer" -F
complete -c platescan -n "__fish_seen_subcommand_from recognize" -l engines -d "OCR engines in fallback order" -xa "gemini ocrspace tesseract"

# Config and completion
complete -c platescan -n "__fish_seen_subcommand_from config" -a "show path generate"
complete -c platescan -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
