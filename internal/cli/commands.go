package cli

import "strings"

// CommandKind discriminates what the user typed at the prompt.
type CommandKind int

const (
	// CommandMessage is anything that is not a command: send it to the
	// provider.
	CommandMessage CommandKind = iota
	CommandHelp
	CommandQuit
	CommandClear
	CommandSave
	CommandShowConfig
	CommandSetConfig
	CommandEmpty
)

// Command is one parsed prompt line.
type Command struct {
	Kind    CommandKind
	Text    string
	Updates map[string]string
}

// Parse classifies a prompt line. Bare words like "help" or "quit" are
// commands; "config" alone shows the configuration; "config key=value ..."
// updates it; everything else is a chat message sent verbatim.
func Parse(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Kind: CommandEmpty}
	}

	fields := splitArgs(trimmed)
	switch strings.ToLower(fields[0]) {
	case "help", "?":
		if len(fields) == 1 {
			return Command{Kind: CommandHelp}
		}
	case "quit", "q", "exit":
		if len(fields) == 1 {
			return Command{Kind: CommandQuit}
		}
	case "clear", "cls":
		if len(fields) == 1 {
			return Command{Kind: CommandClear}
		}
	case "save", "s":
		if len(fields) == 1 {
			return Command{Kind: CommandSave}
		}
	case "config":
		if len(fields) == 1 {
			return Command{Kind: CommandShowConfig}
		}
		if updates, ok := parseUpdates(fields[1:]); ok {
			return Command{Kind: CommandSetConfig, Updates: updates}
		}
	}

	return Command{Kind: CommandMessage, Text: trimmed}
}

// parseUpdates turns key=value arguments into an update map. Any argument
// without '=' makes the whole line a chat message again, so sentences that
// merely start with "config" are not swallowed.
func parseUpdates(args []string) (map[string]string, bool) {
	updates := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, false
		}
		updates[key] = value
	}
	return updates, true
}

// splitArgs splits on whitespace, honoring single quotes so values with
// spaces survive: config model='my model'.
func splitArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range input {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
