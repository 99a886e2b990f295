// Package transcript renders chat sessions as Markdown files, one file per
// save, so conversations survive the process and can be read anywhere.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lfpereira/converse/chat"
	"github.com/lfpereira/converse/providers/ai"
)

// DefaultDir is where transcripts land unless configured otherwise.
const DefaultDir = "historico"

// Writer saves session snapshots under a directory, creating it on demand.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer targeting dir, falling back to DefaultDir when
// dir is empty.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir, now: time.Now}
}

// Filename builds the transcript file name for a provider at a given time.
func Filename(provider string, at time.Time) string {
	return fmt.Sprintf("%s_chat_%s.md", provider, at.Format("20060102_150405"))
}

// Save renders the snapshot and writes it to a new timestamped file,
// returning the file's path.
func (w *Writer) Save(snapshot chat.Snapshot) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating transcript directory: %w", err)
	}

	path := filepath.Join(w.dir, Filename(snapshot.Provider, w.now()))
	if err := os.WriteFile(path, []byte(Render(snapshot)), 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

// Render produces the Markdown document for a snapshot: a header with the
// session identity, the settings in schema order, and the conversation with
// per-message citation lists.
func Render(snapshot chat.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversa com %s\n\n", snapshot.Provider)
	fmt.Fprintf(&b, "- **Sessão:** %s\n", snapshot.SessionID)
	fmt.Fprintf(&b, "- **Início:** %s\n", snapshot.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Modelo:** %s\n\n", snapshot.Model)

	b.WriteString("## Configurações\n\n")
	for _, setting := range snapshot.Settings {
		fmt.Fprintf(&b, "- **%s:** %s\n", setting.Name, ai.FormatValue(setting.Value))
	}

	b.WriteString("\n## Conversa\n")
	for _, message := range snapshot.Messages {
		switch message.Role {
		case ai.RoleUser:
			b.WriteString("\n### Você\n\n")
		case ai.RoleAssistant:
			b.WriteString("\n### Assistente\n\n")
		default:
			continue
		}
		b.WriteString(message.Content)
		b.WriteString("\n")

		if len(message.Citations) > 0 {
			b.WriteString("\n#### Fontes\n\n")
			for i, citation := range message.Citations {
				fmt.Fprintf(&b, "%d. %s\n", i+1, citation)
			}
		}
	}

	if snapshot.Usage.TotalTokens > 0 {
		b.WriteString("\n## Uso de tokens\n\n")
		fmt.Fprintf(&b, "- **Entrada:** %d\n", snapshot.Usage.InputTokens)
		fmt.Fprintf(&b, "- **Saída:** %d\n", snapshot.Usage.OutputTokens)
		fmt.Fprintf(&b, "- **Total:** %d\n", snapshot.Usage.TotalTokens)
	}

	return b.String()
}
