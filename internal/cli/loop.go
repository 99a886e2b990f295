// Package cli implements the interactive chat prompt: command parsing, the
// provider factory, and the readline loop with styled output.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"

	"github.com/lfpereira/converse/chat"
	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/transcript"
)

// App wires a session, a transcript writer and the terminal together.
type App struct {
	session *chat.Session
	writer  *transcript.Writer
	logger  *slog.Logger
	out     io.Writer
}

// NewApp creates the interactive application.
func NewApp(session *chat.Session, writer *transcript.Writer, logger *slog.Logger) *App {
	return &App{
		session: session,
		writer:  writer,
		logger:  logger,
		out:     os.Stdout,
	}
}

// Run reads prompt lines until quit or EOF. Ctrl-C aborts the current line,
// not the program.
func (a *App) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	profile := a.session.Profile()
	fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("converse · %s · %s", profile.Name, a.session.Config().Model())))
	fmt.Fprintln(a.out, infoStyle.Render(`digite "help" para os comandos`))

	for {
		input, err := line.Prompt(userStyle.Render("você> "))
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading prompt: %w", err)
		}
		line.AppendHistory(input)

		if quit := a.dispatch(ctx, Parse(input)); quit {
			return nil
		}
	}
}

func (a *App) dispatch(ctx context.Context, command Command) (quit bool) {
	switch command.Kind {
	case CommandEmpty:
	case CommandQuit:
		return true
	case CommandHelp:
		a.printHelp()
	case CommandClear:
		a.session.Clear()
		fmt.Fprintln(a.out, infoStyle.Render("histórico limpo"))
	case CommandSave:
		a.save()
	case CommandShowConfig:
		a.printConfig()
	case CommandSetConfig:
		a.updateConfig(command.Updates)
	case CommandMessage:
		a.send(ctx, command.Text)
	}
	return false
}

func (a *App) send(ctx context.Context, text string) {
	fmt.Fprint(a.out, assistantStyle.Render("assistente> "))

	streaming := a.session.Config().Stream() && a.session.Profile().Streaming
	response, err := a.session.Send(ctx, text, func(delta string) {
		fmt.Fprint(a.out, delta)
	})
	if err != nil {
		fmt.Fprintln(a.out)
		a.printError(err)
		return
	}

	if !streaming {
		fmt.Fprint(a.out, response.Content)
	}
	fmt.Fprintln(a.out)

	for i, citation := range response.Citations {
		fmt.Fprintln(a.out, citationStyle.Render(fmt.Sprintf("  [%d] %s", i+1, citation)))
	}
}

func (a *App) save() {
	if a.session.Conversation().Len() == 0 {
		fmt.Fprintln(a.out, infoStyle.Render("nada para salvar"))
		return
	}
	path, err := a.writer.Save(a.session.Snapshot())
	if err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintln(a.out, infoStyle.Render("conversa salva em "+path))
}

func (a *App) updateConfig(updates map[string]string) {
	result := a.session.UpdateConfig(updates)
	for key, value := range result.Applied {
		fmt.Fprintln(a.out, infoStyle.Render(fmt.Sprintf("%s = %s", key, ai.FormatValue(value))))
	}
	for _, key := range result.Ignored {
		fmt.Fprintln(a.out, infoStyle.Render(fmt.Sprintf("parâmetro desconhecido ignorado: %s", key)))
	}
	for _, rejected := range result.Rejected {
		a.printError(rejected)
	}
}

func (a *App) printConfig() {
	fmt.Fprintln(a.out, headerStyle.Render("configuração atual"))
	for _, pair := range a.session.Config().Pairs() {
		fmt.Fprintf(a.out, "  %s = %s\n", pair.Name, ai.FormatValue(pair.Value))
	}

	fmt.Fprintln(a.out, headerStyle.Render("modelos disponíveis"))
	for _, category := range a.session.Profile().Categories {
		fmt.Fprintln(a.out, infoStyle.Render("  "+category.Name))
		for _, model := range category.Models {
			fmt.Fprintf(a.out, "    %s\n", model)
		}
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, headerStyle.Render("comandos"))
	fmt.Fprintln(a.out, "  help, ?            mostra esta ajuda")
	fmt.Fprintln(a.out, "  config             mostra a configuração e os modelos")
	fmt.Fprintln(a.out, "  config chave=valor altera parâmetros (ex.: config temperature=0.4)")
	fmt.Fprintln(a.out, "  save, s            salva a conversa em Markdown")
	fmt.Fprintln(a.out, "  clear, cls         limpa o histórico")
	fmt.Fprintln(a.out, "  quit, q            sai")
	fmt.Fprintln(a.out, "  qualquer outra linha é enviada como mensagem")
}

func (a *App) printError(err error) {
	classified, ok := ai.AsError(err)
	if !ok {
		fmt.Fprintln(a.out, errorStyle.Render("erro: "+err.Error()))
		return
	}

	a.logger.Debug("exchange failed", "kind", string(classified.Kind), "provider", classified.Provider)
	switch classified.Kind {
	case ai.KindCredentialMissing:
		fmt.Fprintln(a.out, errorStyle.Render("credencial ausente: "+classified.Message))
	case ai.KindStreamTruncated:
		fmt.Fprintln(a.out, errorStyle.Render("a resposta foi interrompida antes do fim; tente novamente"))
	case ai.KindSessionBusy:
		fmt.Fprintln(a.out, errorStyle.Render("aguarde a resposta atual terminar"))
	default:
		fmt.Fprintln(a.out, errorStyle.Render("erro: "+classified.Error()))
	}
}
