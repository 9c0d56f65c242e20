// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/assistant"
	"github.com/ssssjaj14-ux/shakeel/internal/config"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
	"github.com/ssssjaj14-ux/shakeel/internal/ui/styles"
	"github.com/ssssjaj14-ux/shakeel/internal/util"
)


// newChatCmd creates `pandanexus chat`.
func newChatCmd(g *globalOptions) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. Type /help inside the chat for commands.

Ctrl+C cancels a reply in progress; Ctrl+D or /quit leaves.

Examples:
  pandanexus chat
  pandanexus chat --service creative`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}
			session := NewChatSession(a.svc, resolveCategory(service, a.cfg), cmd.OutOrStdout())
			session.printer.markdown = newMarkdownRenderer(cmd.OutOrStdout(), a.cfg.UI.Markdown, a.cfg.UI.WordWrap)
			session.printer.showModel = a.cfg.UI.ShowModel
			session.spinner = isTerminal(cmd.OutOrStdout())
			if a.cfg.Cloud.APIKey == "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.RenderWarning("no API key configured; replies will be offline (see `pandanexus config set-key`)"))
			}
			return runREPL(cmd.Context(), session)
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "service: auto, code, creative, knowledge, general")
	return cmd
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession is one interactive conversation.
type ChatSession struct {
	svc          *assistant.Service
	category     model.ServiceCategory
	history      []model.Message
	pendingImage string

	out     io.Writer
	printer *resultPrinter
	spinner bool

	started   time.Time
	replies   int
	fallbacks int
}

// NewChatSession creates a session writing to out.
func NewChatSession(svc *assistant.Service, category model.ServiceCategory, out io.Writer) *ChatSession {
	return &ChatSession{
		svc:      svc,
		category: category,
		out:      out,
		printer:  &resultPrinter{out: out},
		started:  time.Now(),
	}
}

// History returns a copy of the conversation so far.
func (s *ChatSession) History() []model.Message {
	return append([]model.Message(nil), s.history...)
}

// Category returns the selected service.
func (s *ChatSession) Category() model.ServiceCategory {
	return s.category
}

// Handle processes one input line. It returns false when the session
// should end. Errors are for the user and do not end the session.
func (s *ChatSession) Handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true, nil
	case strings.HasPrefix(line, "/"):
		return s.command(ctx, line)
	case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
		return false, nil
	}
	s.Send(ctx, line)
	return true, nil
}

// Send adds a user message, asks for a reply and prints it.
func (s *ChatSession) Send(ctx context.Context, text string) model.CompletionResult {
	msg := model.NewUserMessage(text)
	if s.pendingImage != "" {
		msg = msg.WithImage(s.pendingImage)
		s.pendingImage = ""
	}
	s.history = append(s.history, msg)

	var spin *styles.Spinner
	if s.spinner {
		spin = styles.NewSpinner(s.out, styles.DotsSpinner, " thinking")
		spin.Start()
	}
	result := s.svc.SendMessage(ctx, s.history, s.category)
	if spin != nil {
		spin.Stop()
	}

	s.history = append(s.history, model.NewAssistantMessage(result.Content))
	s.replies++
	if offline.IsFallback(result) {
		s.fallbacks++
	}
	s.printer.Print(result)
	return result
}

func (s *ChatSession) command(ctx context.Context, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return false, nil
	case "/help", "/h":
		s.printHelp()
	case "/clear", "/c":
		s.history = nil
		s.pendingImage = ""
		fmt.Fprintln(s.out, styles.RenderInfo("conversation cleared"))
	case "/history":
		s.printHistory()
	case "/status", "/s":
		s.printStatus()
	case "/service":
		return true, s.switchService(rest)
	case "/image", "/img":
		return true, s.attachImage(ctx, rest)
	case "/file":
		return true, s.addFile(rest)
	case "/fix":
		if rest == "" {
			return true, fmt.Errorf("usage: /fix <text>")
		}
		fmt.Fprintln(s.out, s.svc.SpellCheck(ctx, rest))
	default:
		return true, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return true, nil
}

func (s *ChatSession) switchService(name string) error {
	if name == "" {
		for _, info := range model.Categories() {
			mark := "  "
			if info.Category == s.category {
				mark = "* "
			}
			fmt.Fprintf(s.out, "%s%s %s\n", mark,
				categoryText(info.Category, padRight(string(info.Category), 11)),
				mutedStyle.Render(info.Description))
		}
		return nil
	}
	cat, ok := model.ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown service %q", name)
	}
	s.category = cat
	fmt.Fprintln(s.out, styles.RenderSuccess("service: "+cat.Info().Label))
	return nil
}

// attachImage holds an image for the next message. A question after the
// path sends it right away.
func (s *ChatSession) attachImage(ctx context.Context, args string) error {
	path, question, _ := strings.Cut(args, " ")
	if path == "" {
		return fmt.Errorf("usage: /image <path|url> [question]")
	}
	ref, err := imageRef(path)
	if err != nil {
		return err
	}
	s.pendingImage = ref
	if question = strings.TrimSpace(question); question != "" {
		s.Send(ctx, question)
		return nil
	}
	fmt.Fprintln(s.out, styles.RenderInfo("image attached; it goes with your next message (or send /image again with a question)"))
	return nil
}

// addFile adds a text file to the conversation without asking for a reply.
func (s *ChatSession) addFile(path string) error {
	if path == "" {
		return fmt.Errorf("usage: /file <path>")
	}
	content, err := fileMessage(path)
	if err != nil {
		return err
	}
	s.history = append(s.history, model.NewUserMessage(content))
	fmt.Fprintln(s.out, styles.RenderSuccess(fmt.Sprintf("added %s (%d bytes)", filepath.Base(path), len(content)-len(filePrefix))))
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.out, titleStyle.Render("PandaNexus")+" "+mutedStyle.Render(Version)+" "+offline.StatusBadge())
	fmt.Fprintln(s.out, labelStyle.Render("service: ")+categoryText(s.category, s.category.Info().Label)+
		mutedStyle.Render("  (/help for commands)"))
	fmt.Fprintln(s.out)
}

func (s *ChatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/service [name]", "Show or switch the service"},
		{"/image <path|url>", "Attach an image to the next message"},
		{"/file <path>", "Add a text file to the conversation"},
		{"/fix <text>", "Correct spelling and grammar"},
		{"/history", "Show the conversation"},
		{"/status, /s", "Show session statistics"},
		{"/clear, /c", "Start over"},
		{"/quit, /q", "Leave"},
	}
	fmt.Fprintln(s.out, titleStyle.Render("Commands"))
	fmt.Fprintln(s.out, separator(20))
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %s %s\n", commandStyle.Render(padRight(c.cmd, 20)), labelStyle.Render(c.desc))
	}
}

func (s *ChatSession) printHistory() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, styles.RenderInfo("no messages yet"))
		return
	}
	for i, msg := range s.history {
		role := lipgloss.NewStyle().Foreground(styles.RoleColor(msg.Role)).Render(msg.Role.DisplayName())
		content := util.TruncateRunes(util.OneLine(msg.Content), 100)
		if msg.HasImage() {
			content += mutedStyle.Render(" [image]")
		}
		fmt.Fprintf(s.out, "  %d. %s: %s\n", i+1, role, content)
	}
}

func (s *ChatSession) printStatus() {
	rows := [][2]string{
		{"Service", s.category.Info().Label},
		{"Model", s.svc.Models().For(s.category.Resolve())},
		{"Messages", fmt.Sprint(len(s.history))},
		{"Replies", fmt.Sprintf("%d (%d offline)", s.replies, s.fallbacks)},
		{"Duration", time.Since(s.started).Round(time.Second).String()},
	}
	if offline.IsOfflineMode() {
		rows = append(rows, [2]string{"Mode", "offline"})
	}
	for _, r := range rows {
		fmt.Fprintf(s.out, "  %s %s\n", labelStyle.Render(padRight(r[0]+":", 10)), valueStyle.Render(r[1]))
	}
}

func (s *ChatSession) printGoodbye() {
	if s.replies == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render("Goodbye!"))
		return
	}
	fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("Goodbye! %d replies in %s.",
		s.replies, time.Since(s.started).Round(time.Second))))
}

// =============================================================================
// REPL
// =============================================================================

// lineReader wraps liner with a history file in the config directory.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the input history (0600) and restores the terminal.
func (r *lineReader) Close() {
	var buf bytes.Buffer
	if _, err := r.line.WriteHistory(&buf); err == nil {
		_ = saveHistory(r.historyFile, buf.Bytes())
	}
	r.line.Close()
}

// saveHistory replaces the history file in one step so a crash mid-write
// never truncates it.
func saveHistory(path string, data []byte) error {
	return util.AtomicWriteFile(path, data, 0600)
}

func runREPL(ctx context.Context, s *ChatSession) error {
	reader := newLineReader()
	defer reader.Close()

	s.printWelcome()
	for {
		prompt := lipgloss.NewStyle().Foreground(styles.CategoryColor(s.category)).Bold(true).
			Render(string(s.category) + "> ")
		input, err := reader.Prompt(prompt)
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D and closed stdin all end the chat.
			fmt.Fprintln(s.out)
			s.printGoodbye()
			return nil
		}

		// Ctrl+C while waiting for a reply cancels only that reply.
		reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		cont, err := s.Handle(reqCtx, input)
		stop()
		if err != nil {
			fmt.Fprintln(s.out, styles.RenderError(err.Error()))
		}
		if !cont || ctx.Err() != nil {
			s.printGoodbye()
			return nil
		}
	}
}
