package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/agentx-labs/calcx/internal/dispatch"
	"github.com/agentx-labs/calcx/internal/history"
	"github.com/agentx-labs/calcx/internal/operation"
)

// PluginLister reports the registered plugin names.
type PluginLister interface {
	Commands() []string
}

// Saver persists the history log.
type Saver interface {
	Save(records []history.Record) error
}

// Config wires a Session to its collaborators.
type Config struct {
	Ops        *operation.Registry
	Dispatcher *dispatch.Dispatcher
	Plugins    PluginLister // may be nil
	History    *history.Log
	Store      Saver // may be nil; history is then kept in memory only
	Autosave   bool  // save after every line that changed history
	Out        io.Writer
	Log        *zap.Logger
	// Interactive prints the banner and a prompt before each line.
	Interactive bool
}

// Session is one REPL run.
type Session struct {
	cfg    Config
	log    *zap.Logger
	dirty  bool
	done   bool
	failed int
}

// NewSession returns a session for cfg.
func NewSession(cfg Config) *Session {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return &Session{cfg: cfg, log: log.Named("repl")}
}

// Prompt is printed before each line in interactive mode.
func Prompt() string { return branding.CLIName() + "> " }

// Run reads lines from in until exit, quit or end of input, then saves the
// history. Only read and final save failures are returned; the history is
// saved even when reading fails.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.log.Info("session started", zap.Bool("interactive", s.cfg.Interactive))
	if s.cfg.Interactive {
		s.PrintHelp()
	}

	r := bufio.NewReader(in)
	var readErr error
	for !s.done {
		if err := ctx.Err(); err != nil {
			return errors.Join(err, s.exit())
		}
		if s.cfg.Interactive {
			fmt.Fprint(s.cfg.Out, Prompt())
		}
		line, err := readLine(r)
		if errors.Is(err, errLineTooLong) {
			s.printError(err)
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = fmt.Errorf("reading input: %w", err)
			}
			break
		}
		s.ExecLine(ctx, line)
	}
	return errors.Join(readErr, s.exit())
}

// MaxLineSize bounds a single input line.
const MaxLineSize = 1 << 20

var errLineTooLong = fmt.Errorf("input line longer than %d bytes", MaxLineSize)

// readLine returns the next line without its terminator. An overlong line
// is consumed and reported as errLineTooLong. A final line without a
// newline is returned before io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	var (
		buf     []byte
		n       int
		tooLong bool
	)
	for {
		chunk, err := r.ReadSlice('\n')
		n += len(chunk)
		if !tooLong {
			buf = append(buf, chunk...)
			if len(bytes.TrimRight(buf, "\r\n")) > MaxLineSize {
				tooLong, buf = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
			return "", err
		}
		break
	}
	if tooLong {
		return "", errLineTooLong
	}
	line := strings.TrimSuffix(string(buf), "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Flush saves the history if any command changed it since the last save.
func (s *Session) Flush() error {
	if !s.dirty {
		return nil
	}
	return s.save()
}

// Failed returns how many commands have failed so far.
func (s *Session) Failed() int { return s.failed }

// Done reports whether exit or quit was executed.
func (s *Session) Done() bool { return s.done }

// ExecLine runs every ';'-separated command on line. Commands after exit
// or quit are ignored.
func (s *Session) ExecLine(ctx context.Context, line string) {
	for _, inv := range dispatch.ParseLine(line) {
		if s.done {
			return
		}
		s.exec(ctx, inv)
	}
	if s.cfg.Autosave && s.dirty && !s.done {
		if err := s.save(); err != nil {
			s.printError(err)
		}
	}
}

func (s *Session) exec(ctx context.Context, inv dispatch.Invocation) {
	switch strings.ToLower(inv.Name) {
	case "exit", "quit":
		s.done = true
		return
	case "help":
		s.PrintHelp()
		return
	case "history":
		if err := s.cfg.History.Render(s.cfg.Out); err != nil {
			s.printError(err)
		}
		return
	case "clear_history":
		s.cfg.History.Clear()
		s.dirty = true
		fmt.Fprintln(s.cfg.Out, "Calculation history cleared.")
		return
	case "plugins":
		fmt.Fprintln(s.cfg.Out, "Available plugin commands:", s.pluginList())
		return
	case "edit_history":
		s.editHistory(inv.Args)
		return
	}

	res, err := s.cfg.Dispatcher.Dispatch(ctx, inv.Name, inv.Args)
	if err != nil {
		s.log.Debug("command failed", zap.String("command", inv.Name), zap.Error(err))
		s.printError(err)
		return
	}
	switch res.Kind {
	case dispatch.Plugin:
		fmt.Fprintf(s.cfg.Out, "Plugin '%s' result: %s\n", res.Name, dispatch.FormatValue(res.Value))
	default:
		s.dirty = true
		fmt.Fprintf(s.cfg.Out, "Result: %s\n", dispatch.FormatValue(res.Value))
	}
}

// editHistory handles: edit_history <index> <command> <arg>...
// The new result is recomputed, so the command must be a built-in.
func (s *Session) editHistory(args []string) {
	if len(args) < 3 {
		s.fail("Usage: edit_history <record_index> <command> <arg1> <arg2> ...")
		return
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		s.fail("Record index must be an integer.")
		return
	}
	values, err := dispatch.ParseNumbers(args[2:])
	if err != nil {
		s.printError(err)
		return
	}
	cmd, ok := s.cfg.Ops.NewCommand(args[1], values)
	if !ok {
		s.printError(fmt.Errorf("%w: %s", dispatch.ErrUnknownCommand, args[1]))
		return
	}
	result, err := cmd.Execute()
	if err != nil {
		s.printError(err)
		return
	}

	name := cmd.Name()
	if err := s.cfg.History.Edit(index, history.Edit{Command: &name, Arguments: cmd.Args(), Result: &result}); err != nil {
		s.printError(err)
		return
	}
	s.dirty = true
	fmt.Fprintln(s.cfg.Out, "Record updated successfully.")
}

func (s *Session) exit() error {
	s.done = true
	if s.cfg.Store != nil {
		if err := s.save(); err != nil {
			return err
		}
		fmt.Fprintln(s.cfg.Out, "History saved.")
	}
	fmt.Fprintf(s.cfg.Out, "Thank you for using %s. Goodbye!\n", branding.DisplayName())
	return nil
}

func (s *Session) save() error {
	if s.cfg.Store == nil {
		return nil
	}
	if err := s.cfg.Store.Save(s.cfg.History.Records()); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	s.dirty = false
	s.log.Debug("history saved", zap.Int("records", s.cfg.History.Len()))
	return nil
}

func (s *Session) pluginList() string {
	if s.cfg.Plugins == nil {
		return "(none)"
	}
	names := s.cfg.Plugins.Commands()
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func (s *Session) printError(err error) {
	s.fail("Error: " + err.Error())
}

func (s *Session) fail(msg string) {
	s.failed++
	fmt.Fprintln(s.cfg.Out, msg)
}

// PrintHelp writes the command overview.
func (s *Session) PrintHelp() {
	WriteHelp(s.cfg.Out, s.cfg.Ops)
}

// WriteHelp writes the command overview for ops and the session commands.
func WriteHelp(w io.Writer, ops *operation.Registry) {
	fmt.Fprintf(w, "%s - %s\n", branding.DisplayName(), branding.Description())
	fmt.Fprintln(w, "Commands (separate multiple commands with a semicolon ';'):")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range ops.Names() {
		d, _ := ops.Lookup(name)
		fmt.Fprintf(tw, "  %s %s\t%s\n", name, usage(d), arityText(d))
	}
	for _, c := range sessionCommands {
		fmt.Fprintf(tw, "  %s\t%s\n", c[0], c[1])
	}
	tw.Flush()
}

var sessionCommands = [][2]string{
	{"history", "show calculation history"},
	{"clear_history", "clear history"},
	{"edit_history <index> <command> <args...>", "recompute and replace a history record"},
	{"plugins", "list plugin commands"},
	{"help", "show this message"},
	{"exit, quit", "leave (history is saved)"},
}

func usage(d operation.Descriptor) string {
	if d.MaxArity == operation.Unbounded {
		parts := make([]string, 0, d.MinArity+1)
		for i := 1; i <= d.MinArity; i++ {
			parts = append(parts, "<x"+strconv.Itoa(i)+">")
		}
		return strings.Join(append(parts, "..."), " ")
	}
	if d.MaxArity == 1 {
		return "<x>"
	}
	parts := make([]string, 0, d.MaxArity)
	for i := 0; i < d.MaxArity; i++ {
		parts = append(parts, "<"+string(rune('a'+i))+">")
	}
	return strings.Join(parts, " ")
}

func arityText(d operation.Descriptor) string {
	switch {
	case d.MaxArity == operation.Unbounded:
		return "at least " + strconv.Itoa(d.MinArity)
	case d.MinArity == d.MaxArity:
		return "exactly " + strconv.Itoa(d.MinArity)
	default:
		return strconv.Itoa(d.MinArity) + " to " + strconv.Itoa(d.MaxArity)
	}
}
