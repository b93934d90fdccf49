// Package chat provides the interactive SheetMind session over one workbook.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sheetmind/sheetmind/internal/engine"
	"github.com/sheetmind/sheetmind/internal/output"
	"github.com/sheetmind/sheetmind/internal/refresh"
)

// Session manages an interactive chat session: utterances go through the
// engine one at a time; built-in commands adjust the selection and show
// session state.
type Session struct {
	Workbook    WorkbookControl
	Engine      *engine.Session
	Refresher   *refresh.Refresher
	HistoryFile string
	StartTime   time.Time

	mu        sync.Mutex
	sheetName string
	selection string
}

// WorkbookControl is the slice of the workbook the REPL itself drives:
// switching sheets and moving the selection.
type WorkbookControl interface {
	SheetName() string
	Selection() string
	SetSheet(name string) error
	Select(ref string) error
}

// NewSession creates an interactive session over a workbook and engine.
func NewSession(wb WorkbookControl, eng *engine.Session) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".sheetmind", "chat_history")
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Workbook:    wb,
		Engine:      eng,
		HistoryFile: histFile,
		StartTime:   time.Now(),
		sheetName:   wb.SheetName(),
		selection:   wb.Selection(),
	}
}

// Position returns the sheet and selection the session is pointed at. Safe
// to call from the refresh task.
func (s *Session) Position() (sheetName, selection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheetName, s.selection
}

func (s *Session) setPosition(sheetName, selection string) {
	s.mu.Lock()
	s.sheetName = sheetName
	s.selection = selection
	s.mu.Unlock()
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("select"),
		readline.PcItem("sheet"),
		readline.PcItem("status"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sheetmind> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("SheetMind — talk to your spreadsheet")
	fmt.Println("Type an instruction, 'help' for commands, 'exit' to quit.")
	fmt.Println()

	writer := output.NewWriter()
	commands := 0

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == "exit" || line == "quit":
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands in %s.\n", commands, formatDuration(elapsed))
			return nil
		case line == "help":
			s.printHelp()
		case line == "status":
			s.printStatus()
		case line == "history":
			entries := s.Engine.History()
			// Show the last 10 exchanges only.
			if len(entries) > 10 {
				entries = entries[len(entries)-10:]
			}
			for _, e := range entries {
				fmt.Printf("  %d  %-40s  [%s]\n", e.Index, truncate(e.Utterance, 40), e.Tier)
			}
		case strings.HasPrefix(line, "select "):
			ref := strings.TrimSpace(strings.TrimPrefix(line, "select "))
			if err := s.Workbook.Select(ref); err != nil {
				output.WriteError("%s", err)
				continue
			}
			s.setPosition(s.Workbook.SheetName(), s.Workbook.Selection())
			fmt.Printf("Selection: %s\n", s.Workbook.Selection())
		case strings.HasPrefix(line, "sheet "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "sheet "))
			if err := s.Workbook.SetSheet(name); err != nil {
				output.WriteError("%s", err)
				continue
			}
			s.setPosition(s.Workbook.SheetName(), s.Workbook.Selection())
			fmt.Printf("Active sheet: %s\n", name)
		default:
			commands++
			resp, err := s.Engine.Submit(ctx, line)
			if err != nil {
				if errors.Is(err, engine.ErrBusy) {
					fmt.Println("Hold on — still working on the previous command.")
					continue
				}
				output.WriteError("%s", err)
				continue
			}
			writer.WriteResponse(resp)
			fmt.Println()
		}
	}

	return nil
}

func (s *Session) printStatus() {
	sheetName, selection := s.Position()
	fmt.Printf("Sheet:     %s\n", sheetName)
	if selection == "" {
		selection = "(none)"
	}
	fmt.Printf("Selection: %s\n", selection)

	if s.Refresher != nil {
		snap, at := s.Refresher.Latest()
		if !at.IsZero() {
			fmt.Printf("Snapshot:  %d×%d, refreshed %s ago\n",
				snap.RowCount, snap.ColumnCount, time.Since(at).Round(time.Second))
			for _, row := range snap.Display {
				fmt.Printf("  %s\n", strings.Join(row, " | "))
			}
		}
	}
}

func (s *Session) printHelp() {
	bold := color.New(color.Bold)
	bold.Println("Session commands:")
	fmt.Println("  select <range>  — set the selection (e.g. select A1:C10)")
	fmt.Println("  sheet <name>    — switch worksheet")
	fmt.Println("  status          — show the live selection snapshot")
	fmt.Println("  history         — show this session's exchanges")
	fmt.Println("  exit            — end the session")
	fmt.Println()
	bold.Println("Anything else is sent to the engine, for example:")
	fmt.Println("  sum the selected column")
	fmt.Println("  format selected cells as currency")
	fmt.Println("  create a bar chart from this data")
	fmt.Println("  sort descending")
	fmt.Println("  analyze the selection")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, sec)
}
