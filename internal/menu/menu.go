// Package menu implements the numbered interactive loop that fronts the task
// registry. It owns no state besides its reader and writer.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/taskman/internal/registry"
	"github.com/mesh-intelligence/taskman/pkg/types"
)

// Menu choices.
const (
	choiceCreate    = "1"
	choiceList      = "2"
	choiceComplete  = "3"
	choiceDelete    = "4"
	choiceDeleteAll = "5"
	choiceQuit      = "6"
)

// Menu reads one line per prompt from in and writes results to out.
type Menu struct {
	reg    *registry.Registry
	in     *bufio.Reader
	inErr  error
	out    io.Writer
	logger *log.Logger
}

// Option configures a Menu.
type Option func(*Menu)

// WithLogger sets the logger that receives save-failure warnings.
func WithLogger(l *log.Logger) Option {
	return func(m *Menu) { m.logger = l }
}

// New returns a Menu driving reg.
func New(reg *registry.Registry, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		reg:    reg,
		in:     bufio.NewReader(in),
		out:    out,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loops until the user quits or input ends. Both are a clean exit.
func (m *Menu) Run() error {
	for {
		m.showMenu()
		choice, ok := m.prompt("\nSelect an option (1-6): ")
		if !ok {
			fmt.Fprintln(m.out)
			return m.inErr
		}

		switch strings.TrimSpace(choice) {
		case choiceCreate:
			m.create()
		case choiceList:
			fmt.Fprintln(m.out, m.reg.List())
		case choiceComplete:
			m.complete()
		case choiceDelete:
			m.delete()
		case choiceDeleteAll:
			m.deleteAll()
		case choiceQuit:
			fmt.Fprintln(m.out, "\nThank you for using Task Manager!")
			return nil
		default:
			fmt.Fprintln(m.out, "✘ Invalid option. Please select a number between 1-6.")
		}
	}
}

func (m *Menu) showMenu() {
	fmt.Fprintln(m.out, "\n"+registry.Rule)
	fmt.Fprintln(m.out, "TASK MANAGER - MAIN MENU")
	fmt.Fprintln(m.out, registry.Rule)
	fmt.Fprintln(m.out, "1. Create New Task")
	fmt.Fprintln(m.out, "2. Show All Tasks")
	fmt.Fprintln(m.out, "3. Mark Task as Done")
	fmt.Fprintln(m.out, "4. Remove Task")
	fmt.Fprintln(m.out, "5. Remove All Tasks")
	fmt.Fprintln(m.out, "6. Quit")
	fmt.Fprintln(m.out, registry.Rule)
}

// prompt prints label and reads one line of any length. ok is false once
// input is exhausted; a final line without a newline is still returned.
func (m *Menu) prompt(label string) (line string, ok bool) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			m.inErr = err
		}
		if line == "" {
			return "", false
		}
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (m *Menu) create() {
	description, _ := m.prompt("Enter task description: ")
	_, err := m.reg.Create(description)
	if errors.Is(err, types.ErrEmptyDescription) {
		fmt.Fprintln(m.out, "✘ Task creation failed. Description cannot be empty.")
		return
	}
	fmt.Fprintln(m.out, "✔ Task created successfully!")
	m.warnUnsaved(err)
}

func (m *Menu) complete() {
	id, ok := m.promptID("Enter task ID to mark as done: ")
	if !ok {
		return
	}
	err := m.reg.Complete(id)
	if errors.Is(err, types.ErrNotFound) {
		fmt.Fprintf(m.out, "✘ Task #%d not found.\n", id)
		return
	}
	fmt.Fprintf(m.out, "✔ Task #%d marked as done!\n", id)
	m.warnUnsaved(err)
}

func (m *Menu) delete() {
	id, ok := m.promptID("Enter task ID to remove: ")
	if !ok {
		return
	}
	err := m.reg.Delete(id)
	if errors.Is(err, types.ErrNotFound) {
		fmt.Fprintf(m.out, "✘ Task #%d not found.\n", id)
		return
	}
	fmt.Fprintf(m.out, "✔ Task #%d removed successfully!\n", id)
	m.warnUnsaved(err)
}

func (m *Menu) deleteAll() {
	answer, _ := m.prompt("Are you sure you want to remove all tasks? (yes/no): ")
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		fmt.Fprintln(m.out, "Action cancelled.")
		return
	}
	err := m.reg.DeleteAll()
	fmt.Fprintln(m.out, "✔ All tasks have been removed!")
	m.warnUnsaved(err)
}

// promptID reads an integer. Anything else is reported and ok is false.
func (m *Menu) promptID(label string) (int, bool) {
	line, _ := m.prompt(label)
	id, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintln(m.out, "✘ Invalid input. Please enter a valid number.")
		return 0, false
	}
	return id, true
}

// warnUnsaved logs a failed save. The change is kept in memory and goes to
// disk with the next successful save.
func (m *Menu) warnUnsaved(err error) {
	if err != nil {
		m.logger.Printf("warning: %v; the change is kept for this session only", err)
	}
}
