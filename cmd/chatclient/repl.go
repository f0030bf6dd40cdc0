package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iyunix/go-chatview/internal/view"
)

const helpText = `commands:
  list                  refresh and show conversations
  new                   create a conversation
  open <id>             open a conversation
  show                  show the open transcript
  send <text>           send a message to the open conversation
  rename <id> <title>   rename a conversation
  delete <id>           delete a conversation (asks for confirmation)
  help                  show this help
  quit                  exit`

type command struct {
	name string
	id   uint
	text string
}

// parseCommand splits a line into a command, an optional id and free text.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}
	cmd := command{name: strings.ToLower(fields[0])}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd.name {
	case "open", "delete", "rename":
		if len(fields) < 2 {
			return cmd, fmt.Errorf("%s needs a conversation id", cmd.name)
		}
		id, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil || id == 0 {
			return cmd, fmt.Errorf("invalid conversation id %q", fields[1])
		}
		cmd.id = uint(id)
		cmd.text = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
		if cmd.name == "rename" && cmd.text == "" {
			return cmd, fmt.Errorf("rename needs a title")
		}
	case "send":
		if rest == "" {
			return cmd, fmt.Errorf("send needs some text")
		}
		cmd.text = rest
	case "list", "new", "show", "help", "quit", "exit":
	default:
		return cmd, fmt.Errorf("unknown command %q (try help)", cmd.name)
	}
	return cmd, nil
}

type repl struct {
	session *view.Session
	in      io.Reader
	out     io.Writer
	seen    int
}

func newREPL(session *view.Session, in io.Reader, out io.Writer) *repl {
	return &repl{session: session, in: in, out: out}
}

// Run reads commands until quit, end of input or ctx is done.
func (r *repl) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	r.session.Do(r.session.List.Refresh)
	r.printList()
	fmt.Fprintln(r.out, `type "help" for commands`)

	for {
		fmt.Fprint(r.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		cmd, err := parseCommand(line)
		if err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		if cmd.name == "quit" || cmd.name == "exit" {
			return nil
		}
		if !r.execute(ctx, cmd, lines) {
			return nil
		}
		r.printNotices()
	}
}

func (r *repl) execute(ctx context.Context, cmd command, lines <-chan string) bool {
	s := r.session
	ctl := s.Controller

	switch cmd.name {
	case "":
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "list":
		s.Do(s.List.Refresh)
		r.printList()
	case "new":
		s.Do(ctl.Create)
		r.printList()
	case "open":
		s.Do(func() { r.dispatch(cmd.id, "open", func() { ctl.Open(cmd.id) }) })
		r.printTranscript()
	case "show":
		r.printTranscript()
	case "send":
		s.Do(func() { ctl.Send(cmd.text) })
		r.printTranscript()
	case "rename":
		var err error
		s.Do(func() {
			r.dispatch(cmd.id, "rename", func() { ctl.RequestRename(cmd.id, "") })
			err = ctl.ConfirmRename(cmd.text)
		})
		if err != nil {
			fmt.Fprintln(r.out, err)
		}
		r.printList()
	case "delete":
		s.Do(func() { r.dispatch(cmd.id, "delete", func() { ctl.RequestDelete(cmd.id, "") }) })
		if ctl.DeleteDialog().State() != view.DialogAwaitingConfirmation {
			return true
		}
		fmt.Fprintf(r.out, "delete conversation %d? [y/N] ", cmd.id)
		var answer string
		var ok bool
		select {
		case answer, ok = <-lines:
		case <-ctx.Done():
		}
		if !ok {
			s.Do(ctl.Cancel)
			return false
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a == "y" || a == "yes" {
			s.Do(func() { _ = ctl.ConfirmDelete() })
		} else {
			s.Do(ctl.Cancel)
		}
		r.printList()
	}
	return true
}

// dispatch clicks a card button when the card is on screen, so the title the
// card was rendered with reaches the dialog; otherwise it calls fallback.
func (r *repl) dispatch(id uint, slot string, fallback func()) {
	if card, ok := r.session.List.Card(id); ok && card.Dispatch(slot) {
		return
	}
	fallback()
}

func (r *repl) printList() {
	cards := r.session.List.Cards()
	if len(cards) == 0 {
		fmt.Fprintln(r.out, "(no conversations)")
		return
	}
	active := strconv.FormatUint(uint64(r.session.Transcript.Active()), 10)
	for _, c := range cards {
		marker := " "
		if c.ID == active {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %4s  %-40s %s\n", marker, c.ID, c.Title, c.Timestamp)
	}
}

func (r *repl) printTranscript() {
	if r.session.Transcript.Active() == 0 {
		fmt.Fprintln(r.out, "(no conversation open)")
		return
	}
	bubbles := r.session.Transcript.Bubbles()
	if len(bubbles) == 0 {
		fmt.Fprintln(r.out, "(no messages)")
		return
	}
	for _, b := range bubbles {
		fmt.Fprintf(r.out, "[%s] %s\n", b.Role, b.Text)
	}
}

func (r *repl) printNotices() {
	notices := r.session.Reporter.Notices()
	if len(notices) < r.seen {
		r.seen = 0
	}
	for _, n := range notices[r.seen:] {
		fmt.Fprintf(r.out, "error: %s: %s\n", n.Operation, n.Message)
	}
	r.seen = len(notices)
}
