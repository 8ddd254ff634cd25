package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, path string) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// runREPL starts a simple read–eval–print loop for the journal client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx ends, or when the user types "exit"
// or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help          : show available commands
//	  - login         : authenticate
//	  - exit | quit   : leave the program
//
//	Logged in:
//	  - help          : show available commands
//	  - home          : show the home page
//	  - entries | (l)ist: show the journal
//	  - show <id>     : show a single entry
//	  - new           : write an entry
//	  - edit <id>     : edit an entry
//	  - cancel        : close the editor
//	  - delete <id>   : delete an entry
//	  - whoami        : ask the server who is logged in
//	  - logout        : log out
//	  - exit | quit   : leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("journal %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, entries, (l)ist, show <id>, new, edit <id>, cancel, delete <id>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "home":
			_ = a.Open(ctx, "/home")

		case "entries":
			_ = a.Open(ctx, "/entries")

		case "l", "list":
			_ = a.List(ctx)

		case "new":
			_ = a.Create(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "show", "edit", "delete":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				_ = a.Show(ctx, args[0])
			case "edit":
				_ = a.Edit(ctx, args[0])
			case "delete":
				_ = a.Delete(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
