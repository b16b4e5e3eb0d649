package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isConnected() bool
	isRegistered() bool
	Connect(ctx context.Context) error
	Register(ctx context.Context) error
	Disconnect(ctx context.Context) error
	List(ctx context.Context) error
	Upload(ctx context.Context) error
	Download(ctx context.Context, fileID string) error
	Modify(ctx context.Context, fileID string) error
	Remove(ctx context.Context, fileID string) error
	Activities(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Leaderboard(ctx context.Context) error
}

// runREPL reads lines from scanner, takes the first token as the command and
// dispatches to a. The prompt shows the current status (from statusFn). The
// loop exits on scanner EOF or on "exit"/"quit".
//
// Commands by state:
//
//	disconnected:              connect, exit
//	connected, not registered: register, disconnect, exit
//	registered:                ls, upload, download [id], modify [id],
//	                           rm [id], activities, whoami, top, disconnect
//
// Errors returned by command handlers are ignored here; handlers print and
// log their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			switch {
			case a.isRegistered():
				printlnFn("Available commands: (l)s, upload, download, modify, rm, activities, whoami, top, disconnect, exit")
			case a.isConnected():
				printlnFn("Available commands: register, disconnect, exit")
			default:
				printlnFn("Available commands: connect, exit")
			}

		case "connect":
			_ = a.Connect(ctx)

		case "register":
			_ = a.Register(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "l", "ls", "list":
			_ = a.List(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "download":
			_ = a.Download(ctx, arg)

		case "modify":
			_ = a.Modify(ctx, arg)

		case "rm", "delete":
			_ = a.Remove(ctx, arg)

		case "activities":
			_ = a.Activities(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "top", "leaderboard":
			_ = a.Leaderboard(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
