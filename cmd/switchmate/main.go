package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/cli"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

func main() {
	var root cli.CLI
	parser, err := kong.New(&root,
		kong.Name("switchmate"),
		kong.Description("Control Switchmate smart switches over Bluetooth Low Energy."),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(rewriteLegacyArgs(os.Args[1:]))
	parser.FatalIfErrorf(err)

	// An operator interrupt cancels the scan window or auth wait; the
	// deferred session close still runs so the adapter is released.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(&root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "switchmate: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// rewriteLegacyArgs accepts the original address-first grammar
// (`switchmate <mac> auth`, `switchmate <mac> <key> switch on`) and
// rewrites it into the subcommand form.
func rewriteLegacyArgs(args []string) []string {
	if len(args) < 2 {
		return args
	}
	if _, err := device.ParseAddress(args[0]); err != nil {
		return args
	}
	mac, rest := args[0], args[1:]

	switch rest[0] {
	case "status", "auth", "toggle", "battery-level", "debug":
		return append([]string{rest[0], mac}, rest[1:]...)
	case "switch":
		return append([]string{"switch", mac}, rest[1:]...)
	}

	// `<mac> <key|none> switch on|off`
	if len(rest) >= 2 && rest[1] == "switch" {
		if _, err := device.ParseKey(rest[0]); err == nil {
			out := append([]string{"switch", mac}, rest[2:]...)
			return append(out, "--key", rest[0])
		}
	}
	return args
}

// exitCode maps error classes to distinct exit codes so scripts can
// tell input mistakes from device failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, device.ErrInvalidAddress), errors.Is(err, device.ErrInvalidKey):
		return 2
	case errors.Is(err, ble.ErrAdapter):
		return 3
	case errors.Is(err, ble.ErrConnect):
		return 4
	case errors.Is(err, ble.ErrTimeout):
		return 5
	case errors.Is(err, ble.ErrAuthRequired):
		return 6
	case errors.Is(err, ble.ErrAuthTimeout):
		return 7
	default:
		return 1
	}
}
