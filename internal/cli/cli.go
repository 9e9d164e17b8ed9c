// Package cli defines the kong command tree. Commands resolve operator
// input (addresses, keys, the keystore) and delegate to the commands
// package; they never talk to the BLE stack directly.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/commands"
	"github.com/vitaminmoo/switchmate-tool/internal/config"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
	"github.com/vitaminmoo/switchmate-tool/internal/keystore"
	"github.com/vitaminmoo/switchmate-tool/internal/tui"
)

// CLI is the root command structure for switchmate.
type CLI struct {
	Verbose  bool          `short:"v" help:"Enable verbose debug output"`
	Timeout  time.Duration `help:"Per-operation BLE timeout" default:"10s"`
	Keystore string        `help:"Auth key store path (default ~/.switchmate/keys.json)" type:"path"`

	Scan         ScanCmd         `cmd:"" help:"Scan for nearby Switchmate devices"`
	Status       StatusCmd       `cmd:"" help:"Read switch state of one or all devices"`
	Watch        WatchCmd        `cmd:"" help:"Live advertisement status view"`
	Auth         AuthCmd         `cmd:"" help:"Pair with a device to mint an auth key"`
	Switch       SwitchCmd       `cmd:"" help:"Switch a device on or off"`
	Toggle       ToggleCmd       `cmd:"" help:"Toggle a device"`
	BatteryLevel BatteryLevelCmd `cmd:"" name:"battery-level" help:"Read battery percentage"`
	Debug        DebugCmd        `cmd:"" help:"Dump all services, characteristics and raw values"`
	Keys         KeysCmd         `cmd:"" help:"Manage stored auth keys"`
}

func (g *CLI) setup() ble.Transport {
	config.Verbose = g.Verbose
	return ble.SystemTransport()
}

func (g *CLI) openKeystore() (*keystore.Store, error) {
	if g.Keystore != "" {
		return keystore.Open(g.Keystore)
	}
	return keystore.OpenDefault()
}

// resolveKey picks the key for an authenticated operation: an explicit
// flag value wins, then a stored key for the address, then the "no auth"
// sentinel.
func (g *CLI) resolveKey(flag string, addr device.Address) (device.AuthKey, error) {
	if flag != "" {
		return device.ParseKey(flag)
	}
	store, err := g.openKeystore()
	if err != nil {
		return device.NoAuth, err
	}
	key, ok, err := store.Get(addr)
	if err != nil {
		return device.NoAuth, err
	}
	if ok {
		config.Debugf("Using stored auth key for %s", addr)
		return key, nil
	}
	return device.NoAuth, nil
}

// --- Scan / Status / Watch ---

type ScanCmd struct {
	Duration time.Duration `help:"Scan duration" default:"10s"`
}

func (c *ScanCmd) Run(globals *CLI, ctx context.Context) error {
	t := globals.setup()
	return commands.Scan(ctx, t, c.Duration)
}

type StatusCmd struct {
	Address  string        `arg:"" optional:"" help:"Device address (omit to scan for all)"`
	Duration time.Duration `help:"Discovery scan duration" default:"10s"`
}

func (c *StatusCmd) Run(globals *CLI, ctx context.Context) error {
	t := globals.setup()
	var addr device.Address
	if c.Address != "" {
		var err error
		addr, err = device.ParseAddress(c.Address)
		if err != nil {
			return err
		}
	}
	return commands.Status(ctx, t, addr, c.Duration, globals.Timeout)
}

type WatchCmd struct {
	Duration time.Duration `help:"Watch duration" default:"30s"`
}

func (c *WatchCmd) Run(globals *CLI, ctx context.Context) error {
	t := globals.setup()
	return tui.Run(ctx, t, c.Duration)
}

// --- Auth ---

type AuthCmd struct {
	Address string        `arg:"" help:"Device address"`
	Wait    time.Duration `help:"How long to wait for the button press" default:"60s"`
	NoSave  bool          `help:"Do not store the minted key in the keystore"`
}

func (c *AuthCmd) Run(globals *CLI, ctx context.Context) error {
	t := globals.setup()
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}

	key, err := commands.Auth(ctx, t, addr, globals.Timeout, c.Wait)
	if err != nil {
		return err
	}

	if c.NoSave {
		return nil
	}
	store, err := globals.openKeystore()
	if err != nil {
		return err
	}
	if err := store.Set(addr, key); err != nil {
		return err
	}
	fmt.Printf("Saved key for %s\n", addr)
	return nil
}

// --- Switch / Toggle ---

type SwitchCmd struct {
	Address string `arg:"" help:"Device address"`
	State   string `arg:"" enum:"on,off" help:"Target state"`
	Key     string `help:"Auth key: 8 hex digits, or 'none' to force unauthenticated"`
}

func (c *SwitchCmd) Run(globals *CLI) error {
	t := globals.setup()
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	key, err := globals.resolveKey(c.Key, addr)
	if err != nil {
		return err
	}

	target := device.StateOff
	if c.State == "on" {
		target = device.StateOn
	}
	return commands.Switch(t, addr, key, target, globals.Timeout)
}

type ToggleCmd struct {
	Address string `arg:"" help:"Device address"`
	Key     string `help:"Auth key: 8 hex digits, or 'none' to force unauthenticated"`
}

func (c *ToggleCmd) Run(globals *CLI) error {
	t := globals.setup()
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	key, err := globals.resolveKey(c.Key, addr)
	if err != nil {
		return err
	}
	return commands.Toggle(t, addr, key, globals.Timeout)
}

// --- Battery / Debug ---

type BatteryLevelCmd struct {
	Address string `arg:"" help:"Device address"`
}

func (c *BatteryLevelCmd) Run(globals *CLI) error {
	t := globals.setup()
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	return commands.Battery(t, addr, globals.Timeout)
}

type DebugCmd struct {
	Address string `arg:"" help:"Device address"`
}

func (c *DebugCmd) Run(globals *CLI) error {
	t := globals.setup()
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	return commands.Debug(t, addr, globals.Timeout)
}

// --- Keys ---

type KeysCmd struct {
	List KeysListCmd `cmd:"" help:"List stored keys"`
	Set  KeysSetCmd  `cmd:"" help:"Store a key for a device"`
	Rm   KeysRmCmd   `cmd:"" help:"Remove a stored key"`
}

type KeysListCmd struct{}

func (c *KeysListCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	store, err := globals.openKeystore()
	if err != nil {
		return err
	}
	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No stored keys.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.Address, e.Key)
	}
	return nil
}

type KeysSetCmd struct {
	Address string `arg:"" help:"Device address"`
	Key     string `arg:"" help:"Auth key (8 hex digits)"`
}

func (c *KeysSetCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	key, err := device.ParseKey(c.Key)
	if err != nil {
		return err
	}
	if !key.Present() {
		return fmt.Errorf("%w: refusing to store the %q sentinel", device.ErrInvalidKey, device.KeySentinel)
	}
	store, err := globals.openKeystore()
	if err != nil {
		return err
	}
	return store.Set(addr, key)
}

type KeysRmCmd struct {
	Address string `arg:"" help:"Device address"`
}

func (c *KeysRmCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	addr, err := device.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	store, err := globals.openKeystore()
	if err != nil {
		return err
	}
	removed, err := store.Delete(addr)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No stored key for %s\n", addr)
	}
	return nil
}
