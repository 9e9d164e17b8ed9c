package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
	"github.com/vitaminmoo/switchmate-tool/internal/util"
)

// Debug enumerates every discoverable service and characteristic with
// its raw value. Diagnostic only: read failures are shown inline and
// never fail the command.
func Debug(t ble.Transport, addr device.Address, timeout time.Duration) error {
	if err := t.Enable(); err != nil {
		return err
	}

	session, err := ble.Open(t, addr, timeout)
	if err != nil {
		return err
	}
	defer session.Close()

	refs := session.Characteristics()
	fmt.Printf("Discovered %d characteristics on %s:\n\n", len(refs), addr)

	lastService := ""
	for _, ref := range refs {
		if !strings.EqualFold(ref.ServiceUUID, lastService) {
			lastService = ref.ServiceUUID
			fmt.Printf("Service %s\n", strings.ToLower(ref.ServiceUUID))
		}
		value, err := ref.Char.Read()
		if err != nil {
			fmt.Printf("  %s  (read failed: %v)\n", strings.ToLower(ref.UUID), err)
			continue
		}
		fmt.Printf("  %s  %s\n", strings.ToLower(ref.UUID), util.FormatValue(value))
	}
	return nil
}
