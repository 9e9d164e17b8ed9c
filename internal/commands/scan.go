// Package commands implements one function per CLI operation. Each
// opens its own GATT session (or scan window), performs the operation,
// and prints the observed result. Devices are always operated on
// sequentially: hosts commonly allow a single active BLE connection.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
)

// Scan discovers nearby Switchmate devices and prints their addresses.
func Scan(ctx context.Context, t ble.Transport, duration time.Duration) error {
	fmt.Println("Scanning...")

	scanner := ble.NewScanner(t)
	addrs, err := scanner.Scan(ctx, duration, "")
	if err != nil {
		return err
	}

	if len(addrs) == 0 {
		fmt.Println("No Switchmate devices found")
		return nil
	}

	fmt.Println("Found Switchmates:")
	for _, addr := range addrs {
		fmt.Println(addr)
	}
	return nil
}
