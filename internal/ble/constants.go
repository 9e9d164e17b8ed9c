package ble

const (
	// SwitchmateServiceUUID is the Switchmate control service UUID,
	// advertised by every Switchmate switch.
	SwitchmateServiceUUID = "23D1BCEA-5F78-2315-DEEF-121223150000"

	// StatusCharUUID holds the current switch state (read, 1 byte)
	StatusCharUUID = "23D1BCEB-5F78-2315-DEEF-121223150000"

	// SwitchCharUUID is the switch command target (write, 1 byte;
	// 6-byte signed command on legacy firmware)
	SwitchCharUUID = "23D1BCEC-5F78-2315-DEEF-121223150000"

	// AuthTriggerCharUUID starts the pairing exchange (write)
	AuthTriggerCharUUID = "23D1BCEE-5F78-2315-DEEF-121223150000"

	// AuthNotifyCharUUID delivers the minted auth key (notify)
	AuthNotifyCharUUID = "23D1BCEF-5F78-2315-DEEF-121223150000"

	// AuthVerifyCharUUID verifies a key before authenticated writes
	// (write 4-byte key, read 1-byte ack). Absent on legacy firmware.
	AuthVerifyCharUUID = "23D1BCF0-5F78-2315-DEEF-121223150000"

	// BatteryServiceUUID is the standard Battery service
	BatteryServiceUUID = "0000180F-0000-1000-8000-00805F9B34FB"

	// BatteryLevelCharUUID is the standard Battery Level characteristic
	BatteryLevelCharUUID = "00002A19-0000-1000-8000-00805F9B34FB"
)
