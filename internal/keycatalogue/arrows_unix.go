//go:build !windows

package keycatalogue

// arrowScanCode resolves an arrow key name to its platform scan code. On
// Linux/macOS input backends arrow keys are reported as extended Set 1
// codes, same numbering as the Windows path below but kept as a separate
// translation unit since X11/evdev keysym tables diverge for the rest of
// the navigation cluster in real drivers.
func arrowScanCode(direction string) ScanCode {
	switch direction {
	case "up":
		return extendedPrefix | 0x48
	case "down":
		return extendedPrefix | 0x50
	case "left":
		return extendedPrefix | 0x4B
	case "right":
		return extendedPrefix | 0x4D
	default:
		return 0
	}
}
