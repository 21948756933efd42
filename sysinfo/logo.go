package sysinfo

// Logo returns the ASCII logo for an operating system name.
func Logo(osName string) string {
	switch osName {
	case "Windows":
		return `
█▀▀▀▀▀▀▀▀▀█
█  ░▒   ░▒█  Windows
█░▒    ░▒ █  --------
█▒   ░▒   █
█▄▄▄▄▄▄▄▄▄█
`
	case "MacOS":
		return `
  ▄▄▄▄▄▄▄
▄█████████▄  MacOS
████████████ ------
████████████
▀██████████▀
  ▀▀▀▀▀▀▀
`
	case "Linux":
		return `
    .-.
   /   \    Linux
  |  o  |   -----
   \___/
`
	case "Android":
		return `
  ╲▁▁▁╱
 ┌─┐ ┌─┐   Android
 │ └─┘ │   -------
 └─────┘
`
	case "iOS":
		return `
  ▄▄▄▄▄
 ██   ██   iOS
 ██ ⌂ ██   ---
 ██   ██
  ▀▀▀▀▀
`
	default:
		return `
  ▄▄▄▄▄
 █     █   System
 █  ▄  █   ------
 █     █
  ▀▀▀▀▀
`
	}
}
