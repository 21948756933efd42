// Package sysinfo builds environment snapshots for the neofetch command,
// either from attributes reported by a browser or from the local terminal.
package sysinfo

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/safwanadnan/termfolio"
)

// MobileMaxWidth is the widest viewport still reported as a mobile device.
const MobileMaxWidth = 768

const (
	unknownOS      = "Unknown OS"
	unknownBrowser = "Unknown Browser"
)

var (
	chromeVersion  = regexp.MustCompile(`Chrome/(\d+\.\d+)`)
	firefoxVersion = regexp.MustCompile(`Firefox/(\d+\.\d+)`)
	safariVersion  = regexp.MustCompile(`Version/(\d+\.\d+)`)
	edgeVersion    = regexp.MustCompile(`Edg/(\d+\.\d+)`)
	operaVersion   = regexp.MustCompile(`OPR/(\d+\.\d+)`)
	iosDevice      = regexp.MustCompile(`iPad|iPhone|iPod`)
)

// ParseUserAgent extracts the operating system, browser and browser
// version from a User-Agent header.
func ParseUserAgent(ua string) (osName, browser, version string) {
	switch {
	case strings.Contains(ua, "Android"):
		osName = "Android"
	case iosDevice.MatchString(ua) || strings.Contains(ua, "iOS"):
		osName = "iOS"
	case strings.Contains(ua, "Win"):
		osName = "Windows"
	case strings.Contains(ua, "Mac"):
		osName = "MacOS"
	case strings.Contains(ua, "Linux"):
		osName = "Linux"
	default:
		osName = unknownOS
	}

	var re *regexp.Regexp
	switch {
	case strings.Contains(ua, "Edg"):
		browser, re = "Edge", edgeVersion
	case strings.Contains(ua, "OPR"):
		browser, re = "Opera", operaVersion
	case strings.Contains(ua, "Chrome"):
		browser, re = "Chrome", chromeVersion
	case strings.Contains(ua, "Firefox"):
		browser, re = "Firefox", firefoxVersion
	case strings.Contains(ua, "Safari"):
		browser, re = "Safari", safariVersion
	default:
		return osName, unknownBrowser, ""
	}
	if m := re.FindStringSubmatch(ua); m != nil {
		version = m[1]
	}
	return osName, browser, version
}

// FormatUptime renders d as "1h 2m 3s", "2m 3s" or "3s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, seconds%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FromClient builds a snapshot from browser-reported attributes. uptime is
// the session age.
func FromClient(info termfolio.ClientInfo, uptime time.Duration) termfolio.Environment {
	osName, browser, version := ParseUserAgent(info.UserAgent)
	env := termfolio.Environment{
		OS:             osName,
		Browser:        browser,
		BrowserVersion: version,
		Resolution:     fmt.Sprintf("%dx%d", info.ScreenWidth, info.ScreenHeight),
		ColorDepth:     fmt.Sprintf("%d-bit", info.ColorDepth),
		CPUThreads:     max(info.CPUThreads, 1),
		Language:       orDefault(info.Language, "en-US"),
		TimeZone:       orDefault(info.TimeZone, "Unknown"),
		DeviceType:     "Desktop",
		DarkMode:       info.DarkMode,
		Uptime:         FormatUptime(uptime),
	}
	if info.ViewWidth > 0 && info.ViewWidth <= MobileMaxWidth {
		env.DeviceType = "Mobile"
	}
	if info.HeapLimitMB > 0 {
		env.Memory = fmt.Sprintf("%dMB / %dMB", info.HeapUsedMB, info.HeapLimitMB)
	}
	env.Logo = Logo(env.OS)
	return env
}

// Local builds a snapshot of the local process and terminal.
func Local(fd int, uptime time.Duration) termfolio.Environment {
	env := termfolio.Environment{
		OS:         localOS(),
		Browser:    orDefault(os.Getenv("TERM_PROGRAM"), "Terminal"),
		Resolution: "0x0",
		ColorDepth: "8-bit",
		CPUThreads: runtime.NumCPU(),
		Language:   localLanguage(),
		TimeZone:   localTimeZone(),
		DeviceType: "Desktop",
		DarkMode:   true,
		Uptime:     FormatUptime(uptime),
	}
	env.BrowserVersion = os.Getenv("TERM_PROGRAM_VERSION")
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			env.Resolution = fmt.Sprintf("%dx%d", w, h)
		}
	}
	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		env.ColorDepth = "24-bit"
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	env.Memory = fmt.Sprintf("%dMB / %dMB", ms.HeapAlloc>>20, ms.Sys>>20)
	env.Logo = Logo(env.OS)
	return env
}

func localOS() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "MacOS"
	case "linux":
		return "Linux"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return unknownOS
}

func localLanguage() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}

func localTimeZone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	name, _ := time.Now().Zone()
	return name
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Source captures snapshots for one session.
type Source struct {
	started time.Time
	client  *termfolio.ClientInfo
	fd      int
	now     func() time.Time
}

// NewClientSource returns a source describing a browser client.
func NewClientSource(info termfolio.ClientInfo, started time.Time) *Source {
	return &Source{started: started, client: &info, now: time.Now}
}

// NewLocalSource returns a source describing the terminal on fd.
func NewLocalSource(fd int, started time.Time) *Source {
	return &Source{started: started, fd: fd, now: time.Now}
}

// Capture returns the current snapshot.
func (s *Source) Capture() termfolio.Environment {
	uptime := s.now().Sub(s.started)
	if s.client != nil {
		return FromClient(*s.client, uptime)
	}
	return Local(s.fd, uptime)
}
