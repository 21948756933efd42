package vfs

import "strings"

// Root is the absolute path of the top-level directory.
const Root = "/"

// Normalize collapses repeated separators, ensures exactly one leading
// separator and strips a trailing separator unless the path is Root.
// It does not interpret "." or ".." segments.
func Normalize(p string) string {
	var sb strings.Builder
	sb.Grow(len(p) + 1)
	sb.WriteByte('/')
	prevSep := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSep {
				continue
			}
			prevSep = true
		} else {
			prevSep = false
		}
		sb.WriteByte(c)
	}
	out := sb.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// IsAbs reports whether p starts at Root.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Join resolves target against dir: absolute targets pass through, relative
// ones are appended to dir with one separator. The result is normalized.
// Unlike Resolve it gives no special meaning to "~", "." or "..".
func Join(dir, target string) string {
	if IsAbs(target) {
		return Normalize(target)
	}
	return Normalize(dir + "/" + target)
}

// Parent returns the directory containing p. The parent of Root is Root.
func Parent(p string) string {
	p = Normalize(p)
	idx := strings.LastIndexByte(p, '/')
	if idx <= 0 {
		return Root
	}
	return p[:idx]
}

// Base returns the last element of p, or "/" for Root.
func Base(p string) string {
	p = Normalize(p)
	if p == Root {
		return Root
	}
	return p[strings.LastIndexByte(p, '/')+1:]
}

// Resolve maps a navigation target to an absolute path relative to cwd.
//
//	"", "~", "/"  -> Root
//	".."          -> parent of cwd (atRoot is set when cwd is already Root)
//	"."           -> cwd
//	"/abs"        -> used as-is
//	"rel"         -> cwd + "/" + rel
//
// The result is always normalized. Resolve performs no existence check.
func Resolve(cwd, target string) (path string, atRoot bool) {
	switch target {
	case "", "~", "/":
		return Root, false
	case "..":
		cur := Normalize(cwd)
		if cur == Root {
			return Root, true
		}
		return Parent(cur), false
	case ".":
		return Normalize(cwd), false
	}
	return Join(cwd, target), false
}
