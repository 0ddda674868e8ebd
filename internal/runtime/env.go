package runtime

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/dashlaunch/internal/platform"
)

// SetEnv sets or replaces an environment variable in the env slice.
func SetEnv(env []string, key, value string) []string {
	for i, e := range env {
		if envKeyMatches(e, key) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// UnsetEnv removes every entry for key from the env slice.
func UnsetEnv(env []string, key string) []string {
	out := make([]string, 0, len(env))
	for _, e := range env {
		if !envKeyMatches(e, key) {
			out = append(out, e)
		}
	}
	return out
}

// LookupEnv returns the value for key in the env slice. The last entry wins,
// matching how the operating system resolves duplicates.
func LookupEnv(env []string, key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, e := range env {
		if envKeyMatches(e, key) {
			value = e[len(key)+1:]
			found = true
		}
	}
	return value, found
}

// PrependPath returns env with dir placed first on PATH.
func PrependPath(env []string, dir string) []string {
	current, ok := LookupEnv(env, "PATH")
	if !ok || current == "" {
		return SetEnv(env, pathKey(env), dir)
	}
	return SetEnv(env, pathKey(env), dir+string(os.PathListSeparator)+current)
}

// MergeEnv overlays the entries of extra onto env.
func MergeEnv(env []string, extra map[string]string) []string {
	for k, v := range extra {
		env = SetEnv(env, k, v)
	}
	return env
}

// envKeyMatches compares environment keys, case-insensitively on Windows.
func envKeyMatches(entry, key string) bool {
	if len(entry) <= len(key) || entry[len(key)] != '=' {
		return false
	}
	if platform.IsWindows() {
		return strings.EqualFold(entry[:len(key)], key)
	}
	return entry[:len(key)] == key
}

// pathKey returns the spelling of PATH already present in env ("Path" is
// common on Windows), defaulting to "PATH".
func pathKey(env []string) string {
	for _, e := range env {
		k, _, ok := strings.Cut(e, "=")
		if ok && strings.EqualFold(k, "PATH") && (platform.IsWindows() || k == "PATH") {
			return k
		}
	}
	return "PATH"
}

func splitPathList(path string) []string {
	return filepath.SplitList(path)
}

func joinExecutable(dir, name string) string {
	return filepath.Join(dir, platform.Executable(name))
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if platform.IsWindows() {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
