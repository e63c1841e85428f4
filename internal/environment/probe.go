package environment

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joss/opius/internal/logging"
)

var log = logging.New("environment")

// editor binaries in preference order when $EDITOR is unset.
var knownEditors = []string{"code", "nvim", "vim", "emacs", "nano"}

// AI assistant detection: env var markers and CLI binaries.
var aiEnvMarkers = map[string]string{
	"ANTHROPIC_API_KEY": "claude-api",
	"OPENAI_API_KEY":    "openai-api",
	"GEMINI_API_KEY":    "gemini-api",
}

var aiBinaries = []string{"claude", "codex", "aider", "ollama"}

// language runtimes probed via PATH lookup, mapped to canonical names.
var languageProbes = []struct {
	binary string
	name   string
}{
	{"python3", "python"},
	{"python", "python"},
	{"node", "node"},
	{"go", "go"},
	{"rustc", "rust"},
	{"java", "java"},
	{"ruby", "ruby"},
}

// Probe captures a fresh environment snapshot. Every field degrades
// independently: a failed probe logs a warning and falls back to the
// Default() value for that field, never to an error.
func Probe(ctx context.Context, timeout time.Duration) *Profile {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	def := Default()
	p := &Profile{
		CPUCores:   runtime.NumCPU(),
		CapturedAt: time.Now().UTC(),
	}

	p.RAMTotal, p.RAMAvailable = probeMemory(def)
	if ctx.Err() == nil {
		p.DiskFree = probeDisk(def)
	} else {
		p.DiskFree = def.DiskFree
	}
	if ctx.Err() == nil {
		p.ActiveEditor = probeEditor()
	} else {
		p.ActiveEditor = def.ActiveEditor
	}
	if ctx.Err() == nil {
		p.AITools = probeAITools()
	}
	if ctx.Err() == nil {
		p.Languages = probeLanguages()
	}

	log.TimedEvent("probe_complete", start, map[string]any{
		"tier":      string(p.Tier()),
		"cpu_cores": p.CPUCores,
		"languages": len(p.Languages),
	})
	return p
}

func probeMemory(def *Profile) (total, available uint64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		log.Warn("meminfo_unavailable", nil, err)
		return def.RAMTotal, def.RAMAvailable
	}
	defer f.Close()

	total, available = def.RAMTotal, def.RAMAvailable
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
	}
	return total, available
}

func probeDisk(def *Profile) uint64 {
	home, err := os.UserHomeDir()
	if err != nil {
		home = string(filepath.Separator)
	}
	var st syscall.Statfs_t
	if err := syscall.Statfs(home, &st); err != nil {
		log.Warn("statfs_failed", map[string]any{"path": home}, err)
		return def.DiskFree
	}
	return st.Bavail * uint64(st.Bsize)
}

func probeEditor() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(key); v != "" {
			return filepath.Base(strings.Fields(v)[0])
		}
	}
	for _, bin := range knownEditors {
		if _, err := exec.LookPath(bin); err == nil {
			return bin
		}
	}
	return "none"
}

func probeAITools() []string {
	var tools []string
	seen := map[string]bool{}
	for key, name := range aiEnvMarkers {
		if os.Getenv(key) != "" && !seen[name] {
			seen[name] = true
			tools = append(tools, name)
		}
	}
	for _, bin := range aiBinaries {
		if _, err := exec.LookPath(bin); err == nil && !seen[bin] {
			seen[bin] = true
			tools = append(tools, bin)
		}
	}
	// env map iteration order is random; keep output stable.
	sort.Strings(tools)
	return tools
}

func probeLanguages() []string {
	var langs []string
	seen := map[string]bool{}
	for _, probe := range languageProbes {
		if seen[probe.name] {
			continue
		}
		if _, err := exec.LookPath(probe.binary); err == nil {
			seen[probe.name] = true
			langs = append(langs, probe.name)
		}
	}
	return langs
}
