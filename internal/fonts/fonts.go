package fonts

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/capkit/capkit/internal/logging"
)

// fc-query loses Bold/Italic information for these names, but fontconfig
// resolves them as aliases, so they go into the ASS file as-is.
var fontconfigAliasNames = map[string]bool{
	"arialbd": true,
	"ariali":  true,
	"arialbi": true,
}

const queryTimeout = 2 * time.Second

// Catalog is the process-wide font catalog: fontconfig families plus the
// filenames (extension stripped) of fonts in a custom directory. It is
// populated lazily, once, and read-only afterwards; Invalidate forces a
// re-scan on next use. Staleness after runtime font changes is tolerated.
type Catalog struct {
	fontsDir string
	log      *logging.Logger

	mu           sync.Mutex
	loaded       bool
	names        []string
	familyByFile map[string]string
}

func NewCatalog(fontsDir string, log *logging.Logger) *Catalog {
	if log == nil {
		log = logging.NewNop()
	}
	return &Catalog{fontsDir: fontsDir, log: log}
}

// Invalidate drops the cached scan so the next query repopulates it.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.names = nil
	c.familyByFile = nil
}

// AvailableFonts returns every accepted font family name: system families
// from fc-list plus custom-directory filenames without extension.
func (c *Catalog) AvailableFonts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.populateLocked()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ResolveASSFamily maps an accepted font name to the family name usable in
// an ASS style line. Custom fonts resolve through their fc-query family;
// everything else passes through with any comma-separated tail dropped
// (ASS uses comma as a field separator).
func (c *Catalog) ResolveASSFamily(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.populateLocked()

	lower := strings.ToLower(name)
	for file, family := range c.familyByFile {
		if strings.ToLower(file) == lower {
			if first := firstFamily(family); first != "" {
				return first
			}
			return name
		}
	}

	if first := firstFamily(name); first != "" {
		return first
	}
	return name
}

func firstFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	return strings.TrimSpace(first)
}

func (c *Catalog) populateLocked() {
	if c.loaded {
		return
	}

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, family := range c.systemFamilies() {
		for _, part := range strings.Split(family, ",") {
			add(part)
		}
	}

	familyByFile := make(map[string]string)
	for _, file := range c.customFontFiles() {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		add(base)
		if fontconfigAliasNames[strings.ToLower(base)] {
			continue
		}
		if family := c.queryFamily(file); family != "" {
			familyByFile[base] = family
		}
	}

	// fontconfig aliases these onto Arial variants when Arial is present
	hasArial := false
	for name := range seen {
		if strings.EqualFold(name, "arial") {
			hasArial = true
			break
		}
	}
	if hasArial {
		add("ARIALBD")
		add("ARIALI")
		add("ARIALBI")
	}

	c.names = names
	c.familyByFile = familyByFile
	c.loaded = true
	c.log.Debugw("font catalog populated",
		"names", len(names),
		"custom_mappings", len(familyByFile),
	)
}

// systemFamilies shells out to fc-list. A missing or failing tool means
// "no extra fonts found", never a fatal error.
func (c *Catalog) systemFamilies() []string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "fc-list", ":", "family").Output()
	if err != nil {
		c.log.Debugw("fc-list unavailable, using custom fonts only", "error", err)
		return nil
	}

	var families []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			families = append(families, line)
		}
	}
	return families
}

func (c *Catalog) customFontFiles() []string {
	if c.fontsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.fontsDir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		files = append(files, filepath.Join(c.fontsDir, entry.Name()))
	}
	return files
}

func (c *Catalog) queryFamily(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(
		ctx, "fc-query", "--format=%{family}\n", path,
	).Output()
	if err != nil {
		return ""
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return firstFamily(line)
}
