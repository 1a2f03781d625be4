package acs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const scriptExt = ".tengo"

// module is one compiled script. Files named by a number also answer to
// that number written any other way, so "7" finds 007.tengo.
type module struct {
	name     string
	id       int // -1 unless the name is numeric
	compiled *tengo.Compiled
}

// Load compiles src as the script called name, replacing any earlier
// version. Running threads keep the version they started with.
func (e *Environment) Load(name string, src []byte) error {
	script := tengo.NewScript(src)
	for _, global := range []string{"engine", "args", "string_args", "state"} {
		if err := script.Add(global, tengo.UndefinedValue); err != nil {
			return fmt.Errorf("acs: script %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "text", "fmt", "rand"))
	if e.cfg.MaxAllocs > 0 {
		script.SetMaxAllocs(e.cfg.MaxAllocs)
	}
	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("acs: compile %s: %w", name, err)
	}
	id := -1
	if n, err := strconv.Atoi(name); err == nil {
		id = n
	}
	e.modules[name] = &module{name: name, id: id, compiled: compiled}
	return nil
}

// LoadDir loads every script file in dir. A script that fails to compile is
// logged and skipped; only an unreadable directory is an error.
func (e *Environment) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("acs: load %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || !isScriptFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			logger.Printf("ACS: %v", err)
			continue
		}
		if err := e.Load(scriptName(path), src); err != nil {
			logger.Printf("ACS: %v", err)
		}
	}
	return nil
}

// Unload forgets a script. Running threads are unaffected.
func (e *Environment) Unload(name string) {
	delete(e.modules, name)
}

// Scripts lists the loaded script names.
func (e *Environment) Scripts() []string {
	names := make([]string, 0, len(e.modules))
	for name := range e.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) lookup(name string) (*module, bool) {
	if m, ok := e.modules[name]; ok {
		return m, true
	}
	id, err := strconv.Atoi(name)
	if err != nil {
		return nil, false
	}
	for _, m := range e.modules {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == scriptExt
}

func scriptName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
