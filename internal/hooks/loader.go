// internal/hooks/loader.go
//
// User-extensible before-save hooks. Every .go file in the hooks
// directory is interpreted and must define
//
//	BeforeSave(paths []string) []string
//
// Loaded hooks run after the built-in template sync, in path order.

package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/prefabworks/prefabedit/internal/savehook"
)

const hookFuncName = "BeforeSave"

// File pairs a loaded hook with the script it came from.
type File struct {
	Name string
	Hook savehook.Hook
}

// LoadDir evaluates every .go file in dir and collects the hooks they
// declare. A missing directory yields no hooks; a broken script is an
// error so misconfigured hooks surface at startup rather than at save
// time.
func LoadDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("hooks: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		path := filepath.Join(trimmed, entry.Name())
		hook, err := loadHookFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: entry.Name(), Hook: hook})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// RegisterAll loads the hooks directory and registers every hook into the
// pipeline in order.
func RegisterAll(pipe *savehook.Pipeline, dir string) error {
	files, err := LoadDir(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		pipe.Register("hooks/"+file.Name, file.Hook)
	}
	return nil
}

func loadHookFile(path string) (savehook.Hook, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hooks: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("hooks: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("hooks: stdlib symbols for %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("hooks: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(hookFuncName)
	if err != nil {
		return nil, fmt.Errorf("hooks: %s must define %s(paths []string) []string: %w", path, hookFuncName, err)
	}
	if fn, ok := fnValue.Interface().(func([]string) []string); ok {
		return savehook.Hook(fn), nil
	}
	hook, err := wrapReflected(fnValue)
	if err != nil {
		return nil, fmt.Errorf("hooks: %s: %w", path, err)
	}
	return hook, nil
}

func wrapReflected(value reflect.Value) (savehook.Hook, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", hookFuncName)
	}
	t := value.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 {
		return nil, fmt.Errorf("%s must take and return one []string", hookFuncName)
	}
	return func(paths []string) []string {
		results := value.Call([]reflect.Value{reflect.ValueOf(paths)})
		out, ok := results[0].Interface().([]string)
		if !ok {
			return nil
		}
		return out
	}, nil
}
