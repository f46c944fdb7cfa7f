// internal/asset/store.go
//
// Template ("prefab") asset IO. Templates are YAML files in the assets
// directory; instantiating one produces a live scene object bound back to
// the asset, and Apply pushes a live instance's state into the asset.

package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/prefabworks/prefabedit/internal/scene"
)

// Ext is the file extension used for template assets.
const Ext = ".prefab"

// Template is a reusable, persisted object definition. The stored root
// tree never carries a binding; bindings belong to live instances.
type Template struct {
	GUID string        `yaml:"guid"`
	Name string        `yaml:"name"`
	Root *scene.Object `yaml:"root"`
}

// Info summarizes a template found during a scan.
type Info struct {
	GUID string
	Name string
	Path string
}

// Store manages template assets rooted at one directory.
type Store struct {
	dir string
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for asset timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore builds a store over the given assets directory.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Dir returns the assets directory this store scans.
func (s *Store) Dir() string {
	return s.dir
}

// Scan walks the assets directory and returns every template, sorted by
// path. A missing directory yields an empty result, not an error.
func (s *Store) Scan() ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Ext {
			return nil
		}
		tmpl, loadErr := s.Load(path)
		if loadErr != nil {
			return loadErr
		}
		infos = append(infos, Info{GUID: tmpl.GUID, Name: tmpl.Name, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("asset: scan %s: %w", s.dir, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// Load reads one template asset.
func (s *Store) Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("asset: parse %s: %w", path, err)
	}
	if strings.TrimSpace(tmpl.GUID) == "" {
		return nil, fmt.Errorf("asset: %s has no guid", path)
	}
	return &tmpl, nil
}

// Save writes the template to path, creating parent directories.
func (s *Store) Save(tmpl *Template, path string) error {
	if tmpl == nil {
		return fmt.Errorf("asset: nil template")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("asset: ensure dir for %s: %w", path, err)
	}
	data, err := yaml.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("asset: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("asset: write %s: %w", path, err)
	}
	return nil
}

// Create makes a new template with a fresh GUID and an empty root, writes
// it under the assets directory, and returns its info.
func (s *Store) Create(name string) (Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Info{}, fmt.Errorf("asset: template name is required")
	}
	tmpl := &Template{
		GUID: uuid.NewString(),
		Name: name,
		Root: &scene.Object{ID: scene.NewObjectID(), Name: name},
	}
	path := filepath.Join(s.dir, slugify(name)+Ext)
	if _, err := os.Stat(path); err == nil {
		return Info{}, fmt.Errorf("asset: %s already exists", path)
	}
	if err := s.Save(tmpl, path); err != nil {
		return Info{}, err
	}
	return Info{GUID: tmpl.GUID, Name: tmpl.Name, Path: path}, nil
}

// Instantiate spawns a live object from the template at path. The copy
// gets fresh object IDs and a root binding back to the asset, so it stays
// a trackable live instance.
func (s *Store) Instantiate(path string) (*scene.Object, error) {
	tmpl, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	if tmpl.Root == nil {
		return nil, fmt.Errorf("asset: %s has no root object", path)
	}
	inst := tmpl.Root.Clone()
	inst.Reidentify()
	if strings.TrimSpace(inst.Name) == "" {
		inst.Name = tmpl.Name
	}
	inst.Binding = &scene.Binding{TemplateGUID: tmpl.GUID, TemplatePath: path}
	return inst, nil
}

// Apply overwrites the bound template's persisted definition with the
// live instance's current state. The instance keeps its binding, so it
// remains a live instance rather than a disconnected copy.
func (s *Store) Apply(root *scene.Object) error {
	if root == nil || root.Binding == nil {
		return fmt.Errorf("asset: object is not a template instance")
	}
	path := root.Binding.TemplatePath
	tmpl, err := s.Load(path)
	if err != nil {
		return fmt.Errorf("asset: apply: %w", err)
	}
	if tmpl.GUID != root.Binding.TemplateGUID {
		return fmt.Errorf("asset: apply: %s guid mismatch (have %s, instance bound to %s)",
			path, tmpl.GUID, root.Binding.TemplateGUID)
	}
	updated := root.Clone()
	updated.Binding = nil
	tmpl.Root = updated
	if name := strings.TrimSpace(updated.Name); name != "" {
		tmpl.Name = name
	}
	return s.Save(tmpl, path)
}

func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "-", "_", "-", "/", "-")
	return replacer.Replace(lower)
}
