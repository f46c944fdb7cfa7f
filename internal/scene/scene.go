// internal/scene/scene.go
//
// Defines the workspace ("scene") file model. A scene is a YAML document
// holding a tree of objects; instantiation roots carry a Binding back to
// the template asset they were spawned from.

package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Ext is the file extension used for workspace files.
const Ext = ".scene"

// ErrNotFound is returned by Load when the scene file does not exist.
var ErrNotFound = errors.New("scene: not found")

// Binding ties an instantiation root back to its source template.
// Nested children never carry a Binding.
type Binding struct {
	TemplateGUID string `yaml:"template_guid"`
	TemplatePath string `yaml:"template_path"`
}

// Object is one node in a workspace hierarchy.
type Object struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Properties map[string]string `yaml:"properties,omitempty"`
	Binding    *Binding          `yaml:"binding,omitempty"`
	Children   []*Object         `yaml:"children,omitempty"`
}

// Clone returns a deep copy of the object subtree.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	copy := &Object{ID: o.ID, Name: o.Name}
	if o.Binding != nil {
		b := *o.Binding
		copy.Binding = &b
	}
	if len(o.Properties) > 0 {
		copy.Properties = make(map[string]string, len(o.Properties))
		for k, v := range o.Properties {
			copy.Properties[k] = v
		}
	}
	for _, child := range o.Children {
		copy.Children = append(copy.Children, child.Clone())
	}
	return copy
}

// Reidentify assigns fresh IDs to the subtree. Used when instantiating a
// template so two instances never share object identity.
func (o *Object) Reidentify() {
	if o == nil {
		return
	}
	o.ID = NewObjectID()
	for _, child := range o.Children {
		child.Reidentify()
	}
}

// NewObjectID returns a unique object identifier.
func NewObjectID() string {
	return uuid.NewString()
}

// Workspace models one saveable scene file.
type Workspace struct {
	Label string    `yaml:"label"`
	Roots []*Object `yaml:"roots"`

	path  string
	dirty bool
}

// New creates an empty in-memory workspace bound to path.
func New(path, label string) *Workspace {
	return &Workspace{Label: label, path: path}
}

// Load reads a scene file. It fails with ErrNotFound when the file is
// absent so callers can fall back to creating a fresh workspace.
func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	ws.path = path
	return &ws, nil
}

// Path returns the storage location the workspace saves to.
func (w *Workspace) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Save persists the workspace to its path, creating parent directories.
func (w *Workspace) Save() error {
	if w == nil || w.path == "" {
		return fmt.Errorf("scene: workspace has no path")
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("scene: ensure dir for %s: %w", w.path, err)
	}
	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("scene: encode %s: %w", w.path, err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("scene: write %s: %w", w.path, err)
	}
	w.dirty = false
	return nil
}

// Dirty reports whether the workspace has unsaved changes.
func (w *Workspace) Dirty() bool {
	return w != nil && w.dirty
}

// MarkDirty flags the workspace as having unsaved changes.
func (w *Workspace) MarkDirty() {
	if w != nil {
		w.dirty = true
	}
}

// Clear removes every top-level object. Safe to call on an already empty
// workspace; leftovers from a previous session are simply dropped.
func (w *Workspace) Clear() {
	if w == nil || len(w.Roots) == 0 {
		return
	}
	w.Roots = nil
	w.dirty = true
}

// AddRoot appends a top-level object.
func (w *Workspace) AddRoot(obj *Object) {
	if w == nil || obj == nil {
		return
	}
	w.Roots = append(w.Roots, obj)
	w.dirty = true
}

// Find locates an object anywhere in the hierarchy by ID.
func (w *Workspace) Find(id string) *Object {
	if w == nil || id == "" {
		return nil
	}
	for _, root := range w.Roots {
		if found := findIn(root, id); found != nil {
			return found
		}
	}
	return nil
}

func findIn(obj *Object, id string) *Object {
	if obj == nil {
		return nil
	}
	if obj.ID == id {
		return obj
	}
	for _, child := range obj.Children {
		if found := findIn(child, id); found != nil {
			return found
		}
	}
	return nil
}

// Destroy removes the object with the given ID (and its subtree) from
// wherever it sits in the hierarchy. Returns false when the ID is unknown.
func (w *Workspace) Destroy(id string) bool {
	if w == nil || id == "" {
		return false
	}
	for i, root := range w.Roots {
		if root.ID == id {
			w.Roots = append(w.Roots[:i], w.Roots[i+1:]...)
			w.dirty = true
			return true
		}
		if destroyIn(root, id) {
			w.dirty = true
			return true
		}
	}
	return false
}

func destroyIn(parent *Object, id string) bool {
	for i, child := range parent.Children {
		if child.ID == id {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return true
		}
		if destroyIn(child, id) {
			return true
		}
	}
	return false
}

// InstantiationRoot walks up from the object with the given ID to the
// top-level ancestor and returns it if that ancestor is bound to a
// template. Nested parts of an instance resolve to the same root.
func (w *Workspace) InstantiationRoot(id string) (*Object, bool) {
	if w == nil || id == "" {
		return nil, false
	}
	for _, root := range w.Roots {
		if findIn(root, id) != nil {
			if root.Binding != nil {
				return root, true
			}
			return nil, false
		}
	}
	return nil, false
}

// BoundRoots returns every top-level object carrying a template binding,
// in scene order.
func (w *Workspace) BoundRoots() []*Object {
	if w == nil {
		return nil
	}
	var bound []*Object
	for _, root := range w.Roots {
		if root.Binding != nil {
			bound = append(bound, root)
		}
	}
	return bound
}
