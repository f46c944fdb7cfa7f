package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prefabworks/prefabedit/internal/asset"
	"github.com/prefabworks/prefabedit/internal/hooks"
	"github.com/prefabworks/prefabedit/internal/logbook"
	"github.com/prefabworks/prefabedit/internal/savehook"
	"github.com/prefabworks/prefabedit/internal/scene"
)

var syncCmd = &cobra.Command{
	Use:   "sync [scene]",
	Short: "Push a scene's template edits back into their templates",
	Long: `sync runs the before-save pipeline headlessly against a scene file
(the scratch scene when no argument is given): every top-level object
bound to a template has its state pushed back into that template, then
the scene is re-saved. Useful after a crash left the scratch scene
ahead of its templates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		book, err := logbook.New(filepath.Join(cfg.LogsDir(), "sync.log"))
		if err != nil {
			return err
		}

		target := cfg.ScratchScenePath
		if len(args) == 1 {
			target = args[0]
		}
		ws, err := scene.Load(target)
		if err != nil {
			return fmt.Errorf("open scene %s: %w", target, err)
		}
		host := &headlessHost{
			workspace: ws,
			store:     asset.NewStore(cfg.AssetsDir()),
		}

		// The target scene is the "active workspace" of this headless run,
		// so the interceptor is keyed to it rather than to the editor's
		// scratch location.
		pipe := savehook.NewPipeline(savehook.WithLogger(book))
		pipe.Register("template-sync",
			savehook.NewInterceptor(target, host, book).OnBeforeSave)
		if err := hooks.RegisterAll(pipe, cfg.HooksDir()); err != nil {
			return fmt.Errorf("load user hooks: %w", err)
		}

		synced := len(ws.BoundRoots())
		final := pipe.Run([]string{ws.Path()})
		for _, path := range final {
			if path == ws.Path() {
				if err := ws.Save(); err != nil {
					return fmt.Errorf("save scratch scene: %w", err)
				}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d bound object(s) from %s\n", synced, ws.Path())
		return nil
	},
}

// headlessHost adapts a loaded scene to the interceptor's host surface
// for pipeline runs outside the TUI.
type headlessHost struct {
	workspace *scene.Workspace
	store     *asset.Store
}

func (h *headlessHost) ActiveWorkspacePath() string { return h.workspace.Path() }

func (h *headlessHost) RootObjects() []*scene.Object { return h.workspace.Roots }

func (h *headlessHost) ApplyToTemplate(root *scene.Object) error { return h.store.Apply(root) }

var _ savehook.SyncHost = (*headlessHost)(nil)
