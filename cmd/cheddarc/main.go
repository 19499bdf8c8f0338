// Command cheddarc is the Cheddar pipeline compiler CLI: it resolves a
// module's dependency graph, classifies its declarations, lowers the
// result into GLSL stage sources, and writes them to disk.
package main

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gitter-badger/spectra/pkg/ast"
	"github.com/gitter-badger/spectra/pkg/compile"
	"github.com/gitter-badger/spectra/pkg/config"
	"github.com/gitter-badger/spectra/pkg/lower"
	"github.com/gitter-badger/spectra/pkg/sourcemap"
	"github.com/gitter-badger/spectra/pkg/store"
	"github.com/gitter-badger/spectra/pkg/ui"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "cheddarc",
		Short:   "Cheddar pipeline compiler",
		Version: version,
	}

	rootCmd.AddCommand(buildCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "build <module>...",
		Short: "Lower one or more root modules to GLSL stage sources",
		Long: `build resolves each root module's import graph, classifies its
declarations, and lowers the pipeline into vertex/geometry/fragment
GLSL, writing the result under the project's configured output
directory.

Modules are named by their dotted key, matching how they're written
after "from" in an import header (e.g. "shaders.basic").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild on module file changes")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cheddarc version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cheddarc v%s\n", version)
		},
	}
}

func runBuild(modules []string, watch bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	s := store.NewFSStore(cfg.Modules.Root, cfg.Modules.Extension)

	keys := make([]ast.ModuleKey, len(modules))
	for i, m := range modules {
		keys[i] = ast.ModuleKey(m)
	}

	if err := buildOnce(s, cfg, keys); err != nil {
		if !watch {
			return err
		}
	}
	if !watch {
		return nil
	}

	return watchAndRebuild(s, cfg, keys)
}

func buildOnce(s *store.FSStore, cfg *config.Config, keys []ast.ModuleKey) error {
	out := ui.NewBuildOutput()
	out.PrintHeader(version)

	var failed error
	for _, key := range keys {
		out.PrintModuleStart(key.String())
		result := compile.Module(s, key)
		if result.Diag != nil {
			out.PrintError(result.Diag.Format())
			failed = fmt.Errorf("build failed for %s", key)
			continue
		}
		if err := writeStages(s, cfg, out, key, result.Sources); err != nil {
			out.PrintError(err.Error())
			failed = err
			continue
		}
	}

	out.PrintSummary(failed == nil, errMsg(failed))
	return failed
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func writeStages(s *store.FSStore, cfg *config.Config, out *ui.BuildOutput, key ast.ModuleKey, sources *lower.StageSources) error {
	dir := filepath.Join(cfg.Output.Dir, filepath.FromSlash(key.Path()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	stages := []ui.Stage{{Name: "vs", Path: filepath.Join(dir, "vs.glsl")}}
	if sources.Geometry != "" {
		stages = append(stages, ui.Stage{Name: "gs", Path: filepath.Join(dir, "gs.glsl")})
	}
	stages = append(stages, ui.Stage{Name: "fs", Path: filepath.Join(dir, "fs.glsl")})

	content := map[string]string{
		filepath.Join(dir, "vs.glsl"): sources.Vertex,
		filepath.Join(dir, "gs.glsl"): sources.Geometry,
		filepath.Join(dir, "fs.glsl"): sources.Fragment,
	}

	switch cfg.Output.Format {
	case config.FormatBundle:
		var bundle strings.Builder
		for _, st := range stages {
			fmt.Fprintf(&bundle, "// --- %s\n%s\n", st.Name, content[st.Path])
		}
		bundlePath := filepath.Join(dir, "pipeline.glsl")
		data := []byte(bundle.String())
		if err := os.WriteFile(bundlePath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", bundlePath, err)
		}
		out.PrintStage(ui.Stage{Name: "bundle", Path: bundlePath, Size: len(data)})
	default:
		srcPath := s.Path(key)
		for _, st := range stages {
			data := []byte(content[st.Path])
			if err := os.WriteFile(st.Path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", st.Path, err)
			}
			st.Size = len(data)
			out.PrintStage(st)

			mapPath := st.Path + ".map"
			if err := writeSourceMap(st.Name, srcPath, mapPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeSourceMap emits a coarse source map for one stage: the whole
// generated file is attributed back to line 1 of the module it was
// lowered from. The lowerer doesn't thread per-statement positions
// through pkg/printer's string building, so finer-grained mappings
// aren't available yet; this is still enough for a driver-side error
// to point a GLSL compiler's complaint back at the right .chdr file.
func writeSourceMap(stageName, srcPath, mapPath string) error {
	gen := sourcemap.NewGenerator(stageName)
	gen.Mark(
		token.Position{Filename: srcPath, Line: 1, Column: 1},
		token.Position{Filename: mapPath, Line: 1, Column: 1},
	)
	data, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generate source map for %s: %w", stageName, err)
	}
	if err := os.WriteFile(mapPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mapPath, err)
	}
	return nil
}

func watchAndRebuild(s *store.FSStore, cfg *config.Config, keys []ast.ModuleKey) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, key := range keys {
		path := s.Path(key)
		dir := filepath.Dir(path)
		if !watched[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			watched[dir] = true
		}
	}

	fmt.Println(ui.Divider())
	fmt.Println("watching for changes (ctrl-c to stop)")

	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(ev.Name, "."+cfg.Modules.Extension) {
				continue
			}
			if key, ok := s.KeyForPath(ev.Name); ok {
				s.Invalidate(key)
			}
			if !pending {
				pending = true
				debounce.Reset(150 * time.Millisecond)
			}
		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			fmt.Println(ui.Divider())
			_ = buildOnce(s, cfg, keys)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
