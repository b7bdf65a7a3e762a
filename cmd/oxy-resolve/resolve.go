package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetapi"
	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/Carmen-Shannon/oxy-assets/engine/bridge"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/game_object"
	"github.com/Carmen-Shannon/oxy-assets/engine/registry"
	"github.com/Carmen-Shannon/oxy-assets/engine/resolver"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	*rootOptions
	project   string
	scheme    string
	bridgeURL string
	apiBase   string
	out       string
	profile   bool
	decode    bool
	registry  bool
}

func newResolveCommand(root *rootOptions) *cobra.Command {
	opts := &resolveOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "resolve [scene.json]",
		Short: "Resolve a scene document and print a summary",
		Long: "Resolve reads a scene document from a file, or from the asset API's scene endpoint when\n" +
			"no file is given, repairs its image tables and loads every texture through the\n" +
			"detected backend.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return opts.run(ctx, args, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.project, "project", "p", "", "project root (overrides project_root)")
	f.StringVar(&opts.scheme, "scheme", "", "page scheme the scene is served over (overrides page_scheme)")
	f.StringVar(&opts.bridgeURL, "bridge", "", "websocket native bridge url (overrides bridge_url)")
	f.StringVar(&opts.apiBase, "api", "", "asset API base url (overrides api_base_url)")
	f.StringVarP(&opts.out, "out", "o", "", "write the repaired document to this file")
	f.BoolVar(&opts.profile, "profile", false, "print phase timings")
	f.BoolVar(&opts.decode, "decode", false, "decode every image and report undecodable ones as missing")
	f.BoolVar(&opts.registry, "registry", true, "register the project's material assets before resolving")
	return cmd
}

func (o *resolveOptions) applyOverrides() {
	if o.project != "" {
		o.cfg.ProjectRoot = o.project
	}
	if o.scheme != "" {
		o.cfg.PageScheme = o.scheme
	}
	if o.bridgeURL != "" {
		o.cfg.BridgeURL = o.bridgeURL
	}
	if o.apiBase != "" {
		o.cfg.APIBaseURL = o.apiBase
	}
}

func (o *resolveOptions) run(ctx context.Context, args []string, w io.Writer) error {
	o.applyOverrides()
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	fsys := osfs.NewFS()

	projectRoot := ""
	if o.cfg.ProjectRoot != "" {
		p, err := fsPath(o.cfg.ProjectRoot)
		if err != nil {
			return err
		}
		projectRoot = "/" + p
	}

	probe := backend.StaticProbe{Scheme: o.cfg.PageScheme}
	switch {
	case o.cfg.BridgeURL != "":
		ws, err := bridge.Dial(ctx, o.cfg.BridgeURL, o.logger)
		if err != nil {
			return err
		}
		defer ws.Close()
		probe.NativeBridge = ws
	case o.cfg.APIBaseURL == "" && projectRoot != "":
		probe.NativeBridge = bridge.NewFSBridge(fsys)
	}

	data, err := o.readScene(ctx, args, projectRoot)
	if err != nil {
		return err
	}
	parsed := document.Parse(data)
	if parsed.Status != document.ParseOK {
		return parsed.Err
	}
	if parsed.Wrapped {
		o.logger.Info("unwrapped scene from project file")
	}

	reg := registry.NewRegistry()
	if o.registry && projectRoot != "" {
		if _, err := registry.LoadMaterials(ctx, fsys, projectRoot, reg, o.logger); err != nil {
			o.logger.Warn("material assets not loaded", "error", err)
		}
	}

	r := resolver.NewResolver(
		resolver.WithProjectRoot(projectRoot),
		resolver.WithProbe(probe),
		resolver.WithAPIBase(o.cfg.APIBaseURL),
		resolver.WithRegistry(reg),
		resolver.WithWorkers(o.cfg.Workers),
		resolver.WithStripTransient(o.cfg.StripTransient),
		resolver.WithProfiling(o.profile),
		resolver.WithDecode(o.decode),
		resolver.WithLogger(o.logger),
	)
	defer r.Close()

	res, err := r.Resolve(ctx, parsed.Document)
	if err != nil {
		return err
	}

	if o.out != "" {
		out, err := json.MarshalIndent(res.Document, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		if err := os.WriteFile(o.out, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.out, err)
		}
	}

	printSummary(termenv.NewOutput(w), res, o.profile)
	return nil
}

// readScene reads the scene from the argument file, or from the asset API.
func (o *resolveOptions) readScene(ctx context.Context, args []string, projectRoot string) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read scene: %w", err)
		}
		return data, nil
	}
	if o.cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("no scene file given and no api base url configured")
	}
	return assetapi.NewClient(o.cfg.APIBaseURL, nil, o.logger).SceneJSON(ctx, projectRoot)
}

func printSummary(out *termenv.Output, res *resolver.Result, profile bool) {
	label := func(s string) termenv.Style { return out.String(s).Bold() }
	good := func(s string) termenv.Style { return out.String(s).Foreground(out.Color("2")) }
	bad := func(s string) termenv.Style { return out.String(s).Foreground(out.Color("1")) }

	loaded := 0
	for _, tex := range res.Textures {
		if !tex.Placeholder {
			loaded++
		}
	}

	objects := 0
	if res.Root != nil {
		res.Root.Traverse(func(game_object.GameObject) bool {
			objects++
			return true
		})
	}

	fmt.Fprintf(out, "%s %s\n", label("backend:"), res.Mode)
	fmt.Fprintf(out, "%s %d (%d stripped)\n", label("objects:"), objects, res.Stripped)
	fmt.Fprintf(out, "%s %d added, %d updated, %d skipped, %d unresolved\n", label("images:"),
		len(res.Repair.Added), len(res.Repair.Updated), len(res.Repair.Skipped), len(res.Repair.Unresolved))
	fmt.Fprintf(out, "%s %d loaded\n", label("textures:"), loaded)
	fmt.Fprintf(out, "%s %d, %s\n", label("materials:"), len(res.Materials),
		good(fmt.Sprintf("%d from registry", res.Sync.Substituted)))

	for _, p := range res.Sync.Missed {
		fmt.Fprintf(out, "  %s %s\n", out.String("unregistered").Faint(), p)
	}
	if len(res.Failures) == 0 {
		fmt.Fprintf(out, "%s\n", good("all assets resolved"))
	}
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  %s %s: %v\n", bad("missing"), f.URL, f.Err)
	}
	if profile {
		for _, p := range res.Phases {
			fmt.Fprintf(out, "  %-12s %v\n", p.Name, p.Duration)
		}
	}
}
