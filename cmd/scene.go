package cmd

import (
	"fmt"
	"io"
	"math"

	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/project"
	"github.com/Tubbz-alt/DarkRadiant/scene"
	"github.com/Tubbz-alt/DarkRadiant/selection"
	"github.com/Tubbz-alt/DarkRadiant/selectionset"
)

const viewportSize = 1024

var infoCmd = &cobra.Command{
	Use:   "info {scene.yaml}",
	Short: "Print what a scene contains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		printBreakdown(cmd.OutOrStdout(), g.Breakdown())
		return nil
	},
}

func printBreakdown(w io.Writer, b scene.Breakdown) {
	fmt.Fprintf(w, "entities: %d\n", b.Entities)
	fmt.Fprintf(w, "brushes:  %d\n", b.Brushes)
	fmt.Fprintf(w, "patches:  %d\n", b.Patches)
	fmt.Fprintf(w, "models:   %d\n", b.Models)
	fmt.Fprintf(w, "hidden:   %d\n", b.Hidden)
	for _, path := range b.SortedModelPaths() {
		fmt.Fprintf(w, "  %5d  %s\n", b.ModelPaths[path], path)
	}
}

var (
	selectPolicy  string
	selectFrom    string
	selectTo      string
	selectAxis    int
	selectMode    string
	selectChord   string
	selectSaveSet string
)

var selectCmd = &cobra.Command{
	Use:   "select {scene.yaml}",
	Short: "Run an area selection in a 2D view of the scene",
	Long: `Drags a selection rectangle from --from to --to in the view looking down
--axis (0 side, 1 front, 2 top) and prints the nodes it selects. Corners are
given in world units of the two axes shown by the view.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := selection.ParseAreaPolicy(selectPolicy)
		if err != nil {
			return err
		}
		from, err := parseFloats(selectFrom, 2)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := parseFloats(selectTo, 2)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		if selectAxis < 0 || selectAxis > 2 {
			return fmt.Errorf("--axis must be 0, 1 or 2")
		}

		cfg, root, err := settings()
		if err != nil {
			return err
		}
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		mode, err := parseMode(selectMode)
		if err != nil {
			return err
		}
		sys := newSystem(g, cfg)
		sys.SetMode(mode)

		v, bounds := sceneView(g, selectAxis)
		a := toDevice(v, bounds, selectAxis, from)
		b := toDevice(v, bounds, selectAxis, to)
		n := sys.SelectArea(v, a, b, policy, cfg.Modifier(selectChord), false)

		out := cmd.OutOrStdout()
		for _, node := range sys.Selected() {
			fmt.Fprintln(out, describe(node))
		}
		fmt.Fprintf(out, "%d selected\n", n)

		if selectSaveSet == "" || n == 0 {
			return nil
		}
		store, err := selectionset.OpenBoltStore(cfg.SetsPath(root))
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = selectionset.NewManager(store).Save(selectSaveSet, sys)
		return err
	},
}

// newSystem returns a selection system over g using the project settings.
func newSystem(g *scene.Graph, cfg *project.Config) *selection.System {
	sys := selection.New(g, cfg)
	sys.SetManipulatorMode(cfg.ManipulatorMode())
	return sys
}

// sceneView returns a view along axis framing the whole scene.
func sceneView(g *scene.Graph, axis int) (selection.View, geom.AABB) {
	bounds := g.Root().WorldAABB()
	if !bounds.IsValid() {
		bounds = geom.AABB{Extents: mgl64.Vec3{64, 64, 64}}
	}
	u, w := planeAxes(axis)
	half := math.Max(bounds.Extents[u], bounds.Extents[w]) + 64
	return selection.NewOrthoView(axis, bounds.Origin, half, half, viewportSize, viewportSize), bounds
}

// planeAxes returns the world axes shown horizontally and vertically by a
// view along axis.
func planeAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

func toDevice(v selection.View, bounds geom.AABB, axis int, p []float64) f32.Point {
	u, w := planeAxes(axis)
	world := bounds.Origin
	world[u], world[w] = p[0], p[1]
	d, _ := v.Project(world)
	return f32.Point{X: float32(d[0]), Y: float32(d[1])}
}

func parseMode(s string) (selection.Mode, error) {
	for m := selection.ModeEntity; m < selection.ModeComponent; m++ {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown --mode %q", s)
}

func describe(n *scene.Node) string {
	if n.Name != "" {
		return fmt.Sprintf("%s %s", n.Kind, n.Name)
	}
	return fmt.Sprintf("%s #%d", n.Kind, n.ID)
}

var (
	clipBrush    string
	clipPlane    string
	clipKeepBoth bool
	clipOutput   string
)

var clipCmd = &cobra.Command{
	Use:   "clip {scene.yaml}",
	Short: "Split a brush with a plane",
	Long: `Clips the named brush with the plane nx,ny,nz,d and keeps the part behind
it, or both parts with --keep-both. The scene is written back in place
unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseFloats(clipPlane, 4)
		if err != nil {
			return fmt.Errorf("--plane: %w", err)
		}
		plane := geom.NewPlane(mgl64.Vec3{values[0], values[1], values[2]}, values[3])

		cfg, _, err := settings()
		if err != nil {
			return err
		}
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		n := g.Find(clipBrush)
		if n == nil || n.Brush() == nil {
			return fmt.Errorf("no brush named %q", clipBrush)
		}

		sys := newSystem(g, cfg)
		sys.SelectNodes([]scene.NodeID{n.ID}, true)
		parts := sys.ClipSelected(plane, clipKeepBoth)
		fmt.Fprintf(cmd.OutOrStdout(), "clipped %s into %d brushes\n", clipBrush, parts)

		output := clipOutput
		if output == "" {
			output = args[0]
		}
		if err := g.Save(output); err != nil {
			return fmt.Errorf("saving scene: %w", err)
		}
		return nil
	},
}

func init() {
	selectCmd.Flags().StringVar(&selectPolicy, "policy", "inside", "area policy: intersect, inside, touching, complete-tall")
	selectCmd.Flags().StringVar(&selectFrom, "from", "", "first corner as u,v")
	selectCmd.Flags().StringVar(&selectTo, "to", "", "second corner as u,v")
	selectCmd.Flags().IntVar(&selectAxis, "axis", 2, "view axis: 0 side, 1 front, 2 top")
	selectCmd.Flags().StringVar(&selectMode, "mode", "primitive", "selection mode: primitive, entity, group-part")
	selectCmd.Flags().StringVar(&selectChord, "chord", "", "modifier keys held, resolved through selection.modifiers")
	selectCmd.Flags().StringVar(&selectSaveSet, "save-set", "", "store the result as a named selection set")
	_ = selectCmd.MarkFlagRequired("from")
	_ = selectCmd.MarkFlagRequired("to")

	clipCmd.Flags().StringVar(&clipBrush, "brush", "", "name of the brush to clip")
	clipCmd.Flags().StringVar(&clipPlane, "plane", "", "clip plane as nx,ny,nz,d")
	clipCmd.Flags().BoolVar(&clipKeepBoth, "keep-both", false, "keep the part in front of the plane too")
	clipCmd.Flags().StringVarP(&clipOutput, "output", "o", "", "write the result here instead")
	_ = clipCmd.MarkFlagRequired("brush")
	_ = clipCmd.MarkFlagRequired("plane")

	rootCmd.AddCommand(infoCmd, selectCmd, clipCmd)
}
