package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tubbz-alt/DarkRadiant/scene"
)

var (
	pickAt       string
	pickTo       string
	pickAxis     int
	pickChord    string
	pickSelected string
	pickOutput   string
)

var pickCmd = &cobra.Command{
	Use:   "pick {scene.yaml}",
	Short: "Click into a 2D view of the scene",
	Long: `Clicks at --at in the view looking down --axis with the modifier keys of
--chord held, as bound by selection.modifiers in radiant.yaml. Nodes named by
--selected are selected before the click. When the click grabs a manipulator
handle and --to is given, the handle is dragged there and the scene is written
back in place unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseFloats(pickAt, 2)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		var to []float64
		if pickTo != "" {
			if to, err = parseFloats(pickTo, 2); err != nil {
				return fmt.Errorf("--to: %w", err)
			}
		}
		if pickAxis < 0 || pickAxis > 2 {
			return fmt.Errorf("--axis must be 0, 1 or 2")
		}

		cfg, _, err := settings()
		if err != nil {
			return err
		}
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		var ids []scene.NodeID
		for _, name := range strings.Split(pickSelected, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			n := g.Find(name)
			if n == nil {
				return fmt.Errorf("no node named %q", name)
			}
			ids = append(ids, n.ID)
		}

		sys := newSystem(g, cfg)
		sys.SelectNodes(ids, true)
		v, bounds := sceneView(g, pickAxis)
		mod := cfg.Modifier(pickChord)
		log.Debugf("pick at %v with %s", at, mod)
		sys.SelectPoint(v, toDevice(v, bounds, pickAxis, at), mod, false)

		out := cmd.OutOrStdout()
		if sys.Dragging() {
			if to == nil {
				sys.CancelMove()
			} else {
				sys.MoveSelected(toDevice(v, bounds, pickAxis, to))
				sys.EndMove()
				output := pickOutput
				if output == "" {
					output = args[0]
				}
				if err := g.Save(output); err != nil {
					return fmt.Errorf("saving scene: %w", err)
				}
				fmt.Fprintf(out, "moved %d nodes\n", sys.CountSelected())
			}
		}
		for _, node := range sys.Selected() {
			fmt.Fprintln(out, describe(node))
		}
		fmt.Fprintf(out, "%d selected\n", sys.CountSelected())
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVar(&pickAt, "at", "", "click position as u,v")
	pickCmd.Flags().StringVar(&pickTo, "to", "", "drag a grabbed manipulator to u,v")
	pickCmd.Flags().IntVar(&pickAxis, "axis", 2, "view axis: 0 side, 1 front, 2 top")
	pickCmd.Flags().StringVar(&pickChord, "chord", "", "modifier keys held, resolved through selection.modifiers")
	pickCmd.Flags().StringVar(&pickSelected, "selected", "", "comma separated names selected before the click")
	pickCmd.Flags().StringVarP(&pickOutput, "output", "o", "", "write the result here instead")
	_ = pickCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(pickCmd)
}
