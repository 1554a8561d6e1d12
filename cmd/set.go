package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tubbz-alt/DarkRadiant/project"
	"github.com/Tubbz-alt/DarkRadiant/scene"
	"github.com/Tubbz-alt/DarkRadiant/selectionset"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage named selection sets",
	Long:  `Selection sets are kept in the bbolt file named by sets.path in radiant.yaml.`,
}

// withManager opens the project's selection set store for the duration of fn.
func withManager(fn func(m *selectionset.Manager, cfg *project.Config) error) error {
	cfg, root, err := settings()
	if err != nil {
		return err
	}
	store, err := selectionset.OpenBoltStore(cfg.SetsPath(root))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(selectionset.NewManager(store), cfg)
}

var setNodes string

var setSaveCmd = &cobra.Command{
	Use:   "save {scene.yaml} {name}",
	Short: "Save the named nodes of a scene as a selection set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		var ids []scene.NodeID
		for _, name := range strings.Split(setNodes, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			n := g.Find(name)
			if n == nil {
				return fmt.Errorf("no node named %q", name)
			}
			ids = append(ids, n.ID)
		}

		return withManager(func(m *selectionset.Manager, cfg *project.Config) error {
			sys := newSystem(g, cfg)
			sys.SelectNodes(ids, true)
			s, err := m.Save(args[1], sys)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d nodes)\n", s.Name, len(s.Members))
			return nil
		})
	},
}

var setRestoreCmd = &cobra.Command{
	Use:   "restore {scene.yaml} {name}",
	Short: "Print the nodes of a scene a selection set selects",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := scene.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading scene: %w", err)
		}
		return withManager(func(m *selectionset.Manager, cfg *project.Config) error {
			sys := newSystem(g, cfg)
			n, err := m.Restore(args[1], sys)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, node := range sys.Selected() {
				fmt.Fprintln(out, describe(node))
			}
			fmt.Fprintf(out, "%d selected\n", n)
			return nil
		})
	},
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selection sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *selectionset.Manager, _ *project.Config) error {
			names, err := m.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete {name}",
	Short: "Delete a selection set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(m *selectionset.Manager, _ *project.Config) error {
			return m.Delete(args[0])
		})
	},
}

func init() {
	setSaveCmd.Flags().StringVar(&setNodes, "nodes", "", "comma separated node names")
	_ = setSaveCmd.MarkFlagRequired("nodes")

	setCmd.AddCommand(setSaveCmd, setRestoreCmd, setListCmd, setDeleteCmd)
	rootCmd.AddCommand(setCmd)
}
