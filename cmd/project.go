package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tubbz-alt/DarkRadiant/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create radiant.yaml in the current directory",
	Long:  `Writes a radiant.yaml with the default selection settings. The project name defaults to the directory name.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		name := filepath.Base(cwd)
		if len(args) == 1 {
			name = args[0]
		}
		if _, err := os.Stat(filepath.Join(cwd, "radiant.yaml")); err == nil {
			return fmt.Errorf("radiant.yaml already exists in %s", cwd)
		}
		if err := project.Default(name).Save(cwd); err != nil {
			return err
		}
		log.Infof("created project %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// getProjectRoot returns the project root directory by looking for radiant.yaml.
func getProjectRoot() (string, error) {
	return project.FindProjectRoot()
}

// loadProject loads radiant.yaml. Outside a project it returns the default
// configuration rooted at the working directory together with the lookup
// error, so callers may carry on with defaults.
func loadProject() (*project.Config, string, error) {
	projectRoot, err := getProjectRoot()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, "", fmt.Errorf("getting current directory: %w", cwdErr)
		}
		return project.Default(filepath.Base(cwd)), cwd, err
	}
	cfg, err := project.LoadConfig(projectRoot)
	if err != nil {
		return nil, "", fmt.Errorf("loading project config: %w", err)
	}
	return cfg, projectRoot, nil
}

// settings returns the project configuration, falling back to defaults
// outside a project.
func settings() (*project.Config, string, error) {
	cfg, root, err := loadProject()
	if cfg == nil {
		return nil, "", err
	}
	if err != nil {
		log.Debugf("using default settings: %v", err)
	}
	return cfg, root, nil
}

// parseFloats reads n comma separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
