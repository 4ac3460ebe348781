package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/config"
	"github.com/kaltura/kal-metadata-utils/internal/edits"
	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/schema"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// editFlagValues holds the edit flags shared by edit and apply.
type editFlagValues struct {
	set       []string
	remove    []string
	editsFile string
}

func addEditFlags(cmd *cobra.Command, v *editFlagValues) {
	cmd.Flags().StringArrayVar(&v.set, "set", nil,
		"Set a field as Field=Value (can be specified multiple times)\n"+
			"Multi-valued fields gain one value per --set, in order\n"+
			"Example: --set Format=Phone --set Categories=Nature")
	cmd.Flags().StringArrayVar(&v.remove, "remove", nil,
		"Remove a value as Field=Value, or every value as Field\n"+
			"Required fields are blanked instead of removed")
	cmd.Flags().StringVar(&v.editsFile, "edits", "",
		"YAML file with set/remove sections, applied before command-line edits")
}

// collect returns the edits in application order: file, --set, --remove.
func (v editFlagValues) collect(fsys filesystem.FileSystemProvider) ([]edits.Edit, error) {
	var all []edits.Edit
	if v.editsFile != "" {
		fromFile, err := edits.LoadFile(fsys, v.editsFile)
		if err != nil {
			return nil, err
		}
		all = append(all, fromFile...)
	}

	sets, err := edits.ParseAssignments(edits.OpSet, v.set)
	if err != nil {
		return nil, err
	}
	all = append(all, sets...)

	removals := make([]string, len(v.remove))
	for i, r := range v.remove {
		if !strings.Contains(r, "=") {
			r += "="
		}
		removals[i] = r
	}
	removes, err := edits.ParseAssignments(edits.OpRemove, removals)
	if err != nil {
		return nil, err
	}
	return append(all, removes...), nil
}

// loadSettings loads .env, the project file named by --config and the
// environment. A missing project file is only an error when --config was given.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Settings{}, fmt.Errorf("%w: %v", kmeta.ErrInvalidConfig, err)
	}

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = config.ConfigFileName
	}
	projectCfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return config.Settings{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if cmd.Flags().Changed("config") {
			return config.Settings{}, fmt.Errorf("%w: %s: %w", kmeta.ErrInvalidConfig, path, err)
		}
		projectCfg = nil
	}

	return config.Resolve(projectCfg, nil)
}

// loadSchemaFile reads and parses a schema from the local filesystem.
func loadSchemaFile(fsys filesystem.FileSystemProvider, path string, settings config.Settings) (*schema.Schema, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	s, err := schema.Parse(string(data), schema.WithRootElement(settings.RootElement))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func readDocumentFile(fsys filesystem.FileSystemProvider, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// writeOutput writes content to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, fsys filesystem.FileSystemProvider, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := fsys.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
