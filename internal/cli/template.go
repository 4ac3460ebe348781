package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/metadata"
)

type templateFlagValues struct {
	output  string
	compact bool
}

func newTemplateCmd() *cobra.Command {
	var flags templateFlagValues

	cmd := &cobra.Command{
		Use:   "template <schema.xsd>",
		Short: "Print the default-populated template of a schema",
		Long: `Template prints a document holding one element per schema field, in schema
order. Single-valued restricted fields carry their first allowed value; all
other fields are empty.

Examples:
  kmeta template profile.xsd
  kmeta template profile.xsd -o new.xml`,
		Args: positional(1, "profile.xsd", "schema.xsd"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd, filesystem.NewOSFileSystem(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "Render on a single line")
	return cmd
}

func runTemplate(cmd *cobra.Command, fsys filesystem.FileSystemProvider, schemaPath string, flags templateFlagValues) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := loadSchemaFile(fsys, schemaPath, settings)
	if err != nil {
		return err
	}

	doc := metadata.BuildTemplate(s)
	metadata.ApplyDefaults(doc, s, false)

	out, err := renderDocument(doc, flags.compact)
	if err != nil {
		return err
	}
	return writeOutput(cmd, fsys, flags.output, out)
}

func renderDocument(doc *metadata.Document, compact bool) (string, error) {
	if compact {
		out, err := metadata.RenderCompact(doc)
		if err != nil {
			return "", fmt.Errorf("failed to render document: %w", err)
		}
		return out + "\n", nil
	}
	out, err := metadata.Render(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return out, nil
}
