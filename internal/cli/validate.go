package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/metadata"
	"github.com/kaltura/kal-metadata-utils/internal/ui"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema.xsd> <document.xml>",
		Short: "Check a document against a schema",
		Long: `Validate reports every way a document departs from its schema: undeclared
fields, missing required fields, too many occurrences, disallowed values and
fields out of schema order. The document is checked as written, not merged.

Examples:
  kmeta validate profile.xsd entry.xml`,
		Args: positional(2, "profile.xsd entry.xml", "schema.xsd", "document.xml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, filesystem.NewOSFileSystem(), args[0], args[1])
		},
	}
}

func runValidate(cmd *cobra.Command, fsys filesystem.FileSystemProvider, schemaPath, docPath string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := loadSchemaFile(fsys, schemaPath, settings)
	if err != nil {
		return err
	}
	text, err := readDocumentFile(fsys, docPath)
	if err != nil {
		return err
	}
	doc, err := metadata.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", docPath, err)
	}

	out := cmd.OutOrStdout()
	result := metadata.Validate(doc, s)
	if !result.HasErrors() {
		fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("✓ %s is valid", docPath)))
		return nil
	}

	for _, msg := range result.Errors {
		fmt.Fprintln(out, ui.ErrorStyle.Render("✗ "+msg))
	}
	return fmt.Errorf("%s: %d schema violation(s)", docPath, len(result.Errors))
}
