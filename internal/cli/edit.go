package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/logging"
	"github.com/kaltura/kal-metadata-utils/internal/services"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

type editFlagsValues struct {
	editFlagValues
	output  string
	write   bool
	compact bool
}

func newEditCmd() *cobra.Command {
	var flags editFlagsValues

	cmd := &cobra.Command{
		Use:   "edit <schema.xsd> [document.xml]",
		Short: "Edit a local metadata document",
		Long: `Edit applies field edits to a document and prints the result.

Without a document, editing starts from the schema template with defaults
applied. With a document, its values are first merged into schema order.
Values outside a field's allowed list are rejected and reported; the other
edits are still applied, the document is still written, and the command
exits with code 14.

Merging keeps only the first value of each field. Re-editing a document
whose multi-valued fields hold several values (including this command's own
output) keeps the first value and drops the rest with a warning, and --write
saves that loss. Re-add the extra values with --set in the same run.

Examples:
  # Start a new document
  kmeta edit profile.xsd --set Format=Phone --set Email=a@example.com

  # Update a document in place
  kmeta edit profile.xsd entry.xml --set Categories=Nature --write

  # Apply edits from a file
  kmeta edit profile.xsd entry.xml --edits changes.yaml -o updated.xml`,
		Args: positional(1, "profile.xsd entry.xml --set Format=Phone", "schema.xsd", "document.xml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, filesystem.NewOSFileSystem(), args, flags)
		},
	}

	addEditFlags(cmd, &flags.editFlagValues)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false,
		"Write the result back to document.xml\n"+
			"Multi-valued fields keep only their first stored value")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "Render on a single line")
	return cmd
}

func runEdit(cmd *cobra.Command, fsys filesystem.FileSystemProvider, args []string, flags editFlagsValues) error {
	schemaPath := args[0]
	docPath := ""
	if len(args) > 1 {
		docPath = args[1]
	}

	if flags.write && docPath == "" {
		return fmt.Errorf("%w: --write requires a document argument", kmeta.ErrUsage)
	}
	if flags.write && flags.output != "" {
		return fmt.Errorf("%w: --write and --output are mutually exclusive", kmeta.ErrUsage)
	}

	list, err := flags.collect(fsys)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := loadSchemaFile(fsys, schemaPath, settings)
	if err != nil {
		return err
	}

	existing := ""
	if docPath != "" {
		existing, err = readDocumentFile(fsys, docPath)
		if err != nil {
			return err
		}
	}

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	defer func() { _ = logger.Sync() }()

	processor := services.NewProcessor(logger)
	doc, err := processor.Open(existing, docPath != "", s)
	if err != nil {
		return err
	}

	rejected := processor.Edit(doc, s, list)

	rendered, err := processor.Finish(doc, s)
	if err != nil {
		return err
	}
	out := rendered.Pretty
	if flags.compact {
		out = rendered.Compact + "\n"
	}

	target := flags.output
	if flags.write {
		target = docPath
	}
	if err := writeOutput(cmd, fsys, target, out); err != nil {
		return err
	}
	if target != "" {
		logger.Info("Wrote %s", target)
	}

	if rejected != nil {
		return fmt.Errorf("some edits were rejected: %w", rejected)
	}
	return nil
}
