package cli

import (
	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/logging"
	"github.com/kaltura/kal-metadata-utils/internal/services"
)

type showFlagValues struct {
	output  string
	compact bool
}

func newShowCmd() *cobra.Command {
	var flags showFlagValues

	cmd := &cobra.Command{
		Use:   "show <schema.xsd> <document.xml>",
		Short: "Print a document merged into schema order",
		Long: `Show merges an existing document into the schema's template and prints the
result. Values are matched by element name; elements the schema does not
declare are dropped and optional fields without a value are omitted.

Examples:
  kmeta show profile.xsd entry.xml`,
		Args: positional(2, "profile.xsd entry.xml", "schema.xsd", "document.xml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, filesystem.NewOSFileSystem(), args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "Render on a single line")
	return cmd
}

func runShow(cmd *cobra.Command, fsys filesystem.FileSystemProvider, schemaPath, docPath string, flags showFlagValues) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s, err := loadSchemaFile(fsys, schemaPath, settings)
	if err != nil {
		return err
	}
	existing, err := readDocumentFile(fsys, docPath)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	defer func() { _ = logger.Sync() }()

	doc, err := services.NewProcessor(logger).Open(existing, true, s)
	if err != nil {
		return err
	}

	out, err := renderDocument(doc, flags.compact)
	if err != nil {
		return err
	}
	return writeOutput(cmd, fsys, flags.output, out)
}
