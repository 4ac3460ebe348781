package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/config"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

const rootLong = `kmeta builds and edits metadata documents that conform to a metadata
profile schema (XSD).

Documents are created from the schema's template or merged from an existing
document into schema order, edited field by field with restriction checks,
and written back locally or upserted to the remote metadata service.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or credentials
  11 - Metadata store request failed
  12 - User denied the upsert
  13 - Schema or document is not well-formed XML
  14 - A value violated a field restriction`

// NewRootCommand builds the kmeta command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kmeta",
		Short:         "Schema-driven metadata document builder",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	root.PersistentFlags().String("config", config.ConfigFileName,
		"Project configuration file\n"+
			"A missing file is ignored unless the flag is set explicitly")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", kmeta.ErrUsage, err)
	})

	root.AddCommand(
		newTemplateCmd(),
		newShowCmd(),
		newValidateCmd(),
		newEditCmd(),
		newApplyCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and prints the returned error to stderr.
func Execute() error {
	root := NewRootCommand()
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(root.OutOrStdout())
		return nil
	}
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
