package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// positional returns an argument validator for the named arguments. The first
// required names must be present; the rest are optional. Errors carry the
// usage line and example so they are useful without --help.
func positional(required int, example string, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < required {
			missing := make([]string, 0, required-len(args))
			for _, n := range names[len(args):required] {
				missing = append(missing, "<"+n+">")
			}
			return fmt.Errorf(`%w: missing required argument: %s

Usage: %s

Example:
  %s %s`, kmeta.ErrUsage, strings.Join(missing, " "), cmd.UseLine(), cmd.CommandPath(), example)
		}
		if len(args) > len(names) {
			return fmt.Errorf("%w: accepts at most %d arg(s), received %d", kmeta.ErrUsage, len(names), len(args))
		}
		return nil
	}
}
