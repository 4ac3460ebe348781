package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaltura/kal-metadata-utils/internal/config"
	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/internal/kaltura"
	"github.com/kaltura/kal-metadata-utils/internal/localstore"
	"github.com/kaltura/kal-metadata-utils/internal/logging"
	"github.com/kaltura/kal-metadata-utils/internal/retry"
	"github.com/kaltura/kal-metadata-utils/internal/schema"
	"github.com/kaltura/kal-metadata-utils/internal/schemacache"
	"github.com/kaltura/kal-metadata-utils/internal/services"
	"github.com/kaltura/kal-metadata-utils/internal/ui"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

type applyFlagValues struct {
	editFlagValues
	profile string
	entries []string
	yes     bool
	dryRun  bool
	store   string
	timeout time.Duration
}

func newApplyCmd() *cobra.Command {
	var flags applyFlagValues

	cmd := &cobra.Command{
		Use:   "apply --profile <id> --entry <id> [--entry <id> ...]",
		Short: "Create or update entry metadata in a store",
		Long: `Apply fetches the profile schema and each entry's stored document, merges it
into schema order (or starts from the template when the entry has none),
applies the edits and upserts the result.

Each upsert needs approval: type the entry ID when prompted, or pass --yes.
Entries whose document would not change are skipped. A failing entry does
not stop the others.

Store Selection:
  --store DIR (or local_store in kmeta.yaml) uses files:
    DIR/<profile>.xsd and DIR/<profile>/<entry>.xml
  Otherwise the remote service is used. Credentials come from the
  environment or .env:
    KMETA_PARTNER_ID, KMETA_ADMIN_SECRET, KMETA_SERVICE_URL, KMETA_USER_ID

Examples:
  # Preview changes without writing
  kmeta apply --profile 1234 --entry 0_abc --set Format=Phone --dry-run

  # Update several entries non-interactively
  kmeta apply --profile 1234 --entry 0_abc --entry 0_def --edits changes.yaml --yes

  # Work against a local directory
  kmeta apply --store ./metadata --profile 1234 --entry 0_abc --set Email=a@example.com --yes`,
		Args: positional(0, "--profile 1234 --entry 0_abc --yes"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, filesystem.NewOSFileSystem(), flags)
		},
	}

	addEditFlags(cmd, &flags.editFlagValues)
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Metadata profile ID (required)")
	cmd.Flags().StringSliceVar(&flags.entries, "entry", nil, "Entry ID (can be specified multiple times, or comma separated)")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Approve every upsert without prompting")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the resulting documents without upserting")
	cmd.Flags().StringVar(&flags.store, "store", "", "Use a local directory instead of the remote service")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", kmeta.DefaultTimeout,
		"Timeout for the whole run\n"+
			"Examples: 30s, 5m")
	return cmd
}

func runApply(cmd *cobra.Command, fsys filesystem.FileSystemProvider, flags applyFlagValues) error {
	if flags.profile == "" {
		return fmt.Errorf("%w: --profile is required", kmeta.ErrUsage)
	}
	if len(flags.entries) == 0 {
		return fmt.Errorf("%w: at least one --entry is required", kmeta.ErrUsage)
	}

	list, err := flags.collect(fsys)
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	approver, err := selectApprover(flags, verbose)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	defer func() { _ = logger.Sync() }()

	store, err := newStore(fsys, settings, flags.store, logger)
	if err != nil {
		return err
	}

	schemas := schemacache.New(store, settings.SchemaCacheSize, schema.WithRootElement(settings.RootElement))
	service := services.NewMetadataService(store, schemas, approver, logger)

	timeout := flags.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = settings.Timeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := service.Apply(ctx, services.ApplyRequest{
		ProfileID: flags.profile,
		EntryIDs:  flags.entries,
		Edits:     list,
		DryRun:    flags.dryRun,
	})
	printResults(cmd.OutOrStdout(), results, flags.dryRun)
	return err
}

// selectApprover picks how upserts are confirmed. Prompting needs a terminal;
// non-interactive runs must opt in with --yes.
func selectApprover(flags applyFlagValues, verbose bool) (kmeta.Approver, error) {
	if flags.yes || flags.dryRun {
		return ui.NewForcedApprover(verbose), nil
	}
	if !ui.IsInteractive() {
		return nil, fmt.Errorf("%w: no terminal to confirm upserts; pass --yes to approve non-interactively", kmeta.ErrUsage)
	}
	return ui.NewInteractiveApprover(), nil
}

// newStore returns the local store when dir (or local_store) is set, else the
// remote client.
func newStore(fsys filesystem.FileSystemProvider, settings config.Settings, dir string, logger *logging.ZapLogger) (kmeta.MetadataStore, error) {
	if dir == "" {
		dir = settings.LocalStore
	}
	if dir != "" {
		logger.Verbose("Using local store at %s", dir)
		return localstore.New(fsys, dir), nil
	}

	if err := settings.ValidateRemote(); err != nil {
		return nil, err
	}

	backoff := retry.NewExponentialBackoff(settings.RetryMaxAttempts,
		retry.WithInitialDelay(settings.RetryInitialDelay),
		retry.WithMaxDelay(settings.RetryMaxDelay),
	)
	executor := retry.NewExecutor(retry.NewHTTPErrorClassifier(), backoff).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("Request failed (attempt %d), retrying in %s: %v", attempt+1, delay, err)
		})

	client, err := kaltura.New(kaltura.Config{
		ServiceURL:    settings.ServiceURL,
		PartnerID:     settings.PartnerID,
		AdminSecret:   settings.AdminSecret,
		UserID:        settings.UserID,
		Privileges:    settings.Privileges,
		SessionExpiry: settings.SessionExpiry,
	}, executor, logger.With("partner_id", settings.PartnerID))
	if err != nil {
		return nil, err
	}
	logger.Verbose("Using %s as partner %d (client tag %s)", settings.ServiceURL, settings.PartnerID, client.ClientTag())
	return client, nil
}

func printResults(w io.Writer, results []services.EntryResult, dryRun bool) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintln(w, ui.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", r.EntryID, r.Err)))
		case !r.Changed:
			fmt.Fprintln(w, ui.MutedStyle.Render(fmt.Sprintf("= %s: unchanged", r.EntryID)))
		case dryRun:
			fmt.Fprintln(w, ui.RenderDocument(fmt.Sprintf("%s (dry run)", r.EntryID), r.Document))
		case r.Upserted:
			verb := "updated"
			if r.Upsert.Created {
				verb = "created"
			}
			fmt.Fprintln(w, ui.SuccessStyle.Render(fmt.Sprintf("✓ %s: %s %s", r.EntryID, verb, r.Upsert.ID)))
		}
		if r.Rejected != nil {
			fmt.Fprintln(w, ui.WarningStyle.Render(fmt.Sprintf("! %s: rejected edits: %v", r.EntryID, r.Rejected)))
		}
	}
}
