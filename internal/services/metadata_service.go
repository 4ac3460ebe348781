package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/kaltura/kal-metadata-utils/internal/checksum"
	"github.com/kaltura/kal-metadata-utils/internal/edits"
	"github.com/kaltura/kal-metadata-utils/internal/schema"
	"github.com/kaltura/kal-metadata-utils/internal/schemacache"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// ApplyRequest describes one run over a set of entries sharing a profile.
type ApplyRequest struct {
	ProfileID string
	EntryIDs  []string
	Edits     []edits.Edit

	// DryRun renders documents without approval or upsert.
	DryRun bool
}

// EntryResult is the outcome for a single entry.
type EntryResult struct {
	EntryID string

	// Existed reports whether the store held a document before the run.
	Existed bool

	// Changed is false when the rendered document equals the stored one.
	Changed bool

	// Upserted is true when the document was written.
	Upserted bool
	Upsert   kmeta.UpsertResult

	Document string

	// Rejected combines the edits refused for this entry, or is nil.
	Rejected error

	// Err is the failure that stopped processing of this entry, or nil.
	Err error
}

// MetadataService runs the create-or-merge, edit and upsert workflow against
// a MetadataStore.
//
// Thread-Safety: Apply may be called concurrently when the store and approver
// are safe for concurrent use.
type MetadataService struct {
	*Processor
	store    kmeta.MetadataStore
	schemas  *schemacache.Cache
	approver kmeta.Approver
	logger   kmeta.Logger
	checksum checksum.SHA256
}

// NewMetadataService creates a MetadataService with all dependencies injected.
// Panics if any dependency is nil.
func NewMetadataService(
	store kmeta.MetadataStore,
	schemas *schemacache.Cache,
	approver kmeta.Approver,
	logger kmeta.Logger,
) *MetadataService {
	if store == nil {
		panic("store cannot be nil")
	}
	if schemas == nil {
		panic("schemas cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &MetadataService{
		Processor: NewProcessor(logger),
		store:     store,
		schemas:   schemas,
		approver:  approver,
		logger:    logger,
		checksum:  checksum.New(),
	}
}

// Apply processes every entry of req in order. One entry failing does not stop
// the others. The returned error combines per-entry failures and rejected
// edits; results are returned even when err is non-nil.
func (s *MetadataService) Apply(ctx context.Context, req ApplyRequest) ([]EntryResult, error) {
	if req.ProfileID == "" {
		return nil, fmt.Errorf("%w: profile id is required", kmeta.ErrUsage)
	}
	if len(req.EntryIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one entry id is required", kmeta.ErrUsage)
	}

	sch, err := s.schemas.Get(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema of profile %s: %w", req.ProfileID, err)
	}
	s.logger.Verbose("Profile %s declares %d field(s)", req.ProfileID, sch.Len())

	results := make([]EntryResult, 0, len(req.EntryIDs))
	var combined error
	for _, entryID := range req.EntryIDs {
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(combined, err)
		}

		res := s.applyEntry(ctx, req, sch, entryID)
		results = append(results, res)

		if res.Rejected != nil {
			combined = multierr.Append(combined, fmt.Errorf("entry %s: %w", entryID, res.Rejected))
		}
		if res.Err != nil {
			combined = multierr.Append(combined, fmt.Errorf("entry %s: %w", entryID, res.Err))
		}
	}
	return results, combined
}

func (s *MetadataService) applyEntry(ctx context.Context, req ApplyRequest, sch *schema.Schema, entryID string) EntryResult {
	res := EntryResult{EntryID: entryID}

	stored, exists, err := s.store.FetchExisting(ctx, entryID, req.ProfileID)
	if err != nil {
		res.Err = err
		return res
	}
	res.Existed = exists

	doc, err := s.Open(stored.XML, exists, sch)
	if err != nil {
		res.Err = err
		return res
	}

	res.Rejected = s.Edit(doc, sch, req.Edits)

	rendered, err := s.Finish(doc, sch)
	if err != nil {
		res.Err = err
		return res
	}
	res.Document = rendered.Pretty

	res.Changed = !exists || !s.checksum.Equal([]byte(stored.XML), []byte(rendered.Compact))
	if !res.Changed {
		s.logger.Info("Entry %s: metadata unchanged, nothing to upsert", entryID)
		return res
	}
	if req.DryRun {
		s.logger.Info("Entry %s: dry run, upsert skipped", entryID)
		return res
	}

	approved, err := s.approver.RequestApproval(ctx, entryID, rendered.Pretty)
	if err != nil {
		res.Err = fmt.Errorf("approval failed: %w", err)
		return res
	}
	if !approved {
		res.Err = fmt.Errorf("%w: upsert of entry %s", kmeta.ErrApprovalDenied, entryID)
		return res
	}

	upsert, err := s.store.Upsert(ctx, entryID, req.ProfileID, rendered.Compact)
	if err != nil {
		res.Err = fmt.Errorf("upsert failed: %w", err)
		return res
	}
	res.Upserted = true
	res.Upsert = upsert

	verb := "updated"
	if upsert.Created {
		verb = "created"
	}
	s.logger.Info("✓ Entry %s: metadata %s", entryID, verb)
	return res
}
