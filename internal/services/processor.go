package services

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/kaltura/kal-metadata-utils/internal/edits"
	"github.com/kaltura/kal-metadata-utils/internal/metadata"
	"github.com/kaltura/kal-metadata-utils/internal/schema"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// Processor builds, edits and renders documents against a schema.
// Safe for concurrent use.
type Processor struct {
	editor *metadata.Editor
	logger kmeta.Logger
}

// NewProcessor creates a Processor.
// Panics if logger is nil.
func NewProcessor(logger kmeta.Logger) *Processor {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Processor{editor: metadata.NewEditor(logger), logger: logger}
}

// Open returns the working document for an entry: the stored document merged
// into schema order when exists is true, otherwise a template with defaults
// applied and optional fields left blank.
func (p *Processor) Open(stored string, exists bool, s *schema.Schema) (*metadata.Document, error) {
	if exists {
		doc, err := p.editor.Merge(stored, s)
		if err != nil {
			return nil, fmt.Errorf("failed to merge stored document: %w", err)
		}
		return doc, nil
	}

	doc := metadata.BuildTemplate(s)
	metadata.ApplyDefaults(doc, s, true)
	return doc, nil
}

// Edit applies list in order. A rejected value does not stop later edits;
// all rejections are returned combined, each satisfying
// errors.Is(err, kmeta.ErrInvalidValue).
func (p *Processor) Edit(doc *metadata.Document, s *schema.Schema, list []edits.Edit) error {
	var rejected error
	for _, e := range list {
		var err error
		switch e.Op {
		case edits.OpRemove:
			var n int
			n, err = p.editor.RemoveValue(doc, s, e.Field, e.Value)
			if err == nil && n == 0 {
				p.logger.Verbose("%s: nothing to remove", e)
			}
		default:
			err = p.editor.SetValue(doc, s, e.Field, e.Value)
		}
		if err != nil {
			p.logger.Error("Rejected %s: %v", e, err)
			rejected = multierr.Append(rejected, err)
			continue
		}
		p.logger.Verbose("Applied %s", e)
	}
	return rejected
}

// Rendered is a finished document in both text forms.
type Rendered struct {
	// Pretty is indented for display and local files.
	Pretty string
	// Compact is a single line, as sent to remote stores.
	Compact string
}

// Finish prunes empty optional elements, reports schema violations as
// warnings and renders doc.
func (p *Processor) Finish(doc *metadata.Document, s *schema.Schema) (Rendered, error) {
	if n := p.editor.Prune(doc, s); n > 0 {
		p.logger.Verbose("Removed %d empty element(s)", n)
	}

	if result := metadata.Validate(doc, s); result.HasErrors() {
		p.logger.Warn("Document does not fully satisfy the schema: %s", result.ErrorString())
	}

	pretty, err := metadata.Render(doc)
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to render document: %w", err)
	}
	compact, err := metadata.RenderCompact(doc)
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to render document: %w", err)
	}
	return Rendered{Pretty: pretty, Compact: compact}, nil
}
