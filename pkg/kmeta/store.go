package kmeta

import "context"

// ExistingDocument is a metadata document already stored for an entry.
type ExistingDocument struct {
	// ID is the store's identifier for the document (empty for local stores).
	ID string
	// XML is the stored document text.
	XML string
}

// UpsertResult describes the outcome of storing a document.
type UpsertResult struct {
	// ID is the store's identifier for the document.
	ID string
	// Created is true when the document did not exist before.
	Created bool
	// Version is the document version reported by the store, if any.
	Version int
}

// MetadataStore is the collaborator that holds schemas and documents.
//
// Implementations:
//   - kaltura.Client: remote REST API
//   - localstore.Store: files on a FileSystemProvider
type MetadataStore interface {
	// FetchSchema returns the XSD text of a metadata profile.
	FetchSchema(ctx context.Context, profileID string) (string, error)

	// FetchExisting returns the stored document for an entry, if any.
	// exists is false (and err nil) when the entry has no document yet.
	FetchExisting(ctx context.Context, entryID, profileID string) (doc ExistingDocument, exists bool, err error)

	// Upsert stores xml as the entry's document, creating it when absent.
	Upsert(ctx context.Context, entryID, profileID, xml string) (UpsertResult, error)
}
