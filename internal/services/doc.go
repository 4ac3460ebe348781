// Package services orchestrates the metadata workflow for one profile:
//
//  1. fetch and parse the profile schema (cached)
//  2. merge the entry's stored document, or build a default-populated template
//  3. apply the requested edits, collecting rejected values
//  4. prune empty optional elements and render
//  5. skip entries whose document did not change
//  6. ask for approval and upsert
//
// Processor holds the store-independent steps 2-4 and is used directly for
// offline editing of files.
package services
