package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

type upsertCall struct {
	entryID   string
	profileID string
	xml       string
}

type mockStore struct {
	mu        sync.Mutex
	schemas   map[string]string
	docs      map[string]string
	fetchErr  map[string]error
	upsertErr error
	upserts   []upsertCall
}

func newMockStore(profileID, xsd string) *mockStore {
	return &mockStore{
		schemas:  map[string]string{profileID: xsd},
		docs:     map[string]string{},
		fetchErr: map[string]error{},
	}
}

func (m *mockStore) FetchSchema(_ context.Context, profileID string) (string, error) {
	text, ok := m.schemas[profileID]
	if !ok {
		return "", fmt.Errorf("%w: profile %s", kmeta.ErrNotFound, profileID)
	}
	return text, nil
}

func (m *mockStore) FetchExisting(_ context.Context, entryID, _ string) (kmeta.ExistingDocument, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fetchErr[entryID]; err != nil {
		return kmeta.ExistingDocument{}, false, err
	}
	xml, ok := m.docs[entryID]
	return kmeta.ExistingDocument{ID: "id-" + entryID, XML: xml}, ok, nil
}

func (m *mockStore) Upsert(_ context.Context, entryID, profileID, xml string) (kmeta.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return kmeta.UpsertResult{}, m.upsertErr
	}
	_, existed := m.docs[entryID]
	m.docs[entryID] = xml
	m.upserts = append(m.upserts, upsertCall{entryID: entryID, profileID: profileID, xml: xml})
	return kmeta.UpsertResult{ID: "id-" + entryID, Created: !existed}, nil
}

type mockApprover struct {
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, entryID, _ string) (bool, error) {
	m.asked = append(m.asked, entryID)
	return m.approved, m.err
}
