package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"shop-billing-backend/internal/billing"

	"github.com/google/uuid"
)

// NumberingService is the backend-owned invoice counter. Both lookups
// target the same invariant (no two bills share a number) through two
// historical endpoints; either may fail on its own.
type NumberingService interface {
	NextInvoiceID(ctx context.Context, variant billing.Variant) (int64, error)
	LatestInvoiceNo(ctx context.Context, variant billing.Variant) (int64, error)
}

// BillStore persists finalized drafts and answers with the authoritative
// invoice number.
type BillStore interface {
	SubmitBill(ctx context.Context, draft *billing.Draft) (int64, error)
}

// Service owns one draft bill for the duration of an editing session. All
// edits go through it; the numbering fetches are the only async work and
// they never block edits.
type Service struct {
	id        uuid.UUID
	numbering NumberingService
	store     BillStore

	mu    sync.Mutex
	draft *billing.Draft
	// numGen invalidates in-flight numbering fetches: a response only
	// applies if its generation is still current, so a stale fetch can
	// never overwrite a newer guess or a store-assigned number.
	numGen uint64
}

func New(variant billing.Variant, numbering NumberingService, store BillStore) *Service {
	return &Service{
		id:        uuid.New(),
		numbering: numbering,
		store:     store,
		draft:     billing.NewDraft(variant),
	}
}

func (s *Service) ID() uuid.UUID {
	return s.id
}

// Draft returns a snapshot of the current draft.
func (s *Service) Draft() *billing.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// FetchInvoiceNo pre-populates the invoice number field. Both endpoints are
// queried fire-and-forget; whichever answers lands, the later one wins, and
// a failure just logs and leaves the field to the other call or to the
// store's own assignment on submit.
func (s *Service) FetchInvoiceNo(ctx context.Context) {
	s.mu.Lock()
	s.numGen++
	gen := s.numGen
	variant := s.draft.Variant
	s.mu.Unlock()

	go func() {
		next, err := s.numbering.NextInvoiceID(ctx, variant)
		if err != nil {
			log.Printf("session %s: next invoice id unavailable: %v", s.id, err)
			return
		}
		s.applyInvoiceNo(gen, next)
	}()

	go func() {
		latest, err := s.numbering.LatestInvoiceNo(ctx, variant)
		if err != nil {
			log.Printf("session %s: latest invoice number unavailable: %v", s.id, err)
			return
		}
		s.applyInvoiceNo(gen, latest+1)
	}()
}

func (s *Service) applyInvoiceNo(gen uint64, invoiceNo int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.numGen {
		return
	}
	s.draft.InvoiceNo = invoiceNo
}

func (s *Service) AddLine() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.AddLine()
}

func (s *Service) RemoveLine(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.RemoveLine(id)
}

func (s *Service) UpdateLine(id int64, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.UpdateLine(id, field, value)
}

func (s *Service) UpdateHeader(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.UpdateHeader(field, value)
}

func (s *Service) Totals() billing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.CalculateTotals()
}

// Submit sends the whole draft to the store. On success the store's number
// overwrites any local guess and pending numbering fetches are invalidated.
// On failure the draft is untouched and stays editable for retry; the
// returned error carries the server's message when it sent one.
func (s *Service) Submit(ctx context.Context) (int64, error) {
	s.mu.Lock()
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	invoiceNo, err := s.store.SubmitBill(ctx, snapshot)
	if err != nil {
		return 0, fmt.Errorf("submit bill: %w", err)
	}

	s.mu.Lock()
	s.numGen++
	s.draft.InvoiceNo = invoiceNo
	s.mu.Unlock()
	return invoiceNo, nil
}

// Reset discards the draft for a fresh one and fetches its number.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	variant := s.draft.Variant
	s.draft = billing.NewDraft(variant)
	s.mu.Unlock()
	s.FetchInvoiceNo(ctx)
}
