package services

import (
	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/domain"
	"github.com/ruruk/palcofon/internal/repos"
)

// TopicInquiryUpdated is published with the session id after every inquiry
// list mutation. Subscribers must re-read the store rather than trust any
// copy of the list they hold.
const TopicInquiryUpdated = "inquiry:updated"

// InquiryService maintains the per-session inquiry list. Every mutation
// re-reads the durable store, applies the transition, writes the full list
// back and broadcasts TopicInquiryUpdated, in that order.
type InquiryService struct {
	Repo *repos.InquiryRepo
	Bus  EventBus.Bus
}

func NewInquiryService(repo *repos.InquiryRepo, bus EventBus.Bus) *InquiryService {
	return &InquiryService{Repo: repo, Bus: bus}
}

func (s *InquiryService) mutate(sessionID string, fn func([]domain.InquiryLineItem) []domain.InquiryLineItem) error {
	if err := s.Repo.Mutate(sessionID, fn); err != nil {
		return err
	}
	s.Bus.Publish(TopicInquiryUpdated, sessionID)
	return nil
}

// Add inserts the product at quantity 1, or bumps the quantity if the
// product is already on the list.
func (s *InquiryService) Add(sessionID, productID, name string) error {
	return s.mutate(sessionID, func(items []domain.InquiryLineItem) []domain.InquiryLineItem {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity++
				return items
			}
		}
		return append(items, domain.InquiryLineItem{ID: productID, Name: name, Quantity: 1})
	})
}

// SetQuantity sets an item's quantity. Zero or below removes the item; a
// quantity of zero is never stored. Unknown ids are a no-op.
func (s *InquiryService) SetQuantity(sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(sessionID, productID)
	}
	return s.mutate(sessionID, func(items []domain.InquiryLineItem) []domain.InquiryLineItem {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

func (s *InquiryService) Remove(sessionID, productID string) error {
	return s.mutate(sessionID, func(items []domain.InquiryLineItem) []domain.InquiryLineItem {
		out := items[:0]
		for _, it := range items {
			if it.ID != productID {
				out = append(out, it)
			}
		}
		return out
	})
}

// Clear empties the list. Called after a successful inquiry submission.
func (s *InquiryService) Clear(sessionID string) error {
	return s.mutate(sessionID, func([]domain.InquiryLineItem) []domain.InquiryLineItem {
		return nil
	})
}

func (s *InquiryService) List(sessionID string) ([]domain.InquiryLineItem, error) {
	return s.Repo.List(sessionID)
}

// Count is the badge number: the sum of all quantities, recomputed from the
// store on every call.
func (s *InquiryService) Count(sessionID string) (int, error) {
	items, err := s.Repo.List(sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n, nil
}
