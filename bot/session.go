package bot

import (
	"sync"

	"storefront/lang"
	"storefront/models"
	"storefront/services"
)

// session is the per-chat order state. The aggregator is only touched while
// sessionStore.mu is held.
type session struct {
	agg       *services.Aggregator
	lang      string
	menuMsgID int // message carrying the menu keyboard, 0 if none yet

	// pending is the summary shown on summaryMsgID with a Confirm button.
	// Only that snapshot can be confirmed.
	pending      *models.OrderSummary
	summaryMsgID int
}

func (s *session) setPending(summary models.OrderSummary, msgID int) {
	s.pending = &summary
	s.summaryMsgID = msgID
}

// dropPending forgets the pending summary and returns the message whose
// Confirm button is now stale (0 if none).
func (s *session) dropPending() int {
	id := s.summaryMsgID
	s.pending, s.summaryMsgID = nil, 0
	return id
}

// takePending returns the pending summary if msgID is the message it was
// shown on, and forgets it.
func (s *session) takePending(msgID int) (models.OrderSummary, bool) {
	if s.pending == nil || msgID != s.summaryMsgID {
		return models.OrderSummary{}, false
	}
	summary := *s.pending
	s.dropPending()
	return summary, true
}

type sessionStore struct {
	mu          sync.Mutex
	catalog     []models.CatalogItem
	defaultLang string
	byChat      map[int64]*session
}

func newSessionStore(catalog []models.CatalogItem, defaultLang string) *sessionStore {
	if !lang.Valid(defaultLang) {
		defaultLang = lang.Ja
	}
	return &sessionStore{
		catalog:     catalog,
		defaultLang: defaultLang,
		byChat:      make(map[int64]*session),
	}
}

// with runs fn on the chat's session, creating it on first use.
func (s *sessionStore) with(chatID int64, fn func(*session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byChat[chatID]
	if !ok {
		sess = &session{agg: services.NewAggregator(s.catalog), lang: s.defaultLang}
		s.byChat[chatID] = sess
	}
	fn(sess)
}

// applyQty handles a q:<line>:<size>:<delta> callback. ok is false when the
// data does not address a known line or size.
func applyQty(agg *services.Aggregator, data string) (qty int, ok bool) {
	lineIdx, sizeIdx, delta, ok := services.ParseQtyCallback(data)
	if !ok {
		return 0, false
	}
	line := agg.Line(lineIdx)
	if line == nil {
		return 0, false
	}
	size := ""
	if line.Sized() {
		names := line.SizeNames()
		if sizeIdx < 0 || sizeIdx >= len(names) {
			return 0, false
		}
		size = names[sizeIdx]
	} else if sizeIdx >= 0 {
		return 0, false
	}
	return agg.AdjustQuantity(line, delta, size), true
}
