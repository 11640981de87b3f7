package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/config"
	"storefront/lang"
	"storefront/logger"
	"storefront/models"
	"storefront/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const component = "bot"

// EventPublisher receives confirmed orders (messaging.Publisher in production).
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev models.OrderPlacedEvent) error
}

type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	log        *logger.Logger
	sessions   *sessionStore
	catalogErr error
	events     EventPublisher // nil disables order events
}

// New connects to Telegram. catalogErr, when set, is shown instead of the
// menu; catalog should then be empty.
func New(cfg *config.Config, log *logger.Logger, catalog []models.CatalogItem, catalogErr error, events EventPublisher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Bot{
		api:        api,
		cfg:        cfg,
		log:        log,
		sessions:   newSessionStore(catalog, cfg.Telegram.DefaultLang),
		catalogErr: catalogErr,
		events:     events,
	}, nil
}

// cardMarkup converts OrderCardContent.Buttons to Telegram inline keyboard (URL vs callback).
func cardMarkup(c services.OrderCardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
			}
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "メニュー / Menu"},
			{Command: "language", Description: "言語 / Language"},
			{Command: "orders", Description: "注文履歴 / Orders"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start runs the update loop until ctx is cancelled. Updates are handled one
// at a time.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warning(component, "set commands failed", map[string]interface{}{"error": err.Error()})
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info(component, "bot started", map[string]interface{}{"username": b.api.Self.UserName})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	msg := update.Message
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/start", text == "/menu":
		b.sendMenu(msg.Chat.ID)
	case text == "/language":
		b.handleLanguage(msg.Chat.ID)
	case text == "/orders":
		b.handleOrders(ctx, msg.Chat.ID)
	}
}

func (b *Bot) send(chatID int64, c services.OrderCardContent) (int, bool) {
	msg := tgbotapi.NewMessage(chatID, c.Text)
	if kb := cardMarkup(c); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error(component, fmt.Errorf("send: %w", err), map[string]interface{}{"chat_id": chatID})
		return 0, false
	}
	return sent.MessageID, true
}

func (b *Bot) langOf(chatID int64) string {
	var l string
	b.sessions.with(chatID, func(s *session) { l = s.lang })
	return l
}

func (b *Bot) sendMenu(chatID int64) {
	if b.catalogErr != nil {
		l := b.langOf(chatID)
		b.send(chatID, services.OrderCardContent{Text: lang.T(l, "catalog_load_failed", b.catalogErr)})
		return
	}
	var card services.OrderCardContent
	b.sessions.with(chatID, func(s *session) {
		card = services.BuildMenuCard(s.agg, s.lang, b.cfg.Currency)
	})
	id, ok := b.send(chatID, card)
	if !ok {
		return
	}
	b.sessions.with(chatID, func(s *session) { s.menuMsgID = id })
}

// refreshMenu edits the menu message in place after a quantity change.
func (b *Bot) refreshMenu(chatID int64, messageID int) {
	var card services.OrderCardContent
	b.sessions.with(chatID, func(s *session) {
		card = services.BuildMenuCard(s.agg, s.lang, b.cfg.Currency)
	})
	edit := tgbotapi.NewEditMessageText(chatID, messageID, card.Text)
	if kb := cardMarkup(card); kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "not modified") {
			return
		}
		b.log.Error(component, fmt.Errorf("edit menu: %w", err), map[string]interface{}{"chat_id": chatID})
	}
}

// dropConfirm removes the keyboard from a summary message that no longer
// matches the selection.
func (b *Bot) dropConfirm(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.api.Send(edit); err != nil && !strings.Contains(err.Error(), "not modified") {
		b.log.Debug(component, "drop confirm failed", map[string]interface{}{"chat_id": chatID, "error": err.Error()})
	}
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Debug(component, "answer callback failed", map[string]interface{}{"error": err.Error()})
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.answer(cq, "")
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "q:"):
		var applied bool
		var stale int
		b.sessions.with(chatID, func(s *session) {
			_, applied = applyQty(s.agg, data)
			s.menuMsgID = cq.Message.MessageID
			if applied {
				stale = s.dropPending()
			}
		})
		b.answer(cq, "")
		if applied {
			b.refreshMenu(chatID, cq.Message.MessageID)
			b.dropConfirm(chatID, stale)
		}
	case data == services.CallbackNoop:
		b.answer(cq, "")
	case data == services.CallbackPlaceOrder:
		b.answer(cq, "")
		b.sendSummary(chatID)
	case data == services.CallbackConfirm:
		var summary models.OrderSummary
		var ok bool
		var l string
		b.sessions.with(chatID, func(s *session) {
			summary, ok = s.takePending(cq.Message.MessageID)
			l = s.lang
		})
		if !ok {
			b.answer(cq, lang.T(l, "order_outdated"))
			b.dropConfirm(chatID, cq.Message.MessageID)
			return
		}
		b.answer(cq, "")
		b.confirmOrder(ctx, chatID, cq.Message.MessageID, summary)
	case data == services.CallbackClear:
		var menuID, stale int
		var l string
		b.sessions.with(chatID, func(s *session) {
			s.agg.Reset()
			menuID, l = s.menuMsgID, s.lang
			stale = s.dropPending()
		})
		b.answer(cq, lang.T(l, "order_cleared"))
		if menuID == 0 {
			menuID = cq.Message.MessageID
		}
		b.refreshMenu(chatID, menuID)
		b.dropConfirm(chatID, stale)
	case strings.HasPrefix(data, "lang:"):
		code := strings.TrimPrefix(data, "lang:")
		b.answer(cq, "")
		if !lang.Valid(code) {
			return
		}
		b.sessions.with(chatID, func(s *session) { s.lang = code })
		b.send(chatID, services.OrderCardContent{Text: lang.T(code, "language_changed")})
		b.sendMenu(chatID)
	default:
		b.answer(cq, "")
	}
}

// sendSummary shows the current selection. A non-empty summary becomes the
// pending one that Confirm places; any earlier summary loses its button.
func (b *Bot) sendSummary(chatID int64) {
	var summary models.OrderSummary
	var l string
	var stale int
	b.sessions.with(chatID, func(s *session) {
		summary, l = s.agg.BuildSummary(), s.lang
		stale = s.dropPending()
	})
	b.dropConfirm(chatID, stale)
	id, ok := b.send(chatID, services.BuildSummaryCard(summary, l, b.cfg.Currency, ""))
	if !ok || summary.IsEmpty {
		return
	}
	b.sessions.with(chatID, func(s *session) { s.setPending(summary, id) })
}

// confirmOrder records and publishes the summary the user approved, replaces
// the summary message with the confirmed card and resets the selection.
func (b *Bot) confirmOrder(ctx context.Context, chatID int64, summaryMsgID int, summary models.OrderSummary) {
	var l string
	var menuID int
	b.sessions.with(chatID, func(s *session) {
		l, menuID = s.lang, s.menuMsgID
	})

	orderID := services.NewOrderID()
	fields := map[string]interface{}{"chat_id": chatID, "order_id": orderID, "total": summary.Total}

	if b.cfg.DB.Orders {
		if err := services.RecordOrder(ctx, orderID, chatID, summary); err != nil {
			b.log.Error(component, fmt.Errorf("record order: %w", err), fields)
			b.sessions.with(chatID, func(s *session) { s.setPending(summary, summaryMsgID) })
			b.send(chatID, services.OrderCardContent{Text: lang.T(l, "order_failed")})
			return
		}
	}
	if b.events != nil {
		ev := models.OrderPlacedEvent{
			OrderID:  orderID,
			ChatID:   chatID,
			Lines:    summary.Lines,
			Total:    summary.Total,
			PlacedAt: time.Now().UTC(),
		}
		if err := b.events.PublishOrderPlaced(ctx, ev); err != nil {
			b.log.Error(component, fmt.Errorf("publish order: %w", err), fields)
		}
	}
	b.log.Info(component, "order placed", fields)

	card := services.BuildSummaryCard(summary, l, b.cfg.Currency, orderID)
	edit := tgbotapi.NewEditMessageText(chatID, summaryMsgID, card.Text)
	if _, err := b.api.Send(edit); err != nil {
		b.send(chatID, card)
	}
	b.send(chatID, services.OrderCardContent{Text: lang.T(l, "order_placed", orderID)})

	b.sessions.with(chatID, func(s *session) { s.agg.Reset() })
	if menuID != 0 {
		b.refreshMenu(chatID, menuID)
	}
}

func (b *Bot) handleLanguage(chatID int64) {
	b.send(chatID, services.OrderCardContent{
		Text: lang.T(b.langOf(chatID), "choose_lang"),
		Buttons: [][]services.OrderCardButton{{
			{Text: "日本語", CallbackData: "lang:" + lang.Ja},
			{Text: "English", CallbackData: "lang:" + lang.En},
		}},
	})
}

func (b *Bot) handleOrders(ctx context.Context, chatID int64) {
	l := b.langOf(chatID)
	if !b.cfg.DB.Orders {
		b.send(chatID, services.OrderCardContent{Text: lang.T(l, "orders_unavailable")})
		return
	}
	orders, err := services.ListOrdersByChat(ctx, chatID, 10)
	if err != nil {
		b.log.Error(component, fmt.Errorf("list orders: %w", err), map[string]interface{}{"chat_id": chatID})
		b.send(chatID, services.OrderCardContent{Text: lang.T(l, "orders_unavailable")})
		return
	}
	b.send(chatID, services.OrderCardContent{Text: ordersText(orders, l, b.cfg.Currency)})
}

func ordersText(orders []models.PlacedOrder, l, currency string) string {
	if len(orders) == 0 {
		return lang.T(l, "orders_none")
	}
	text := lang.T(l, "orders_header")
	for _, o := range orders {
		text += "\n" + lang.T(l, "orders_line", o.CreatedAt.Format("2006-01-02 15:04"), currency, o.Total, o.ID)
	}
	return text
}
