package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/game/blackjack"
)

// Blackjack callback data values. The handler registers both.
const (
	BlackjackHitCallback   = "bj_hit"
	BlackjackStandCallback = "bj_stand"
)

// BlackjackKeyboard builds the hit/stand inline keyboard shown under
// every turn prompt.
func BlackjackKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{
			{Text: "🃏 Pedir", Data: BlackjackHitCallback},
			{Text: "✋ Plantarse", Data: BlackjackStandCallback},
		},
	}
	return markup
}

// TelegramNotifier renders blackjack round events as chat messages.
// It satisfies blackjack.Notifier; delivery errors are logged and
// dropped so the round never stalls on Telegram.
type TelegramNotifier struct {
	bot *tele.Bot
}

// NewTelegramNotifier creates a TelegramNotifier bound to the bot.
func NewTelegramNotifier(bot *tele.Bot) *TelegramNotifier {
	return &TelegramNotifier{bot: bot}
}

// Announce renders one round event into the chat.
func (n *TelegramNotifier) Announce(ctx context.Context, ev blackjack.Event) {
	switch e := ev.(type) {
	case blackjack.RoundOpened:
		n.send(e.ChatID, fmt.Sprintf(
			"🃏 ¡Mesa de blackjack abierta!\n\n"+
				"💵 Apuesta mínima: %d monedas\n"+
				"⏳ Únete con /bj <apuesta> en los próximos %d segundos",
			e.MinStake, int(e.Window.Seconds()),
		), nil)

	case blackjack.PlayerJoined:
		n.send(e.ChatID, fmt.Sprintf("🪑 @%s se sienta con %d monedas", e.Player, e.Stake), nil)

	case blackjack.RoundCancelled:
		n.send(e.ChatID, "🚫 Nadie se unió, la mesa se cierra", nil)

	case blackjack.RoundStarted:
		n.send(e.ChatID, fmt.Sprintf(
			"🎲 ¡Empieza la ronda!\n\n"+
				"👥 Jugadores: %d\n"+
				"💰 Bote: %d monedas",
			e.Players, e.Pot,
		), nil)

	case blackjack.ParticipantForfeited:
		n.send(e.ChatID, fmt.Sprintf("⚠️ @%s no pudo pagar su apuesta de %d y queda fuera", e.Player, e.Stake), nil)

	case blackjack.TurnPrompt:
		n.send(e.ChatID, fmt.Sprintf(
			"👉 Turno de @%s\n\n"+
				"🃏 Mano: %s (%d)\n"+
				"⏳ Tienes %d segundos",
			e.Player, e.Hand, e.Value, int(e.Timeout.Seconds()),
		), BlackjackKeyboard())

	case blackjack.TurnEnded:
		n.send(e.ChatID, turnEndedText(e), nil)

	case blackjack.DealerDraw:
		n.send(e.ChatID, fmt.Sprintf(
			"🎩 El crupier roba %s\n🃏 Mano: %s (%d)",
			e.Card, e.Hand, e.Value,
		), nil)

	case blackjack.DealerDone:
		text := fmt.Sprintf("🎩 El crupier se planta con %s (%d)", e.Hand, e.Value)
		if e.Busted {
			text = fmt.Sprintf("💥 ¡El crupier se pasa! %s (%d)", e.Hand, e.Value)
		}
		n.send(e.ChatID, text, nil)

	case blackjack.RoundSettled:
		n.send(e.ChatID, settlementText(e), nil)
	}
}

func turnEndedText(e blackjack.TurnEnded) string {
	hand := e.Hand
	switch e.Outcome {
	case blackjack.OutcomeBusted:
		return fmt.Sprintf("💥 @%s se pasa con %s (%d)", e.Player, hand, e.Value)
	case blackjack.OutcomeTimedOut:
		return fmt.Sprintf("⏰ @%s no respondió y se planta con %s (%d)", e.Player, hand, e.Value)
	default:
		return fmt.Sprintf("✋ @%s se planta con %s (%d)", e.Player, hand, e.Value)
	}
}

func settlementText(e blackjack.RoundSettled) string {
	var b strings.Builder
	b.WriteString("🏁 Resultado de la ronda\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("🎩 Crupier: %s (%d)\n", e.DealerHand, e.DealerValue))
	b.WriteString(fmt.Sprintf("💰 Bote: %d monedas\n\n", e.Pot))

	for _, r := range e.Results {
		hand := r.Hand.String()
		switch r.Kind {
		case blackjack.ResultWon:
			b.WriteString(fmt.Sprintf("🏆 @%s: %s (%d) gana %d\n", r.Player, hand, r.Value, r.Payout))
		case blackjack.ResultBusted:
			b.WriteString(fmt.Sprintf("💥 @%s: %s (%d) se pasó\n", r.Player, hand, r.Value))
		case blackjack.ResultBelowDealer:
			b.WriteString(fmt.Sprintf("😢 @%s: %s (%d) no supera al crupier\n", r.Player, hand, r.Value))
		case blackjack.ResultNotBest:
			b.WriteString(fmt.Sprintf("😐 @%s: %s (%d) superado por otra mano\n", r.Player, hand, r.Value))
		}
	}

	if e.DealerWins {
		b.WriteString("\n🏠 La casa se queda con el bote")
	}
	b.WriteString("\n━━━━━━━━━━━━━━━")
	return b.String()
}

func (n *TelegramNotifier) send(chatID int64, text string, markup *tele.ReplyMarkup) {
	chat := &tele.Chat{ID: chatID}
	var err error
	if markup != nil {
		_, err = n.bot.Send(chat, text, markup)
	} else {
		_, err = n.bot.Send(chat, text)
	}
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to announce blackjack event")
	}
}
