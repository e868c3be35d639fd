// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/game/crypto"
	"casino-game-bot/internal/service"
)

// CryptoHandler handles the crypto market commands.
type CryptoHandler struct {
	market         *crypto.Market
	exchange       *crypto.Exchange
	accountService *service.AccountService
}

// NewCryptoHandler creates a new CryptoHandler.
func NewCryptoHandler(market *crypto.Market, exchange *crypto.Exchange, accountService *service.AccountService) *CryptoHandler {
	return &CryptoHandler{
		market:         market,
		exchange:       exchange,
		accountService: accountService,
	}
}

// HandleCrypto handles the /crypto command.
// Displays the current price board.
func (h *CryptoHandler) HandleCrypto(c tele.Context) error {
	var b strings.Builder
	b.WriteString("📈 Mercado cripto\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")

	for _, coin := range crypto.Coins {
		price, _ := h.market.Price(coin.Symbol)
		b.WriteString(fmt.Sprintf("%s %s (%s): %d monedas\n", coin.Emoji, coin.Name, coin.Symbol, price))
	}

	b.WriteString("━━━━━━━━━━━━━━━\n")
	b.WriteString("Compra con /crypto_buy <símbolo> <unidades>\n")
	b.WriteString("Vende con /crypto_sell <símbolo> <unidades>\n")
	b.WriteString("Tu cartera: /portfolio")

	return c.Reply(b.String())
}

// HandleBuy handles the /crypto_buy command.
// Format: /crypto_buy <symbol> <units>
func (h *CryptoHandler) HandleBuy(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	symbol, units, err := h.parseTradeArgs(c, "/crypto_buy")
	if err != nil {
		return c.Reply(err.Error())
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	_, _, err = h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	res, err := h.exchange.Buy(ctx, sender.ID, symbol, units)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrUnknownCoin):
			return c.Reply("❌ Moneda desconocida, usa BTC, ETH o DOG")
		case errors.Is(err, crypto.ErrInvalidUnits):
			return c.Reply("❌ Las unidades deben ser un entero mayor que 0")
		case errors.Is(err, crypto.ErrInsufficientFunds):
			return c.Reply("❌ Saldo insuficiente para esa compra")
		default:
			return c.Reply("❌ Compra fallida, intenta de nuevo")
		}
	}

	return c.Reply(fmt.Sprintf(
		"✅ Compra realizada\n\n"+
			"%s %d %s a %d c/u\n"+
			"💸 Total: %d monedas\n"+
			"📦 En cartera: %d %s\n"+
			"💰 Saldo: %d monedas",
		res.Coin.Emoji, res.Units, res.Coin.Symbol, res.UnitPrice,
		res.Total, res.Held, res.Coin.Symbol, res.NewBalance,
	))
}

// HandleSell handles the /crypto_sell command.
// Format: /crypto_sell <symbol> <units>
func (h *CryptoHandler) HandleSell(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	symbol, units, err := h.parseTradeArgs(c, "/crypto_sell")
	if err != nil {
		return c.Reply(err.Error())
	}

	res, err := h.exchange.Sell(ctx, sender.ID, symbol, units)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrUnknownCoin):
			return c.Reply("❌ Moneda desconocida, usa BTC, ETH o DOG")
		case errors.Is(err, crypto.ErrInvalidUnits):
			return c.Reply("❌ Las unidades deben ser un entero mayor que 0")
		case errors.Is(err, crypto.ErrInsufficientHoldings):
			return c.Reply("❌ No tienes tantas unidades")
		default:
			return c.Reply("❌ Venta fallida, intenta de nuevo")
		}
	}

	return c.Reply(fmt.Sprintf(
		"✅ Venta realizada\n\n"+
			"%s %d %s a %d c/u\n"+
			"💵 Recibido: %d monedas\n"+
			"📦 En cartera: %d %s\n"+
			"💰 Saldo: %d monedas",
		res.Coin.Emoji, res.Units, res.Coin.Symbol, res.UnitPrice,
		res.Total, res.Held, res.Coin.Symbol, res.NewBalance,
	))
}

// HandlePortfolio handles the /portfolio command.
func (h *CryptoHandler) HandlePortfolio(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	positions, total, err := h.exchange.Portfolio(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ No se pudo obtener la cartera, intenta de nuevo")
	}

	if len(positions) == 0 {
		return c.Reply("📦 Tu cartera está vacía\nCompra con /crypto_buy <símbolo> <unidades>")
	}

	var b strings.Builder
	b.WriteString("📦 Tu cartera\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("%s %d %s ≈ %d monedas\n", p.Coin.Emoji, p.Units, p.Coin.Symbol, p.Value))
	}
	b.WriteString("━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("💎 Valor total: %d monedas", total))

	return c.Reply(b.String())
}

func (h *CryptoHandler) parseTradeArgs(c tele.Context, cmd string) (string, int64, error) {
	args := c.Args()
	if len(args) < 2 {
		return "", 0, fmt.Errorf("❌ Uso: %s <símbolo> <unidades>\nEjemplo: %s BTC 2", cmd, cmd)
	}

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	units, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("❌ Las unidades deben ser un entero mayor que 0")
	}

	return symbol, units, nil
}
