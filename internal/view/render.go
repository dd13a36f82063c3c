package view

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/routinebot/internal/catalog"
	"github.com/set-night/routinebot/internal/config"
	"github.com/set-night/routinebot/internal/domain"
	tg "github.com/set-night/routinebot/internal/telegram"
)

const (
	PlaceholderNoCategory  = "Select a category to view products"
	PlaceholderNoProducts  = "No products in this category."
	PlaceholderNoSelection = "No products selected."

	GridPageSize = 8

	selectedMark = "✅ "
)

// Screen is a rendered message: text plus inline keyboard.
type Screen struct {
	Text   string
	Markup *models.InlineKeyboardMarkup
}

// CategoryMenu renders the category selector. The current category is marked.
func CategoryMenu(categories []string, current string) Screen {
	var rows [][]models.InlineKeyboardButton
	for _, c := range categories {
		label := c
		if c == current {
			label = "▶️ " + c
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, categoryData(c))))
	}

	text := "🗂 Choose a category"
	if len(categories) == 0 {
		text = "🗂 The catalog is empty."
	}
	return Screen{Text: text, Markup: tg.InlineKeyboard(rows...)}
}

// CatalogGrid renders one page of products. Selected products carry a
// check mark; each row has a toggle button and a details button.
func CatalogGrid(category string, products []domain.Product, selected map[int]bool, page int) Screen {
	if category == "" {
		return Screen{
			Text:   PlaceholderNoCategory,
			Markup: tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("🗂 Categories", string(ActionMenu)))),
		}
	}

	totalPages := (len(products) + GridPageSize - 1) / GridPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛍 %s\n", category)
	if len(products) == 0 {
		sb.WriteString("\n" + PlaceholderNoProducts)
	} else {
		sb.WriteString("\nTap a product to select it, ℹ️ for details.")
	}

	start := page * GridPageSize
	end := min(start+GridPageSize, len(products))

	var rows [][]models.InlineKeyboardButton
	for _, p := range products[start:end] {
		label := ProductLabel(p)
		if selected[p.ID] {
			label = selectedMark + label
		}
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(truncate(label, config.MaxButtonLabelLen), productData(ActionToggle, p.ID)),
			tg.InlineButton("ℹ️", productData(ActionInfo, p.ID)),
		))
	}
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, string(ActionPage), string(ActionNoop)))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("🗂 Categories", string(ActionMenu))))

	return Screen{Text: sb.String(), Markup: tg.InlineKeyboard(rows...)}
}

// SelectionPanel renders the selected products with a remove button each.
// The "Clear All" button exists only while something is selected.
func SelectionPanel(items []domain.Product) Screen {
	var sb strings.Builder
	sb.WriteString("🧺 Selected Products\n\n")

	var rows [][]models.InlineKeyboardButton
	if len(items) == 0 {
		sb.WriteString(PlaceholderNoSelection)
	}
	for i, p := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, ProductLabel(p))
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(truncate("❌ Remove "+p.Name, config.MaxButtonLabelLen), productData(ActionRemove, p.ID)),
		))
	}

	if len(items) > 0 {
		rows = append(rows, tg.ButtonRow(tg.InlineButton("🗑 Clear All", string(ActionClear))))
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("✨ Generate Routine", string(ActionGenerate))))

	return Screen{Text: strings.TrimRight(sb.String(), "\n"), Markup: tg.InlineKeyboard(rows...)}
}

// ProductCard renders the details of one product, with a toggle button.
func ProductCard(p domain.Product, selected bool) Screen {
	text := fmt.Sprintf("%s\n%s · %s\n\n%s", p.Name, p.Brand, p.Category, catalog.PlainText(p.Description))

	label := "➕ Select"
	if selected {
		label = "➖ Unselect"
	}
	return Screen{
		Text:   strings.TrimSpace(text),
		Markup: tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton(label, productData(ActionToggle, p.ID)))),
	}
}

// Transcript renders every non-system turn, followed by notice when set.
func Transcript(h domain.ChatHistory, notice string) string {
	var blocks []string
	for _, m := range h.Turns {
		switch m.Role {
		case domain.RoleUser:
			blocks = append(blocks, "🙋 You:\n"+m.Content)
		case domain.RoleAssistant:
			blocks = append(blocks, "💄 Advisor:\n"+m.Content)
		}
	}
	if notice != "" {
		blocks = append(blocks, notice)
	}
	if len(blocks) == 0 {
		return "No conversation yet. Select products and tap ✨ Generate Routine."
	}
	return strings.Join(blocks, "\n\n")
}

func ProductLabel(p domain.Product) string {
	if p.Brand == "" {
		return p.Name
	}
	return p.Name + " — " + p.Brand
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
