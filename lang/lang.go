package lang

import "fmt"

const (
	Ja = "ja"
	En = "en"
)

var messages = map[string]map[string]string{
	Ja: {
		"menu_header":         "🛍 メニュー",
		"group_main":          "🍔 メイン",
		"group_side":          "🍟 サイド",
		"group_drink":         "🥤 ドリンク",
		"group_other":         "📦 その他",
		"unknown_name":        "名前不明",
		"place_order":         "注文する",
		"clear_order":         "リセット",
		"order_title":         "ご注文の確認",
		"no_items_selected":   "選択された商品がありません",
		"total":               "合計: %s%d",
		"order_line":          "%s x%d - %s%d",
		"order_ref":           "注文番号: %s",
		"catalog_empty":       "商品がありません",
		"catalog_load_failed": "products.json を読み込めませんでした: %v",
		"order_cleared":       "選択をリセットしました",
		"choose_lang":         "言語を選択してください / Choose a language",
		"language_changed":    "言語を日本語に変更しました",
		"confirm_order":       "✅ 確定する",
		"order_placed":        "ご注文ありがとうございます。注文番号: %s",
		"order_failed":        "注文を保存できませんでした。もう一度お試しください",
		"order_outdated":      "注文内容が変更されました。もう一度「注文する」を押してください",
		"orders_header":       "📋 最近のご注文",
		"orders_none":         "ご注文履歴はありません",
		"orders_unavailable":  "注文履歴は利用できません",
		"orders_line":         "%s  %s%d  (%s)",
	},
	En: {
		"menu_header":         "🛍 Menu",
		"group_main":          "🍔 Mains",
		"group_side":          "🍟 Sides",
		"group_drink":         "🥤 Drinks",
		"group_other":         "📦 Other",
		"unknown_name":        "Unnamed item",
		"place_order":         "Place order",
		"clear_order":         "Clear",
		"order_title":         "Order confirmation",
		"no_items_selected":   "No items selected",
		"total":               "Total: %s%d",
		"order_line":          "%s x%d - %s%d",
		"order_ref":           "Order number: %s",
		"catalog_empty":       "No products available",
		"catalog_load_failed": "Could not load products.json: %v",
		"order_cleared":       "Selection cleared",
		"choose_lang":         "言語を選択してください / Choose a language",
		"language_changed":    "Language set to English",
		"confirm_order":       "✅ Confirm",
		"order_placed":        "Thank you for your order. Order number: %s",
		"order_failed":        "Could not save the order. Please try again",
		"order_outdated":      "Your selection changed. Press place order again",
		"orders_header":       "📋 Recent orders",
		"orders_none":         "No orders yet",
		"orders_unavailable":  "Order history is not available",
		"orders_line":         "%s  %s%d  (%s)",
	},
}

// Valid reports whether code has a message table.
func Valid(code string) bool {
	_, ok := messages[code]
	return ok
}

// T returns the message for key in code, falling back to Ja and then to the key itself.
func T(code, key string, args ...interface{}) string {
	table, ok := messages[code]
	if !ok {
		table = messages[Ja]
	}
	msg, ok := table[key]
	if !ok {
		msg, ok = messages[Ja][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
