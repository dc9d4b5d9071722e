package localization

import "golang.org/x/text/language"

// Localizer turns an error key into text for a culture.
type Localizer interface {
	Localize(c Culture, key string) string
}

// Catalog is an in-process Localizer backed by static message tables.
type Catalog struct {
	messages map[language.Tag]map[string]string
}

var _ Localizer = (*Catalog)(nil)

func NewCatalog() *Catalog {
	return &Catalog{
		messages: map[language.Tag]map[string]string{
			language.English: {
				"ErrorMissingName":        "Please enter a name",
				"ErrorMissingStock":       "Please enter a stock value",
				"StockNotAnInteger":       "The value entered for the stock must be an integer",
				"StockNotGreaterThanZero": "The stock must be greater than zero",
				"ErrorMissingPrice":       "Please enter a price",
				"PriceNotANumber":         "The value entered for the price must be a number",
				"PriceNotGreaterThanZero": "The price must be greater than zero",
				"ErrorMissingOrderName":   "Please enter your name",
				"ErrorMissingAddress":     "Please enter your address",
				"ErrorMissingCity":        "Please enter your city",
				"ErrorMissingCountry":     "Please enter your country",
				"CartEmpty":               "Sorry, your cart is empty",
				"ProductNotFound":         "Product not found",
				"NotEnoughStock":          "Not enough stock for this product",
			},
			language.French: {
				"ErrorMissingName":        "Veuillez saisir un nom",
				"ErrorMissingStock":       "Veuillez saisir un stock",
				"StockNotAnInteger":       "La valeur saisie pour le stock doit être un entier",
				"StockNotGreaterThanZero": "Le stock doit être supérieur à zéro",
				"ErrorMissingPrice":       "Veuillez saisir un prix",
				"PriceNotANumber":         "La valeur saisie pour le prix doit être un nombre",
				"PriceNotGreaterThanZero": "Le prix doit être supérieur à zéro",
				"ErrorMissingOrderName":   "Veuillez saisir votre nom",
				"ErrorMissingAddress":     "Veuillez saisir votre adresse",
				"ErrorMissingCity":        "Veuillez saisir votre ville",
				"ErrorMissingCountry":     "Veuillez saisir votre pays",
				"CartEmpty":               "Désolé, votre panier est vide",
				"ProductNotFound":         "Produit introuvable",
				"NotEnoughStock":          "Stock insuffisant pour ce produit",
			},
		},
	}
}

// Localize falls back to English, then to the key itself.
func (c *Catalog) Localize(culture Culture, key string) string {
	if m, ok := c.messages[culture.Tag]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if msg, ok := c.messages[language.English][key]; ok {
		return msg
	}
	return key
}
