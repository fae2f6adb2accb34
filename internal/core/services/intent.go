package services

import (
	"strings"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// intentKeywords maps each intent to its trigger keywords. Detection
// is first-match-wins in the order of intentOrder; queries matching
// nothing fall through to the general intent.
var intentKeywords = map[domain.Intent][]string{
	domain.IntentSummary: {
		"resumen", "resume", "resumir", "síntesis", "sintetiza",
		"summary", "summarize", "summarise",
	},
	domain.IntentComparison: {
		"compara", "comparación", "comparar", "diferencias", "similitudes",
		"compare", "comparison", "differences", "similarities", "versus", "vs",
	},
	domain.IntentClassification: {
		"clasifica", "clasificación", "categoriza", "tipo de documento",
		"classify", "classification", "categorize", "type of document",
	},
	domain.IntentMetadata: {
		"autor", "título", "fecha", "páginas", "metadatos",
		"author", "title", "date", "pages", "metadata",
	},
}

// intentOrder fixes the detection priority. Earlier intents win when
// a query matches keywords of several.
var intentOrder = []domain.Intent{
	domain.IntentSummary,
	domain.IntentComparison,
	domain.IntentClassification,
	domain.IntentMetadata,
}

// detectIntent classifies a query by keyword matching.
func detectIntent(query string) domain.Intent {
	q := strings.ToLower(query)
	for _, intent := range intentOrder {
		for _, keyword := range intentKeywords[intent] {
			if strings.Contains(q, keyword) {
				return intent
			}
		}
	}
	return domain.IntentGeneral
}

// wantsAllDocuments reports whether a summary query asks for every
// loaded document rather than the retrieved context.
func wantsAllDocuments(query string) bool {
	q := strings.ToLower(query)
	for _, marker := range []string{"todos", "todas", "all"} {
		if strings.Contains(q, marker) {
			return true
		}
	}
	return false
}
