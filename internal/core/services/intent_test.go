package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		query string
		want  domain.Intent
	}{
		{"Hazme un resumen del documento", domain.IntentSummary},
		{"Resume los puntos principales", domain.IntentSummary},
		{"Please summarize this", domain.IntentSummary},
		{"Compara los dos documentos", domain.IntentComparison},
		{"¿Cuáles son las diferencias entre ellos?", domain.IntentComparison},
		{"document A versus document B", domain.IntentComparison},
		{"¿Qué tipo de documento es este?", domain.IntentClassification},
		{"Clasifica estos archivos", domain.IntentClassification},
		{"¿Quién es el autor?", domain.IntentMetadata},
		{"¿Cuántas páginas tiene?", domain.IntentMetadata},
		{"What is the title?", domain.IntentMetadata},
		{"¿De qué trata el primer capítulo?", domain.IntentGeneral},
		{"Explícame la sección de conclusiones", domain.IntentGeneral},
		{"", domain.IntentGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectIntent(tt.query), "query: %q", tt.query)
	}
}

func TestDetectIntent_PriorityOrder(t *testing.T) {
	// Summary outranks comparison; comparison outranks metadata.
	assert.Equal(t, domain.IntentSummary, detectIntent("resume y compara los documentos"))
	assert.Equal(t, domain.IntentComparison, detectIntent("compara los autores de ambos"))
}

func TestDetectIntent_CaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.IntentSummary, detectIntent("RESUMEN POR FAVOR"))
}

func TestWantsAllDocuments(t *testing.T) {
	assert.True(t, wantsAllDocuments("resume todos los documentos"))
	assert.True(t, wantsAllDocuments("summarize all files"))
	assert.False(t, wantsAllDocuments("resume el primer documento"))
}
