package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	items := []Contract{
		{ID: "1", PrimerNombre: "Ana", PrimerApellido: "Gómez", NumeroIdentificacion: "1020", Cargo: "Analista"},
		{ID: "2", PrimerNombre: "Luis", PrimerApellido: "Pérez", NumeroIdentificacion: "3040", Cargo: "Conductor"},
	}
	assert.Len(t, Search(items, ""), 2)

	got := Search(items, "gomez")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "1", got[0].ID)
	}

	got = Search(items, "3040")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}
	assert.Empty(t, Search(items, "zzz"))
}
