package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldMatchesNormalizedAlias(t *testing.T) {
	row := Row{"Modalidade": "Judô ", "Turma": "X"}

	assert.Equal(t, "Judô", Field(row, []string{"modalidade", "curso"}))
	assert.Equal(t, "X", Field(row, []string{"TURMA"}))
	assert.Equal(t, "", Field(row, []string{"professor"}))
	assert.Equal(t, "", Field(nil, []string{"modalidade"}))
}

func TestFieldCandidateOrderIsPriority(t *testing.T) {
	row := Row{"Curso": "Ballet", "Modalidade": "Judô"}

	assert.Equal(t, "Ballet", Field(row, []string{"curso", "modalidade"}))
	assert.Equal(t, "Judô", Field(row, []string{"modalidade", "curso"}))
}

func TestFieldIgnoresAccentsAndPunctuation(t *testing.T) {
	row := Row{"Data de Matrícula": "15/03/2024", "E-mail": "a@b.com"}

	assert.Equal(t, "15/03/2024", Field(row, []string{"datadematricula"}))
	assert.Equal(t, "a@b.com", Field(row, []string{"email"}))
}

func TestFieldForbiddenKeysNeverSelected(t *testing.T) {
	row := Row{"CursoCancelado": "Natação", "Curso": "Judô"}
	assert.Equal(t, "Judô", Field(row, []string{"cursocancelado", "curso"}, "cursoCancelado"))

	onlyCancelled := Row{"CursoCancelado": "Natação"}
	assert.Equal(t, "", Field(onlyCancelled, []string{"cursocancelado"}, "cursoCancelado"))

	containing := Row{"Data Cancelamento": "01/02/2024"}
	assert.Equal(t, "", Field(containing, []string{"datacancelamento"}, "cancel"))
}

func TestFieldStringifiesValues(t *testing.T) {
	row := Row{"capacidade": float64(12), "ativo": true, "vazio": nil}

	assert.Equal(t, "12", Field(row, []string{"capacidade"}))
	assert.Equal(t, "true", Field(row, []string{"ativo"}))
	assert.Equal(t, "", Field(row, []string{"vazio"}))
}
