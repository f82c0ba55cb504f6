package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		query  string
		fields []string
		want   bool
	}{
		{"", []string{"anything"}, true},
		{"NOTAS", []string{"importar_notas"}, true},
		{"notaz", []string{"importar_notas"}, true},
		{"xml", []string{"notas.csv"}, false},
		{"abc", []string{"abd"}, false},
		{"relatoiro", []string{"/data/relatorio_jan.csv"}, true},
		{"estoque", []string{"limpeza", "estoqeu.xlsx"}, true},
		{"importacao", []string{"exportar"}, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, matches(c.query, c.fields...), "%q in %v", c.query, c.fields)
	}
}

func TestTypoBudget(t *testing.T) {
	require.Equal(t, 0, typoBudget("abc"))
	require.Equal(t, 1, typoBudget("abcd"))
	require.Equal(t, 1, typoBudget("abcdef"))
	require.Equal(t, 2, typoBudget("abcdefg"))
}
