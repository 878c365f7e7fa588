package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixStemmer strips a trailing "nya" or "an", enough to exercise the pipeline without
// depending on the Sastrawi dictionary.
var suffixStemmer = StemmerFunc(func(w string) string {
	for _, suf := range []string{"nya", "an"} {
		if len(w) > len(suf)+2 && strings.HasSuffix(w, suf) {
			return strings.TrimSuffix(w, suf)
		}
	}
	return w
})

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer([]string{"tempat", "enak", "cafe"}, WithStemmer(suffixStemmer), WithoutDefaultStopwords())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only stopwords", "Tempat enak cafe", ""},
		{"stemmed", "Masakan pedasnya", "masak pedas"},
		{"stem that becomes stopword is dropped", "tempatnya ramai", "ramai"},
		{"url removed", "kopi http://x.y", "kopi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer([]string{"tempat", "enak"}, WithStemmer(suffixStemmer))
	inputs := []string{
		"Tempat ngopi enak dengan wifi kencang",
		"Masakan Padang rendangnya mantap",
		"Café & Dessert, Jl. Braga No. 12",
		"makanannya makanan",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalizer_Sastrawi(t *testing.T) {
	n := NewNormalizer(nil)
	got := n.Normalize("Rakyat memenuhi halaman gedung")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "penuh")
	assert.Equal(t, got, n.Normalize(got))
	assert.True(t, n.IsStopword("yang"))
}
