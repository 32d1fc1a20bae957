package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		name      string
		firstName any
		surname   any
		want      string
	}{
		{name: "initial and surname", firstName: "Jean", surname: "Dupont", want: "J Dupont"},
		{name: "both empty", firstName: "", surname: "", want: ""},
		{name: "missing first name", firstName: nil, surname: "Ramasawmy", want: "Ramasawmy"},
		{name: "nan first name", firstName: "nan", surname: "Smith", want: "Smith"},
		{name: "NaN upper case", firstName: "NaN", surname: "NAN", want: ""},
		{name: "null surname is a name", firstName: "Jean", surname: "Null", want: "J Null"},
		{name: "none first name is a name", firstName: "None", surname: "Ng", want: "N Ng"},
		{name: "numeric first name", firstName: 42, surname: "Lee", want: "Lee"},
		{name: "float surname", firstName: "Anna", surname: 3.5, want: ""},
		{name: "lower case initial", firstName: " marie", surname: " Curie ", want: "M Curie"},
		{name: "whitespace first name", firstName: "   ", surname: "Bose", want: "Bose"},
		{name: "accented initial", firstName: "élodie", surname: "Ng", want: "É Ng"},
		{
			name:      "truncated",
			firstName: "Jean",
			surname:   "Ramasawmy-Veerapen-Appadoo",
			want:      "J Ramasawmy-Veerapen-App",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveLabel(tt.firstName, tt.surname)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxLabelLength)
		})
	}
}

func TestDeriveLabel_LongSurnameOnly(t *testing.T) {
	got := DeriveLabel(nil, strings.Repeat("x", 40))
	assert.Equal(t, strings.Repeat("x", MaxLabelLength), got)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "00520_0001149", SanitizeFilename("00520/0001149"))
	assert.Equal(t, "Andre_Dupont", SanitizeFilename("André Dupont"))
	assert.Equal(t, "MR_J_O_Brien", SanitizeFilename("  MR J. O'Brien "))
	assert.Equal(t, "A-1", SanitizeFilename("A-1"))
	assert.Equal(t, "", SanitizeFilename("///"))
}

func TestLetterFilename(t *testing.T) {
	assert.Equal(t, "007_00520_0001149_J_Dupont.pdf", LetterFilename(7, "00520/0001149", "J Dupont"))
}

func TestBillNumber(t *testing.T) {
	assert.Equal(t, "00520.0001149", BillNumber("00520/0001149", false))
	assert.Equal(t, "P..123.45", BillNumber("P-123/45", true))
	assert.Equal(t, "P-123.45", BillNumber(" P-123/45 ", false))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.0", FormatAmount(1500))
	assert.Equal(t, "1500.25", FormatAmount(1500.25))
	assert.Equal(t, "0.5", FormatAmount(0.5))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,500.00", FormatMoney(1500))
	assert.Equal(t, "999.90", FormatMoney(999.9))
	assert.Equal(t, "1,234,567.89", FormatMoney(1234567.891))
	assert.Equal(t, "-12.00", FormatMoney(-12))
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", "  ", "nan", "NaN", "None", " null "} {
		assert.True(t, IsBlank(s), s)
	}
	assert.False(t, IsBlank("0"))
}
