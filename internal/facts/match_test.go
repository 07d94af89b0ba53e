package facts

import "testing"

func TestFoundExact(t *testing.T) {
	m := matcher{tolerance: 0.10}
	if !m.found("MiFID II", "obligations under mifid ii apply") {
		t.Error("exact match must be case-insensitive")
	}
}

func TestFoundNumericTolerance(t *testing.T) {
	m := matcher{tolerance: 0.10}

	// Boundary: 132 is exactly +10% of 120 and must match.
	if !m.found("120", "the fee was raised to 132 last year") {
		t.Error("+10% boundary must match")
	}
	if !m.found("120", "reduced to 108 effective immediately") {
		t.Error("-10% boundary must match")
	}
	// 133 is +10.8% and must not.
	if m.found("120", "the fee was raised to 133 last year") {
		t.Error("+11% must not match")
	}
}

func TestFoundThousandSeparators(t *testing.T) {
	m := matcher{tolerance: 0.10}
	if !m.found("1250", "monthly charge of 1,250 per port") {
		t.Error("separator variant must match")
	}
	if !m.found("1,250", "monthly charge of EUR 1.250 per port") {
		t.Error("currency-prefixed variant must match")
	}
}

func TestFoundPunctuationInsensitive(t *testing.T) {
	m := matcher{tolerance: 0.10}
	if !m.found("RTS 25", "requirements of RTS25 apply") {
		t.Error("punctuation-insensitive match failed")
	}
}

func TestFindSimilarNumeric(t *testing.T) {
	m := matcher{tolerance: 0.10}

	got, ok := m.findSimilar("120", "the fee is now 133 per month")
	if !ok || got != "133" {
		t.Errorf("findSimilar = %q %v, want 133", got, ok)
	}

	// Out of the magnitude band: not a candidate.
	if _, ok := m.findSimilar("120", "there were 500 participants"); ok {
		t.Error("500 is outside 0.5x-2x of 120")
	}

	// Within tolerance: would have matched, never a change candidate.
	if _, ok := m.findSimilar("120", "listed at 125 currently"); ok {
		t.Error("125 is within tolerance of 120")
	}
}

func TestFindSimilarMixedValue(t *testing.T) {
	m := matcher{tolerance: 0.10}

	// "50 EUR" never reaches tolerant matching (it is not purely numeric),
	// so any differing in-band number is a change candidate.
	if m.found("50 EUR", "the charge is EUR 54 per month") {
		t.Fatal("50 EUR must not match EUR 54")
	}
	got, ok := m.findSimilar("50 EUR", "the charge is EUR 54 per month")
	if !ok || got != "54" {
		t.Errorf("findSimilar = %q %v, want 54", got, ok)
	}
}

func TestFindSimilarSentence(t *testing.T) {
	m := matcher{tolerance: 0.10}
	value := "trading suspended during the auction phase"
	text := "Please note. Order entry is suspended during the auction phase for all instruments! Contact support."

	got, ok := m.findSimilar(value, text)
	if !ok {
		t.Fatal("sentence overlap candidate not found")
	}
	if len(got) > 100 {
		t.Errorf("candidate must be capped at 100 chars, got %d", len(got))
	}
}

func TestIsNumeric(t *testing.T) {
	if !isNumeric("1,250") || !isNumeric("85") || !isNumeric("1.250") {
		t.Error("formatted numbers must be numeric")
	}
	if isNumeric("50 EUR") || isNumeric("Q1 2026") {
		t.Error("mixed values are not numeric")
	}
}
