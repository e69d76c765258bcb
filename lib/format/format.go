/*package format parses parkit's exponent lists. An exponent list picks the
problem sizes a benchmark runs, one size of 2^e elements for each exponent e:

   exponents = 1..20
   exponents = 1..24 - 3..5

A list is a series of terms joined by "+" or "-". Each term is either one
exponent or an inclusive range written lo..hi. Terms after a "+" (or with no
operator at the start of the list) are added to the list and terms after a
"-" are removed from it. All additions happen before any removal, so

   10..20 - 15
   -15 + 10..20

are the same list. Whitespace is ignored. Exponents are returned sorted, and
the list may not name an exponent twice or remove one it never added.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MaxExponent is the largest problem-size exponent. A float64 array of
	// 2^MaxExponent elements already takes 8 GiB.
	MaxExponent = 30
	// maxListLen bounds the length of an expanded list. Longer lists are
	// almost certainly typos like 1..1000000.
	maxListLen = 1<<20
)

// term is one signed element of a list: the exponents lo through hi.
type term struct {
	remove bool
	lo, hi int
}

// ExpandList expands a list into a sorted slice of integers. Nothing limits
// the range of the integers; see ExpandExponentFormat for that.
func ExpandList(list string) ([]int, error) {
	terms, err := parseTerms(lexList(list))
	if err != nil { return nil, err }

	in := map[int]bool{ }
	for _, t := range terms {
		if t.remove { continue }
		// lo is never negative, so hi - lo can't overflow.
		if t.hi - t.lo >= maxListLen - len(in) {
			return nil, fmt.Errorf("the list would have more than %d " +
				"entries", maxListLen)
		}
		for n := t.lo; n <= t.hi; n++ {
			if in[n] { return nil, fmt.Errorf("%d is listed twice", n) }
			in[n] = true
		}
	}

	for _, t := range terms {
		if !t.remove { continue }
		for n := t.lo; n <= t.hi; n++ {
			if !in[n] {
				return nil, fmt.Errorf("%d is removed, but was never added", n)
			}
			delete(in, n)
		}
	}

	out := make([]int, 0, len(in))
	for n := range in { out = append(out, n) }
	sort.Ints(out)
	return out, nil
}

// lexList splits a list into terms and "+"/"-" operators.
func lexList(list string) []string {
	toks := []string{ }
	start := -1
	flush := func(end int) {
		if start >= 0 { toks = append(toks, list[start:end]) }
		start = -1
	}

	for i, r := range list {
		switch {
		case r == '+' || r == '-':
			flush(i)
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush(i)
		default:
			if start < 0 { start = i }
		}
	}
	flush(len(list))

	return toks
}

// parseTerms checks that operators and terms alternate and attaches each
// operator to the term after it.
func parseTerms(toks []string) ([]term, error) {
	if len(toks) == 0 { return nil, fmt.Errorf("the list is empty") }

	terms := []term{ }
	op := ""
	for i, tok := range toks {
		if tok == "+" || tok == "-" {
			if op != "" {
				return nil, fmt.Errorf("element %d, '%s', follows another " +
					"'%s'", i+1, tok, op)
			}
			op = tok
			continue
		}

		if op == "" && len(terms) > 0 {
			return nil, fmt.Errorf("element %d, '%s', needs a '+' or '-' " +
				"before it", i+1, tok)
		}
		t, err := parseTerm(tok)
		if err != nil {
			return nil, fmt.Errorf("element %d, '%s', %s", i+1, tok, err)
		}
		t.remove = op == "-"
		terms = append(terms, t)
		op = ""
	}

	if op != "" {
		return nil, fmt.Errorf("the list ends in a trailing '%s'", op)
	}
	return terms, nil
}

// parseTerm parses "n" or "lo..hi". Its errors read as the end of a sentence
// which names the term.
func parseTerm(tok string) (term, error) {
	lo, hi, isRange := strings.Cut(tok, "..")
	if strings.Contains(hi, "..") {
		return term{ }, fmt.Errorf("has more than one '..'")
	}

	a, err := strconv.Atoi(lo)
	if err != nil { return term{ }, fmt.Errorf("starts with a non-integer") }
	if !isRange { return term{ lo: a, hi: a }, nil }

	b, err := strconv.Atoi(hi)
	if err != nil { return term{ }, fmt.Errorf("ends with a non-integer") }
	if b < a {
		return term{ }, fmt.Errorf("runs backwards from %d to %d", a, b)
	}
	return term{ lo: a, hi: b }, nil
}

// ExpandExponentFormat expands the list of problem-size exponents a benchmark
// runs. Every exponent must be in [0, MaxExponent].
func ExpandExponentFormat(list string) ([]int, error) {
	exps, err := ExpandList(list)
	if err != nil {
		return nil, fmt.Errorf("exponent list '%s': %s", list, err)
	}

	for _, e := range exps {
		if e < 0 || e > MaxExponent {
			return nil, fmt.Errorf("exponent list '%s' contains %d, but " +
				"exponents must be in the range [0, %d]", list, e, MaxExponent)
		}
	}
	return exps, nil
}

// ExponentRange returns the exponents 1, ..., bound-1: a benchmark with an
// exponent bound of 3 runs sizes 2 and 4.
func ExponentRange(bound int) []int {
	out := []int{ }
	for e := 1; e < bound; e++ { out = append(out, e) }
	return out
}
