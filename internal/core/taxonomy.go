package core

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Taxonomy holds the suggested classifiers offered by the entry forms.
// Records are not restricted to these values.
type Taxonomy struct {
	Needs           []string `json:"needs"`
	Wants           []string `json:"wants"`
	IncomeSources   []string `json:"income_sources"`
	InvestmentTypes []string `json:"investment_types"`
}

// DefaultTaxonomy returns the built-in category lists.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Needs: []string{
			"Rent/EMI",
			"Utilities (Electricity, Water, Gas)",
			"Groceries & Essential Food",
			"Transportation (Commute)",
			"Mobile/Internet Bills",
			"Insurance Premiums",
			"Medical/Healthcare",
			"Children Education",
			"Loan Payments",
			"Essential Clothing",
		},
		Wants: []string{
			"Dining Out",
			"Entertainment",
			"Shopping (Non-essential)",
			"Travel/Vacation",
			"Hobbies",
			"Gadgets/Electronics",
			"Beauty/Personal Care",
			"Gifts",
			"Subscriptions (OTT, etc.)",
			"Other Wants",
		},
		IncomeSources: []string{
			"Salary", "Freelance", "Business", "Rental Income", "Interest/Dividends", "Other",
		},
		InvestmentTypes: []string{
			"Mutual Funds", "Stocks", "Fixed Deposit", "PPF", "NPS", "Gold", "Other",
		},
	}
}

// LoadTaxonomy overrides the defaults with seed files found in base.
// Missing, empty or unreadable files keep the default list.
func LoadTaxonomy(base string) Taxonomy {
	t := DefaultTaxonomy()
	override := func(dst *[]string, name string) {
		lines, err := readLines(filepath.Join(base, name))
		if err == nil && len(lines) > 0 {
			*dst = lines
		}
	}
	override(&t.Needs, "seed_needs.txt")
	override(&t.Wants, "seed_wants.txt")
	override(&t.IncomeSources, "seed_income_sources.txt")
	override(&t.InvestmentTypes, "seed_investment_types.txt")
	return t
}

// CategoriesFor returns the category list for an expense type.
func (t Taxonomy) CategoriesFor(et ExpenseType) []string {
	if et == Wants {
		return t.Wants
	}
	return t.Needs
}

// readLines returns the non-comment lines of path. A partially read file
// is an error, never a shorter list.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return dedupe(out), nil
}

// dedupe drops repeats and blanks, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
