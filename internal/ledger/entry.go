package ledger

import (
	"fmt"
	"strings"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	minCents = decimal.NewFromInt(-1 << 63)
	maxCents = decimal.NewFromInt(1<<63 - 1)
)

// BuildTransaction turns parallel lines of account name, cents added and
// cents removed into one balanced transaction. Lines that net to zero are
// dropped. If the kept lines do not sum to zero the result is a
// *BalanceMismatchError carrying them, and no transaction is produced.
func BuildTransaction(author uuid.UUID, names, added, removed []string) (event.Transaction, error) {
	if len(names) != len(added) || len(names) != len(removed) {
		return event.Transaction{}, fmt.Errorf("%w: %d accounts, %d additions, %d removals",
			ErrInvalidInput, len(names), len(added), len(removed))
	}

	var (
		updates []event.BalanceUpdate
		total   = decimal.Zero
	)
	for i, name := range names {
		in, err := ParseCents(added[i])
		if err != nil {
			return event.Transaction{}, fmt.Errorf("line %d added: %w", i+1, err)
		}
		out, err := ParseCents(removed[i])
		if err != nil {
			return event.Transaction{}, fmt.Errorf("line %d removed: %w", i+1, err)
		}

		net := in.Sub(out)
		if net.IsZero() {
			continue
		}
		if net.LessThan(minCents) || net.GreaterThan(maxCents) {
			return event.Transaction{}, fmt.Errorf("%w: line %d overflows", ErrInvalidInput, i+1)
		}

		total = total.Add(net)
		updates = append(updates, event.BalanceUpdate{AccountName: name, ChangedBy: net.IntPart()})
	}

	if !total.IsZero() {
		return event.Transaction{}, &BalanceMismatchError{Attempted: updates}
	}
	return event.Transaction{Author: author, Updates: updates}, nil
}

// ParseCents parses a whole number of cents written as an optionally signed
// run of digits. Blank input, fractions and exponents are invalid.
func ParseCents(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}
	digits := s
	if digits[0] == '+' || digits[0] == '-' {
		digits = digits[1:]
	}
	if !isDigits(digits) {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a whole number of cents", ErrInvalidInput, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, s)
	}
	if d.LessThan(minCents) || d.GreaterThan(maxCents) {
		return decimal.Zero, fmt.Errorf("%w: amount %q is out of range", ErrInvalidInput, s)
	}
	return d, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheckBalances rejects tx if applying it to balances would push any
// account past the int64 range.
func CheckBalances(balances map[string]int64, tx event.Transaction) error {
	next := make(map[string]decimal.Decimal, len(tx.Updates))
	for _, u := range tx.Updates {
		cur, ok := next[u.AccountName]
		if !ok {
			cur = decimal.NewFromInt(balances[u.AccountName])
		}
		cur = cur.Add(decimal.NewFromInt(u.ChangedBy))
		if cur.LessThan(minCents) || cur.GreaterThan(maxCents) {
			return fmt.Errorf("%w: balance of %q would overflow", ErrInvalidInput, u.AccountName)
		}
		next[u.AccountName] = cur
	}
	return nil
}
