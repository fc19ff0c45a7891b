package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/paisatrack/paisatrack/internal/models"
)

// ErrInvalidSplit is the base error for malformed split input. Callers can
// match it with errors.Is to distinguish validation failures from other
// errors.
var ErrInvalidSplit = errors.New("invalid split")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSplit, fmt.Sprintf(format, args...))
}

// ShareAmount is one participant's computed portion of a split total.
type ShareAmount struct {
	Participant string
	Amount      float64
}

// ItemInput is a single line item on a by-item split.
type ItemInput struct {
	Description string
	Amount      float64
	AssignedTo  []string
}

// SplitInput carries everything needed to compute shares for one split.
// Weights, Amounts, and Items are each consulted only by the matching
// method.
type SplitInput struct {
	Total        float64
	Method       models.SplitMethod
	Participants []string
	Weights      map[string]float64 // SplitPercentage: participant -> percent
	Amounts      map[string]float64 // SplitCustom: participant -> rupees
	Items        []ItemInput        // SplitByItem
}

// ComputeShares validates the input and computes per-participant shares for
// the chosen method. The returned shares always sum to exactly the total,
// to the paisa: any rounding remainder is handed out one paisa at a time in
// participant order.
func ComputeShares(in SplitInput) ([]ShareAmount, error) {
	if in.Total <= 0 {
		return nil, invalidf("total amount must be positive, got %.2f", in.Total)
	}
	if len(in.Participants) == 0 {
		return nil, invalidf("at least one participant required")
	}
	seen := make(map[string]bool, len(in.Participants))
	for _, p := range in.Participants {
		if p == "" {
			return nil, invalidf("participant id cannot be empty")
		}
		if seen[p] {
			return nil, invalidf("duplicate participant %q", p)
		}
		seen[p] = true
	}

	switch in.Method {
	case models.SplitEqual:
		return equalShares(in.Total, in.Participants), nil
	case models.SplitPercentage:
		return percentageShares(in.Total, in.Participants, in.Weights)
	case models.SplitCustom:
		return customShares(in.Total, in.Participants, in.Amounts)
	case models.SplitByItem:
		return byItemShares(in.Total, in.Participants, in.Items)
	default:
		return nil, invalidf("unsupported split method %v", in.Method)
	}
}

// equalShares divides the total evenly, giving the leftover paise to the
// first participants by index.
func equalShares(total float64, participants []string) []ShareAmount {
	totalPaise := toPaise(total)
	n := int64(len(participants))
	base := totalPaise / n
	remainder := totalPaise % n

	shares := make([]ShareAmount, len(participants))
	for i, p := range participants {
		paise := base
		if int64(i) < remainder {
			paise++
		}
		shares[i] = ShareAmount{Participant: p, Amount: toRupees(paise)}
	}
	return shares
}

// percentageShares divides the total by per-participant weights. Weights
// must cover every participant and sum to 100 within tolerance.
func percentageShares(total float64, participants []string, weights map[string]float64) ([]ShareAmount, error) {
	var weightSum float64
	for _, p := range participants {
		w, ok := weights[p]
		if !ok {
			return nil, invalidf("missing percentage for participant %q", p)
		}
		if w < 0 {
			return nil, invalidf("negative percentage for participant %q", p)
		}
		weightSum += w
	}
	if math.Abs(weightSum-100) > epsilon {
		return nil, invalidf("percentages must sum to 100, got %.2f", weightSum)
	}

	totalPaise := toPaise(total)
	shares := make([]ShareAmount, len(participants))
	paises := make([]int64, len(participants))
	var assigned int64
	for i, p := range participants {
		// Floor each raw share; leftovers are distributed below.
		paises[i] = int64(math.Floor(float64(totalPaise) * weights[p] / 100))
		assigned += paises[i]
	}
	distributeRemainder(paises, totalPaise-assigned)
	for i, p := range participants {
		shares[i] = ShareAmount{Participant: p, Amount: toRupees(paises[i])}
	}
	return shares, nil
}

// customShares uses caller-supplied amounts, which must cover every
// participant and sum to the total within tolerance.
func customShares(total float64, participants []string, amounts map[string]float64) ([]ShareAmount, error) {
	var sum float64
	for _, p := range participants {
		a, ok := amounts[p]
		if !ok {
			return nil, invalidf("missing amount for participant %q", p)
		}
		if a < 0 {
			return nil, invalidf("negative amount for participant %q", p)
		}
		sum += a
	}
	if math.Abs(sum-total) > epsilon {
		return nil, invalidf("amounts sum to %.2f, expected %.2f", sum, total)
	}

	totalPaise := toPaise(total)
	paises := make([]int64, len(participants))
	var assigned int64
	for i, p := range participants {
		paises[i] = toPaise(amounts[p])
		assigned += paises[i]
	}
	// Tolerance allows the paise sum to be off by a paisa or two; absorb
	// the difference so the invariant holds.
	distributeRemainder(paises, totalPaise-assigned)
	shares := make([]ShareAmount, len(participants))
	for i, p := range participants {
		shares[i] = ShareAmount{Participant: p, Amount: toRupees(paises[i])}
	}
	return shares, nil
}

// byItemShares splits each item equally among its assignees and sums each
// participant's item sub-shares. Item amounts must cover the full total.
func byItemShares(total float64, participants []string, items []ItemInput) ([]ShareAmount, error) {
	if len(items) == 0 {
		return nil, invalidf("by-item split requires at least one item")
	}
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		index[p] = i
	}

	var itemSum float64
	for _, item := range items {
		if item.Amount <= 0 {
			return nil, invalidf("item %q must have a positive amount", item.Description)
		}
		if len(item.AssignedTo) == 0 {
			return nil, invalidf("item %q has no assigned participants", item.Description)
		}
		for _, p := range item.AssignedTo {
			if _, ok := index[p]; !ok {
				return nil, invalidf("item %q assigned to unknown participant %q", item.Description, p)
			}
		}
		itemSum += item.Amount
	}
	if math.Abs(itemSum-total) > epsilon {
		return nil, invalidf("item amounts sum to %.2f, must cover the total %.2f", itemSum, total)
	}

	paises := make([]int64, len(participants))
	var assigned int64
	for _, item := range items {
		itemPaise := toPaise(item.Amount)
		n := int64(len(item.AssignedTo))
		base := itemPaise / n
		remainder := itemPaise % n
		for i, p := range item.AssignedTo {
			paise := base
			if int64(i) < remainder {
				paise++
			}
			paises[index[p]] += paise
			assigned += paise
		}
	}
	distributeRemainder(paises, toPaise(total)-assigned)

	shares := make([]ShareAmount, len(participants))
	for i, p := range participants {
		shares[i] = ShareAmount{Participant: p, Amount: toRupees(paises[i])}
	}
	return shares, nil
}

// distributeRemainder spreads diff paise across shares one paisa at a time,
// in participant order. diff may be negative, in which case paise are taken
// back in the same order; shares are never driven below zero.
func distributeRemainder(paises []int64, diff int64) {
	step := int64(1)
	if diff < 0 {
		step = -1
		diff = -diff
	}
	for i := 0; diff > 0; i = (i + 1) % len(paises) {
		if step < 0 && paises[i] == 0 {
			continue
		}
		paises[i] += step
		diff--
	}
}
