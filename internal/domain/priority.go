package domain

import (
	"fmt"
	"strings"
)

// TicketPriority enumerates ticket urgency. LOW < MEDIUM < HIGH.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

var priorityRanks = map[TicketPriority]int{
	TicketPriorityLow:    0,
	TicketPriorityMedium: 1,
	TicketPriorityHigh:   2,
}

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// Rank returns the position of p in the priority ordering, or -1 when unknown.
func (p TicketPriority) Rank() int {
	rank, ok := priorityRanks[p]
	if !ok {
		return -1
	}
	return rank
}

// Below reports whether p is strictly less urgent than other.
func (p TicketPriority) Below(other TicketPriority) bool {
	return p.Rank() < other.Rank()
}

// Escalate moves p one step toward HIGH. HIGH stays HIGH.
func (p TicketPriority) Escalate() TicketPriority {
	switch p {
	case TicketPriorityLow:
		return TicketPriorityMedium
	case TicketPriorityMedium, TicketPriorityHigh:
		return TicketPriorityHigh
	default:
		return p
	}
}

// ParsePriority accepts any casing of LOW, MEDIUM or HIGH.
func ParsePriority(raw string) (TicketPriority, error) {
	p := TicketPriority(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", raw)
	}
	return p, nil
}
