package domain

import "testing"

func TestTicketPriorityEscalate(t *testing.T) {
	tests := []struct {
		name     string
		input    TicketPriority
		expected TicketPriority
	}{
		{name: "low to medium", input: TicketPriorityLow, expected: TicketPriorityMedium},
		{name: "medium to high", input: TicketPriorityMedium, expected: TicketPriorityHigh},
		{name: "high is capped", input: TicketPriorityHigh, expected: TicketPriorityHigh},
		{name: "unknown untouched", input: TicketPriority("URGENT"), expected: TicketPriority("URGENT")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Escalate(); got != tt.expected {
				t.Fatalf("%q.Escalate() = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTicketPriorityOrdering(t *testing.T) {
	if !TicketPriorityLow.Below(TicketPriorityMedium) || !TicketPriorityMedium.Below(TicketPriorityHigh) {
		t.Fatal("expected LOW < MEDIUM < HIGH")
	}
	if TicketPriorityHigh.Below(TicketPriorityHigh) {
		t.Fatal("HIGH must not be below itself")
	}
	if TicketPriority("URGENT").Rank() != -1 {
		t.Fatal("unknown priority should rank -1")
	}
	// Repeated escalation never leaves the known set.
	p := TicketPriorityLow
	for i := 0; i < 5; i++ {
		p = p.Escalate()
	}
	if p != TicketPriorityHigh {
		t.Fatalf("repeated escalation = %q, expected HIGH", p)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		raw     string
		want    TicketPriority
		wantErr bool
	}{
		{raw: "low", want: TicketPriorityLow},
		{raw: " Medium ", want: TicketPriorityMedium},
		{raw: "HIGH", want: TicketPriorityHigh},
		{raw: "critical", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePriority(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePriority(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePriority(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePriority(%q) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}
