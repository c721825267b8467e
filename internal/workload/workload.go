// Package workload aggregates per-user work item counts by service line for
// staff and partner dashboards.
package workload

import (
	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/workflow"
)

// ServiceLine is one strand of recurring work a client can be signed up for.
type ServiceLine string

const (
	LineVAT            ServiceLine = "vat"
	LineLtdAccounts    ServiceLine = "ltd_accounts"
	LineNonLtdAccounts ServiceLine = "nonltd_accounts"
	LineContractor     ServiceLine = "contractor"
	LineSubcontractor  ServiceLine = "subcontractor"
)

// Lines lists every service line in display order.
var Lines = []ServiceLine{
	LineVAT,
	LineLtdAccounts,
	LineNonLtdAccounts,
	LineContractor,
	LineSubcontractor,
}

// Item is one client's obligation on one service line, flattened for
// aggregation. When a workflow period exists for the line, HasWorkflow is set
// and Stage/WorkflowAssignee come from it; ClientAssignee is the client-level
// fallback either way.
type Item struct {
	ClientID uuid.UUID
	Line     ServiceLine

	HasWorkflow      bool
	Stage            workflow.Stage
	WorkflowAssignee *uuid.UUID

	ClientAssignee *uuid.UUID
}

// Counts splits a user's items on one line into started and not-yet-started.
type Counts struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Summary is one user's counts across all service lines.
type Summary map[ServiceLine]Counts

// Total sums active and inactive across every line.
func (s Summary) Total() Counts {
	var total Counts

	for _, c := range s {
		total.Active += c.Active
		total.Inactive += c.Inactive
	}

	return total
}

type itemKey struct {
	clientID uuid.UUID
	line     ServiceLine
}

// Aggregate counts work items per user per service line. A client appears at
// most once per line: when the input carries both a workflow row and a
// fallback row for the same client and line, the workflow row wins, and its
// assignee is the one credited. Fallback assignment only counts for clients
// with no workflow record on that line. Input order does not matter.
func Aggregate(items []Item) map[uuid.UUID]Summary {
	merged := make(map[itemKey]Item, len(items))

	for _, it := range items {
		key := itemKey{clientID: it.ClientID, line: it.Line}

		existing, ok := merged[key]
		if !ok || (it.HasWorkflow && !existing.HasWorkflow) {
			merged[key] = it
		}
	}

	result := make(map[uuid.UUID]Summary)

	for _, it := range merged {
		userID := assigneeOf(it)
		if userID == nil {
			continue
		}

		summary, ok := result[*userID]
		if !ok {
			summary = make(Summary)
			result[*userID] = summary
		}

		counts := summary[it.Line]

		if isActive(it) {
			counts.Active++
		} else {
			counts.Inactive++
		}

		summary[it.Line] = counts
	}

	return result
}

// For returns a single user's summary, never nil.
func For(items []Item, userID uuid.UUID) Summary {
	if summary, ok := Aggregate(items)[userID]; ok {
		return summary
	}

	return make(Summary)
}

// assigneeOf resolves who the item counts against. Workflow-level assignment
// takes precedence; the client-level fallback applies only when no workflow
// record exists for the line.
func assigneeOf(it Item) *uuid.UUID {
	if it.HasWorkflow {
		if it.WorkflowAssignee != nil {
			return it.WorkflowAssignee
		}

		return it.ClientAssignee
	}

	return it.ClientAssignee
}

// isActive reports whether work has started: a workflow exists and has moved
// past its initial stage.
func isActive(it Item) bool {
	return it.HasWorkflow && it.Stage != "" && it.Stage != workflow.StageNotStarted
}
